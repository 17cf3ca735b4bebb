package report

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// TextRenderer writes an aligned plain-text report.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer { return &TextRenderer{} }

func (r *TextRenderer) Format() string      { return "text" }
func (r *TextRenderer) ContentType() string { return "text/plain; charset=utf-8" }
func (r *TextRenderer) Extension() string   { return "txt" }

func (r *TextRenderer) Render(w io.Writer, doc *Document) error {
	res := doc.Result
	meta := doc.Metadata
	summary := Summarize(res)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Experiment report: %s\n", meta.ExperimentName)
	fmt.Fprintf(tw, "Generated: %s\n\n", meta.GeneratedAt.Format("2006-01-02 15:04"))

	fmt.Fprintf(tw, "Room temperature:\t%g °C\n", doc.Request.TemperatureC)
	fmt.Fprintf(tw, "Reference density:\twater %.4f g/mL, saline %.4f g/mL\n", res.Reference.Water, res.Reference.Saline)
	fmt.Fprintf(tw, "Mode:\t%s\n\n", res.Mode)

	fmt.Fprintf(tw, "Total mass:\t%s\n", summary.Mass)
	fmt.Fprintf(tw, "Total volume:\t%s\n", summary.Volume)
	fmt.Fprintf(tw, "Mixture density:\t%s\n", summary.Density)
	fmt.Fprintf(tw, "Concentration:\t%s\n\n", summary.Concentration)

	fmt.Fprintf(tw, "Component\tConcentration (%s)\tDensity (g/mL)\tMass (%s)\tSolute\n", res.ConcentrationUnit, res.MassUnit)
	for _, row := range Rows(res) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row.Name, row.Concentration, row.Density, row.Mass, row.Solute)
	}
	fmt.Fprintf(tw, "\nGenerated by %s\n", meta.Version)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	return nil
}
