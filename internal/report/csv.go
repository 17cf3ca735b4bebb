package report

import (
	"encoding/csv"
	"fmt"
	"io"
)

// CSVRenderer writes the recipe table followed by the mixture totals.
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (r *CSVRenderer) Format() string      { return "csv" }
func (r *CSVRenderer) ContentType() string { return "text/csv; charset=utf-8" }
func (r *CSVRenderer) Extension() string   { return "csv" }

func (r *CSVRenderer) Render(w io.Writer, doc *Document) error {
	res := doc.Result
	cw := csv.NewWriter(w)

	records := [][]string{{
		"component",
		"concentration (" + string(res.ConcentrationUnit) + ")",
		"density (g/mL)",
		"mass (" + string(res.MassUnit) + ")",
		"solute",
	}}
	for _, row := range Rows(res) {
		records = append(records, []string{row.Name, row.Concentration, row.Density, row.Mass, row.Solute})
	}

	summary := Summarize(res)
	records = append(records,
		[]string{},
		[]string{"total mass", summary.Mass},
		[]string{"total volume", summary.Volume},
		[]string{"density", summary.Density},
		[]string{"concentration", summary.Concentration},
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("render csv: %w", err)
	}
	return nil
}
