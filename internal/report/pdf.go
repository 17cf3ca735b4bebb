package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const pdfFont = "Helvetica"

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Component", 34},
	{"Concentration", 34},
	{"Density (g/mL)", 34},
	{"Mass", 38},
	{"Solute", 40},
}

// PDFRenderer lays the report out on A4 pages.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Format() string      { return "pdf" }
func (r *PDFRenderer) ContentType() string { return "application/pdf" }
func (r *PDFRenderer) Extension() string   { return "pdf" }

// Render writes doc as a PDF. The core fonts only cover cp1252, so text goes
// through the unicode translator; characters outside it are dropped.
func (r *PDFRenderer) Render(w io.Writer, doc *Document) error {
	res := doc.Result
	meta := doc.Metadata

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(meta.ExperimentName, true)
	pdf.SetCreator("mixconc "+meta.Version, true)
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "", 9)
		pdf.SetTextColor(170, 170, 170)
		pdf.CellFormat(0, 10, tr("Generated by "+meta.Version), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 22)
	pdf.CellFormat(0, 14, tr("Experiment report: "+meta.ExperimentName), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, "Generated: "+meta.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	heading := func(text string) {
		pdf.Ln(4)
		pdf.SetFont(pdfFont, "B", 14)
		pdf.CellFormat(0, 9, tr(text), "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
	}
	line := func(label, value string) {
		pdf.SetFont(pdfFont, "B", 10)
		pdf.CellFormat(45, 6, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
	}

	heading("1. Environment and targets")
	line("Room temperature:", fmt.Sprintf("%g °C", doc.Request.TemperatureC))
	line("Target units:", fmt.Sprintf("%s (concentration) | %s (volume)", res.ConcentrationUnit, res.VolumeUnit))
	line("Reference density:", fmt.Sprintf("water (%.4f g/mL) | saline (%.4f g/mL)",
		res.Reference.Water, res.Reference.Saline))
	line("Mode:", string(res.Mode))

	summary := Summarize(res)
	heading("2. Mixture overview")
	line("Total mass:", summary.Mass)
	line("Total volume:", summary.Volume)
	line("Mixture density:", summary.Density)
	line("Concentration:", summary.Concentration)

	heading("3. Recipe")
	pdf.SetFont(pdfFont, "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range pdfColumns {
		title := col.title
		if i == 3 {
			title = fmt.Sprintf("Mass (%s)", res.MassUnit)
		}
		pdf.CellFormat(col.width, 8, tr(title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", 10)
	for _, row := range Rows(res) {
		cells := []string{row.Name, row.Concentration, row.Density, row.Mass, row.Solute}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(cells[i]), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
