package report

import (
	"fmt"
	"strconv"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/units"
)

// FormatSolute renders a solute mass in grams with the largest unit that keeps
// the value readable: ng below 1 µg, µg below 1 mg, mg below 1 g.
func FormatSolute(grams float64) string {
	switch {
	case grams == 0:
		return "0.00 g"
	case grams < 1e-6:
		return fmt.Sprintf("%.3f ng", grams*1e9)
	case grams < 1e-3:
		return fmt.Sprintf("%.3f µg", grams*1e6)
	case grams < 1:
		return fmt.Sprintf("%.3f mg", grams*1e3)
	default:
		return fmt.Sprintf("%.3f g", grams)
	}
}

// Row is one component formatted for display.
type Row struct {
	Name          string
	Concentration string
	Density       string
	Mass          string
	Solute        string
}

// Rows formats the computed components. Mass is shown in the session mass unit.
func Rows(res *mixture.Result) []Row {
	rows := make([]Row, 0, len(res.Components))
	for _, c := range res.Components {
		rows = append(rows, Row{
			Name:          fmt.Sprintf("Component %d", c.Index+1),
			Concentration: strconv.FormatFloat(c.Component.Concentration, 'g', -1, 64),
			Density:       fmt.Sprintf("%.4f", c.Component.Density),
			Mass:          fmt.Sprintf("%.2f", units.FromGrams(c.MassGrams, res.MassUnit)),
			Solute:        FormatSolute(c.SoluteMassGrams),
		})
	}
	return rows
}

// Summary holds the mixture totals formatted for display.
type Summary struct {
	Mass          string
	Volume        string
	Density       string
	Concentration string
}

// Summarize formats the totals in the session units.
func Summarize(res *mixture.Result) Summary {
	return Summary{
		Mass:          fmt.Sprintf("%.2f %s", res.Mass, res.MassUnit),
		Volume:        fmt.Sprintf("%.2f %s", res.Volume, res.VolumeUnit),
		Density:       fmt.Sprintf("%.4f g/mL", res.Density),
		Concentration: fmt.Sprintf("%.3f %s", res.Concentration, res.ConcentrationUnit),
	}
}
