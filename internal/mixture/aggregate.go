package mixture

import (
	"slices"

	"mixconc/internal/mixture/density"
	"mixconc/internal/mixture/units"
)

// Compute runs one full mixture computation. The request must already satisfy
// Validate. The only error is a *SolveError in solved mode, in which case no
// components or totals are returned.
func Compute(req Request) (*Result, error) {
	mode := req.Mode()
	res := &Result{
		Mode:              mode,
		ConcentrationUnit: req.ConcentrationUnit,
		MassUnit:          req.MassUnit,
		VolumeUnit:        req.VolumeUnit,
		Reference:         density.References(req.TemperatureC),
	}

	masses := make([]float64, len(req.Components))
	switch mode {
	case ModeSolved:
		first, second := req.Components[0], req.Components[1]
		solved, err := SolveTwoComponent(
			first.Concentration, first.Density,
			second.Concentration, second.Density,
			req.TargetVolumeML(), req.TargetConcentration, req.ConcentrationUnit,
		)
		if err != nil {
			return nil, err
		}
		masses[0], masses[1] = solved.First, solved.Second

	case ModeScaled:
		res.ScaleFactor = ScaleFactor(req)
		for i, c := range req.Components {
			masses[i] = units.ToGrams(c.DeclaredMass, req.MassUnit) * res.ScaleFactor
		}

	case ModeDirect:
		for i, c := range req.Components {
			masses[i] = units.ToGrams(c.DeclaredMass, req.MassUnit)
		}
	}

	res.Components = make([]ComputedComponent, len(req.Components))
	for i, c := range req.Components {
		res.Components[i] = computeComponent(i, c, masses[i], req.ConcentrationUnit)
	}

	res.Totals = Sum(res.Components)
	res.Density = res.Totals.Density()
	res.Concentration = ConvertToUnit(
		res.Totals.SoluteMassGrams, res.Totals.MassGrams, res.Totals.VolumeML,
		req.ConcentrationUnit, req.ReferenceMolarMass(),
	)
	res.Mass = units.FromGrams(res.Totals.MassGrams, req.MassUnit)
	res.Volume = units.FromMilliliters(res.Totals.VolumeML, req.VolumeUnit)
	return res, nil
}

// ScaleFactor is the uniform factor that brings the declared recipe to the
// target volume. A recipe with no declared volume scales by 0.
func ScaleFactor(req Request) float64 {
	var base float64
	for _, c := range req.Components {
		base += units.ToGrams(c.DeclaredMass, req.MassUnit) / c.Density
	}
	if base <= 0 {
		return 0
	}
	return req.TargetVolumeML() / base
}

func computeComponent(i int, c Component, massGrams float64, unit units.ConcentrationUnit) ComputedComponent {
	return ComputedComponent{
		Index:           i,
		Component:       c,
		MassGrams:       massGrams,
		VolumeML:        massGrams / c.Density,
		SoluteMassGrams: SoluteGrams(c.Concentration, unit, c.MolarMass, c.Density, massGrams),
	}
}

// Sum totals the computed components. Each column is summed in ascending order
// so the totals are identical for any ordering of the components.
func Sum(components []ComputedComponent) Totals {
	mass := make([]float64, len(components))
	volume := make([]float64, len(components))
	solute := make([]float64, len(components))
	for i, c := range components {
		mass[i] = c.MassGrams
		volume[i] = c.VolumeML
		solute[i] = c.SoluteMassGrams
	}
	return Totals{
		MassGrams:       sortedSum(mass),
		VolumeML:        sortedSum(volume),
		SoluteMassGrams: sortedSum(solute),
	}
}

func sortedSum(vs []float64) float64 {
	slices.Sort(vs)
	var total float64
	for _, v := range vs {
		total += v
	}
	return total
}
