package mixture

import (
	"fmt"
	"math"

	"mixconc/internal/mixture/density"
	"mixconc/internal/mixture/units"
	dErrors "mixconc/pkg/domain-errors"
)

const (
	MinComponents = 2
	MaxComponents = 10

	// DefaultMolarMass is sodium chloride, used when a caller omits the molar mass.
	DefaultMolarMass = 58.44

	MinTemperatureC = -20.0
	MaxTemperatureC = 120.0
)

// Component is one input liquid as declared by the caller. Concentration is in
// the request's concentration unit and DeclaredMass in its mass unit.
// MolarMass (g/mol) only matters for molar units but is always present.
type Component struct {
	Concentration float64
	DeclaredMass  float64
	Density       float64 // g/mL
	MolarMass     float64
}

// Request is an immutable snapshot of one computation's inputs.
type Request struct {
	MassUnit          units.MassUnit
	VolumeUnit        units.VolumeUnit
	ConcentrationUnit units.ConcentrationUnit
	TemperatureC      float64

	// TargetVolume is in VolumeUnit; 0 means no target.
	TargetVolume        float64
	TargetConcentration float64

	Components []Component
}

// Mode is how component masses are determined.
type Mode string

const (
	ModeDirect Mode = "direct"
	ModeScaled Mode = "scaled"
	ModeSolved Mode = "solved"
)

// TargetVolumeML returns the target volume in milliliters.
func (r Request) TargetVolumeML() float64 {
	return units.ToMilliliters(r.TargetVolume, r.VolumeUnit)
}

// Mode selects exactly one computation mode. Solving needs a target volume, a
// target concentration and exactly two components; a target volume alone
// scales the declared recipe.
func (r Request) Mode() Mode {
	target := r.TargetVolumeML()
	switch {
	case target > 0 && r.TargetConcentration > 0 && len(r.Components) == 2:
		return ModeSolved
	case target > 0:
		return ModeScaled
	default:
		return ModeDirect
	}
}

// ReferenceMolarMass is the molar mass used to express the final mixture
// concentration in a molar unit: the first component's.
func (r Request) ReferenceMolarMass() float64 {
	if len(r.Components) == 0 {
		return DefaultMolarMass
	}
	return r.Components[0].MolarMass
}

// Validate checks the invariants the engine relies on.
//
// Errors: returns CodeValidation describing the first violated rule.
func (r Request) Validate() error {
	if !r.MassUnit.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "mass unit is not supported")
	}
	if !r.VolumeUnit.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "volume unit is not supported")
	}
	if !r.ConcentrationUnit.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "concentration unit is not supported")
	}
	if n := len(r.Components); n < MinComponents || n > MaxComponents {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("between %d and %d components are required, got %d", MinComponents, MaxComponents, n))
	}
	if !isFinite(r.TemperatureC) || r.TemperatureC < MinTemperatureC || r.TemperatureC > MaxTemperatureC {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("temperature must be between %g and %g °C", MinTemperatureC, MaxTemperatureC))
	}
	if !isFinite(r.TargetVolume) || r.TargetVolume < 0 {
		return dErrors.New(dErrors.CodeValidation, "target volume must not be negative")
	}
	if !isFinite(r.TargetConcentration) || r.TargetConcentration < 0 {
		return dErrors.New(dErrors.CodeValidation, "target concentration must not be negative")
	}

	molar := r.ConcentrationUnit.Kind() == units.KindMolar
	for i, c := range r.Components {
		n := i + 1
		if !isFinite(c.Density) || c.Density <= 0 {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("component %d: density must be positive", n))
		}
		if !isFinite(c.Concentration) || c.Concentration < 0 {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("component %d: concentration must not be negative", n))
		}
		if !isFinite(c.DeclaredMass) || c.DeclaredMass < 0 {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("component %d: mass must not be negative", n))
		}
		if molar && (!isFinite(c.MolarMass) || c.MolarMass <= 0) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("component %d: molar mass must be positive", n))
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputedComponent is a component with its derived quantities. It is a new
// value; the input Component is never modified.
type ComputedComponent struct {
	Index           int
	Component       Component
	MassGrams       float64
	VolumeML        float64
	SoluteMassGrams float64
}

// Totals are the mixture-level sums over all computed components.
type Totals struct {
	MassGrams       float64
	VolumeML        float64
	SoluteMassGrams float64
}

// Density is total mass over total volume in g/mL, 0 for an empty volume.
func (t Totals) Density() float64 {
	if t.VolumeML == 0 {
		return 0
	}
	return t.MassGrams / t.VolumeML
}

// Result is the output of one computation.
type Result struct {
	Mode Mode
	// ScaleFactor is set in scaled mode only.
	ScaleFactor float64

	Components []ComputedComponent
	Totals     Totals
	Density    float64

	// Concentration is the final mixture concentration in ConcentrationUnit.
	Concentration     float64
	ConcentrationUnit units.ConcentrationUnit

	// Mass and Volume are the totals expressed in the request's units.
	Mass       float64
	MassUnit   units.MassUnit
	Volume     float64
	VolumeUnit units.VolumeUnit

	Reference density.Reference
}
