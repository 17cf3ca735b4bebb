package mixture

import (
	"math"

	"mixconc/internal/mixture/units"
)

// epsilon is the tolerance for range and degeneracy checks in the solver.
const epsilon = 1e-7

// Masses are the solved component masses in grams. Either may be negative when
// the blend ratio implies removing a component; no clamping is applied.
type Masses struct {
	First  float64
	Second float64
}

// SolveTwoComponent finds the masses of two liquids (concentrations c1, c2,
// densities d1, d2 in g/mL) that blend to targetConc.
//
// Every unit except weight percent blends by volume: the two volumes sum to
// targetVolumeML and each mass is volume times density. Weight percent blends
// by mass: the target fixes the mass ratio m1/m2, and targetVolumeML is the
// only size input, so the masses are scaled until m1/d1 + m2/d2 equals it.
//
// Errors, checked in order: ErrMissingInput when both concentrations are zero,
// ErrOutOfRange when the target lies outside [min(c1,c2)-ε, max(c1,c2)+ε],
// ErrDegenerateSystem when c1 and c2 coincide or, for weight percent, when the
// target equals c1.
func SolveTwoComponent(c1, d1, c2, d2, targetVolumeML, targetConc float64, unit units.ConcentrationUnit) (Masses, error) {
	if c1 == 0 && c2 == 0 {
		return Masses{}, ErrMissingInput
	}

	lo, hi := math.Min(c1, c2), math.Max(c1, c2)
	if targetConc < lo-epsilon || targetConc > hi+epsilon {
		return Masses{}, outOfRange(lo, hi)
	}
	if math.Abs(c1-c2) < epsilon {
		return Masses{}, degenerate("components have identical concentration")
	}

	if unit.Kind() != units.KindWeightPercent {
		v1 := targetVolumeML * (targetConc - c2) / (c1 - c2)
		v2 := targetVolumeML - v1
		return Masses{First: v1 * d1, Second: v2 * d2}, nil
	}

	// TODO(product): w/w recipes size the batch from the volume field; decide
	// whether they should take an explicit target mass instead.

	// The mass ratio below divides by c1 - target, not c1 - c2.
	if math.Abs(c1-targetConc) < epsilon {
		return Masses{}, degenerate("target concentration equals component 1")
	}
	ratio := (targetConc - c2) / (c1 - targetConc)
	m2 := targetVolumeML / (ratio/d1 + 1/d2)
	return Masses{First: m2 * ratio, Second: m2}, nil
}
