package mixture

import "mixconc/internal/mixture/units"

// nearZero guards the divisions in ConvertToUnit.
const nearZero = 1e-9

// ConvertToUnit expresses soluteGrams dissolved in a mixture of totalMassGrams
// and totalVolumeML as a concentration in target. refMolarMass (g/mol) is only
// read for molar targets.
//
// Both percentage targets use the mass fraction; volume percent is not
// recomputed from volumes here even though SoluteGrams treats it by volume.
// Near-empty mixtures, unknown targets and a non-positive molar mass for molar
// targets yield 0.
func ConvertToUnit(soluteGrams, totalMassGrams, totalVolumeML float64, target units.ConcentrationUnit, refMolarMass float64) float64 {
	if totalMassGrams <= nearZero || totalVolumeML <= nearZero {
		return 0
	}
	volumeL := totalVolumeML / 1000

	switch target.Kind() {
	case units.KindWeightPercent, units.KindVolumePercent:
		return soluteGrams / totalMassGrams * 100

	case units.KindMassConcentration:
		return soluteGrams / target.GramsPerLiterPer() / volumeL

	case units.KindMolar:
		if refMolarMass <= 0 {
			return 0
		}
		return soluteGrams / refMolarMass / target.MolesPerLiterPer() / volumeL

	case units.KindUnknown:
		return 0
	}
	return 0
}
