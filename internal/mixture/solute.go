package mixture

import "mixconc/internal/mixture/units"

// SoluteGrams converts a declared concentration into the absolute solute mass
// (g) carried by totalMassGrams of a liquid with the given density (g/mL).
//
// Volume percent converts the solute volume back to mass with the liquid's own
// density rather than the solute's. Unsupported units, and volume-based units
// with a non-positive density, yield 0 instead of an error.
func SoluteGrams(concentration float64, unit units.ConcentrationUnit, molarMass, density, totalMassGrams float64) float64 {
	switch unit.Kind() {
	case units.KindMassConcentration:
		if density <= 0 {
			return 0
		}
		volumeL := totalMassGrams / density / 1000
		return concentration * unit.GramsPerLiterPer() * volumeL

	case units.KindMolar:
		if density <= 0 {
			return 0
		}
		volumeL := totalMassGrams / density / 1000
		return concentration * unit.MolesPerLiterPer() * volumeL * molarMass

	case units.KindWeightPercent:
		return concentration / 100 * totalMassGrams

	case units.KindVolumePercent:
		if density <= 0 {
			return 0
		}
		totalVolumeML := totalMassGrams / density
		soluteVolumeML := concentration / 100 * totalVolumeML
		return soluteVolumeML * density

	case units.KindUnknown:
		return 0
	}
	return 0
}
