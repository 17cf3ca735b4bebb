// Package units defines the closed set of units the mixture engine accepts and
// their factors to the canonical base units: grams, milliliters and grams per
// liter.
//
// Each family is a string enum. Construct values with the Parse functions at
// trust boundaries; direct conversion bypasses validation. Factor lookups on a
// value outside the enum return 0 rather than failing, which is the engine's
// intentional unsupported-unit behaviour.
package units

import (
	"strings"

	dErrors "mixconc/pkg/domain-errors"
)

// MassUnit is a unit of mass.
type MassUnit string

const (
	Microgram MassUnit = "µg"
	Milligram MassUnit = "mg"
	Gram      MassUnit = "g"
	Kilogram  MassUnit = "kg"
)

// VolumeUnit is a unit of volume.
type VolumeUnit string

const (
	Microliter VolumeUnit = "µL"
	Milliliter VolumeUnit = "mL"
	Liter      VolumeUnit = "L"
)

// ConcentrationUnit is any unit a component concentration may be declared in.
type ConcentrationUnit string

const (
	MicrogramPerLiter ConcentrationUnit = "µg/L"
	MilligramPerLiter ConcentrationUnit = "mg/L"
	GramPerLiter      ConcentrationUnit = "g/L"
	MillimolePerLiter ConcentrationUnit = "mmol/L"
	MolePerLiter      ConcentrationUnit = "mol/L"
	WeightPercent     ConcentrationUnit = "% (w/w)"
	VolumePercent     ConcentrationUnit = "% (v/v)"
)

// Kind is the family a concentration unit belongs to. The engine dispatches on
// the kind, never on the unit spelling.
type Kind int

const (
	KindUnknown Kind = iota
	KindMassConcentration
	KindMolar
	KindWeightPercent
	KindVolumePercent
)

func (k Kind) String() string {
	switch k {
	case KindMassConcentration:
		return "mass_concentration"
	case KindMolar:
		return "molar"
	case KindWeightPercent:
		return "weight_percent"
	case KindVolumePercent:
		return "volume_percent"
	default:
		return "unknown"
	}
}

// GramsPer returns how many grams one unit of u is.
func (u MassUnit) GramsPer() float64 {
	switch u {
	case Microgram:
		return 1e-6
	case Milligram:
		return 1e-3
	case Gram:
		return 1
	case Kilogram:
		return 1e3
	}
	return 0
}

func (u MassUnit) IsValid() bool {
	return u.GramsPer() != 0
}

func (u MassUnit) String() string {
	return string(u)
}

// ToGrams converts v expressed in u to grams.
func ToGrams(v float64, u MassUnit) float64 {
	return v * u.GramsPer()
}

// FromGrams expresses g grams in u. Unknown units yield 0.
func FromGrams(g float64, u MassUnit) float64 {
	f := u.GramsPer()
	if f == 0 {
		return 0
	}
	return g / f
}

// MillilitersPer returns how many milliliters one unit of u is.
func (u VolumeUnit) MillilitersPer() float64 {
	switch u {
	case Microliter:
		return 1e-3
	case Milliliter:
		return 1
	case Liter:
		return 1000
	}
	return 0
}

func (u VolumeUnit) IsValid() bool {
	return u.MillilitersPer() != 0
}

func (u VolumeUnit) String() string {
	return string(u)
}

// ToMilliliters converts v expressed in u to milliliters.
func ToMilliliters(v float64, u VolumeUnit) float64 {
	return v * u.MillilitersPer()
}

// FromMilliliters expresses ml milliliters in u. Unknown units yield 0.
func FromMilliliters(ml float64, u VolumeUnit) float64 {
	f := u.MillilitersPer()
	if f == 0 {
		return 0
	}
	return ml / f
}

// Kind classifies u.
func (u ConcentrationUnit) Kind() Kind {
	switch u {
	case MicrogramPerLiter, MilligramPerLiter, GramPerLiter:
		return KindMassConcentration
	case MillimolePerLiter, MolePerLiter:
		return KindMolar
	case WeightPercent:
		return KindWeightPercent
	case VolumePercent:
		return KindVolumePercent
	}
	return KindUnknown
}

// GramsPerLiterPer returns the g/L equivalent of one unit of a
// mass-concentration unit, 0 for every other unit.
func (u ConcentrationUnit) GramsPerLiterPer() float64 {
	switch u {
	case MicrogramPerLiter:
		return 1e-6
	case MilligramPerLiter:
		return 1e-3
	case GramPerLiter:
		return 1
	}
	return 0
}

// MolesPerLiterPer returns the mol/L equivalent of one unit of a molar unit,
// 0 for every other unit.
func (u ConcentrationUnit) MolesPerLiterPer() float64 {
	switch u {
	case MillimolePerLiter:
		return 1e-3
	case MolePerLiter:
		return 1
	}
	return 0
}

func (u ConcentrationUnit) IsValid() bool {
	return u.Kind() != KindUnknown
}

func (u ConcentrationUnit) String() string {
	return string(u)
}

// The alias maps key lower-cased, space-free spellings to canonical units.
// The greek mu (U+03BC) and the micro sign (U+00B5) are both accepted.
var massAliases = map[string]MassUnit{
	"µg": Microgram, "μg": Microgram, "ug": Microgram, "mcg": Microgram,
	"mg": Milligram,
	"g":  Gram,
	"kg": Kilogram,
}

var volumeAliases = map[string]VolumeUnit{
	"µl": Microliter, "μl": Microliter, "ul": Microliter,
	"ml": Milliliter,
	"l":  Liter,
}

var concentrationAliases = map[string]ConcentrationUnit{
	"µg/l": MicrogramPerLiter, "μg/l": MicrogramPerLiter, "ug/l": MicrogramPerLiter,
	"mg/l":   MilligramPerLiter,
	"g/l":    GramPerLiter,
	"mmol/l": MillimolePerLiter,
	"mol/l":  MolePerLiter,
	"%(w/w)": WeightPercent, "%w/w": WeightPercent, "w/w": WeightPercent, "wt%": WeightPercent,
	"%(v/v)": VolumePercent, "%v/v": VolumePercent, "v/v": VolumePercent, "vol%": VolumePercent,
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// ParseMassUnit constructs a MassUnit from external input.
func ParseMassUnit(s string) (MassUnit, error) {
	if u, ok := massAliases[normalize(s)]; ok {
		return u, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported mass unit: "+s)
}

// ParseVolumeUnit constructs a VolumeUnit from external input.
func ParseVolumeUnit(s string) (VolumeUnit, error) {
	if u, ok := volumeAliases[normalize(s)]; ok {
		return u, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported volume unit: "+s)
}

// ParseConcentrationUnit constructs a ConcentrationUnit from external input.
func ParseConcentrationUnit(s string) (ConcentrationUnit, error) {
	if u, ok := concentrationAliases[normalize(s)]; ok {
		return u, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported concentration unit: "+s)
}

// Catalog lists every supported unit per family in display order.
type Catalog struct {
	Mass          []MassUnit          `json:"mass"`
	Volume        []VolumeUnit        `json:"volume"`
	Concentration []ConcentrationUnit `json:"concentration"`
}

// All returns the unit catalog.
func All() Catalog {
	return Catalog{
		Mass:   []MassUnit{Microgram, Milligram, Gram, Kilogram},
		Volume: []VolumeUnit{Microliter, Milliliter, Liter},
		Concentration: []ConcentrationUnit{
			MicrogramPerLiter, MilligramPerLiter, GramPerLiter,
			MillimolePerLiter, MolePerLiter,
			WeightPercent, VolumePercent,
		},
	}
}
