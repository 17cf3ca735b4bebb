package handler

import (
	"mixconc/internal/mixture"
	"mixconc/internal/mixture/density"
	"mixconc/internal/mixture/units"
	"mixconc/internal/report"
)

// ComponentResponse is one computed component.
type ComponentResponse struct {
	Index         int     `json:"index"`
	Concentration float64 `json:"concentration"`
	Density       float64 `json:"density"`
	MolarMass     float64 `json:"molar_mass"`
	// Mass is in the request's mass unit; the _g/_ml fields are canonical.
	Mass          float64 `json:"mass"`
	MassGrams     float64 `json:"mass_g"`
	VolumeML      float64 `json:"volume_ml"`
	SoluteGrams   float64 `json:"solute_g"`
	SoluteDisplay string  `json:"solute_display"`
}

// TotalsResponse holds the canonical mixture totals.
type TotalsResponse struct {
	MassGrams   float64 `json:"mass_g"`
	VolumeML    float64 `json:"volume_ml"`
	SoluteGrams float64 `json:"solute_g"`
}

// ComputeResponse is the HTTP response for POST /mixtures/compute.
type ComputeResponse struct {
	Mode              string              `json:"mode"`
	ScaleFactor       float64             `json:"scale_factor,omitempty"`
	Components        []ComponentResponse `json:"components"`
	Totals            TotalsResponse      `json:"totals"`
	Density           float64             `json:"density"`
	Concentration     float64             `json:"concentration"`
	ConcentrationUnit string              `json:"concentration_unit"`
	Mass              float64             `json:"mass"`
	MassUnit          string              `json:"mass_unit"`
	Volume            float64             `json:"volume"`
	VolumeUnit        string              `json:"volume_unit"`
	Reference         density.Reference   `json:"reference"`
}

// FromResult converts a domain Result to an HTTP response.
func FromResult(res *mixture.Result) *ComputeResponse {
	components := make([]ComponentResponse, 0, len(res.Components))
	for _, c := range res.Components {
		components = append(components, ComponentResponse{
			Index:         c.Index + 1,
			Concentration: c.Component.Concentration,
			Density:       c.Component.Density,
			MolarMass:     c.Component.MolarMass,
			Mass:          units.FromGrams(c.MassGrams, res.MassUnit),
			MassGrams:     c.MassGrams,
			VolumeML:      c.VolumeML,
			SoluteGrams:   c.SoluteMassGrams,
			SoluteDisplay: report.FormatSolute(c.SoluteMassGrams),
		})
	}
	return &ComputeResponse{
		Mode:        string(res.Mode),
		ScaleFactor: res.ScaleFactor,
		Components:  components,
		Totals: TotalsResponse{
			MassGrams:   res.Totals.MassGrams,
			VolumeML:    res.Totals.VolumeML,
			SoluteGrams: res.Totals.SoluteMassGrams,
		},
		Density:           res.Density,
		Concentration:     res.Concentration,
		ConcentrationUnit: string(res.ConcentrationUnit),
		Mass:              res.Mass,
		MassUnit:          string(res.MassUnit),
		Volume:            res.Volume,
		VolumeUnit:        string(res.VolumeUnit),
		Reference:         res.Reference,
	}
}

// UnsolvableResponse is the 422 body for a mixture that cannot be solved.
type UnsolvableResponse struct {
	Error            string   `json:"error"`
	Reason           string   `json:"reason"`
	ErrorDescription string   `json:"error_description"`
	Min              *float64 `json:"min,omitempty"`
	Max              *float64 `json:"max,omitempty"`
}

// BatchItemResponse is one entry of a batch response. Exactly one of Result
// and Error is set.
type BatchItemResponse struct {
	Index  int              `json:"index"`
	Result *ComputeResponse `json:"result,omitempty"`
	Error  *ItemError       `json:"error,omitempty"`
}

// ItemError describes why one batch item failed.
type ItemError struct {
	Code        string `json:"code"`
	Reason      string `json:"reason,omitempty"`
	Description string `json:"description"`
}

// BatchResponse is the HTTP response for POST /mixtures/batch.
type BatchResponse struct {
	Items     []BatchItemResponse `json:"items"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}
