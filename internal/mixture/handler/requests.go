package handler

import (
	"fmt"
	"strings"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/units"
	dErrors "mixconc/pkg/domain-errors"
)

// Defaults applied when a field is omitted; they match the settings a new
// session starts with.
const (
	defaultMassUnit          = units.Milligram
	defaultVolumeUnit        = units.Microliter
	defaultConcentrationUnit = units.MilligramPerLiter
	defaultTemperatureC      = 22.0
)

// ComponentRequest is one component in a compute request body.
type ComponentRequest struct {
	Concentration float64  `json:"concentration"`
	Mass          float64  `json:"mass"`
	Density       float64  `json:"density"`
	MolarMass     *float64 `json:"molar_mass,omitempty"`
}

// ComputeRequest is the HTTP request body for POST /mixtures/compute.
type ComputeRequest struct {
	MassUnit            string             `json:"mass_unit"`
	VolumeUnit          string             `json:"volume_unit"`
	ConcentrationUnit   string             `json:"concentration_unit"`
	TemperatureC        *float64           `json:"temperature_c,omitempty"`
	TargetVolume        float64            `json:"target_volume"`
	TargetConcentration float64            `json:"target_concentration"`
	Components          []ComponentRequest `json:"components"`

	// Parsed values (populated by Validate)
	parsed mixture.Request
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ComputeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	// Size validation (fail fast)
	if len(r.Components) > mixture.MaxComponents {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("at most %d components are allowed", mixture.MaxComponents))
	}

	massUnit := defaultMassUnit
	if s := strings.TrimSpace(r.MassUnit); s != "" {
		u, err := units.ParseMassUnit(s)
		if err != nil {
			return err
		}
		massUnit = u
	}
	volumeUnit := defaultVolumeUnit
	if s := strings.TrimSpace(r.VolumeUnit); s != "" {
		u, err := units.ParseVolumeUnit(s)
		if err != nil {
			return err
		}
		volumeUnit = u
	}
	concUnit := defaultConcentrationUnit
	if s := strings.TrimSpace(r.ConcentrationUnit); s != "" {
		u, err := units.ParseConcentrationUnit(s)
		if err != nil {
			return err
		}
		concUnit = u
	}
	temperature := defaultTemperatureC
	if r.TemperatureC != nil {
		temperature = *r.TemperatureC
	}

	components := make([]mixture.Component, 0, len(r.Components))
	for _, c := range r.Components {
		molarMass := mixture.DefaultMolarMass
		if c.MolarMass != nil {
			molarMass = *c.MolarMass
		}
		components = append(components, mixture.Component{
			Concentration: c.Concentration,
			DeclaredMass:  c.Mass,
			Density:       c.Density,
			MolarMass:     molarMass,
		})
	}

	req := mixture.Request{
		MassUnit:            massUnit,
		VolumeUnit:          volumeUnit,
		ConcentrationUnit:   concUnit,
		TemperatureC:        temperature,
		TargetVolume:        r.TargetVolume,
		TargetConcentration: r.TargetConcentration,
		Components:          components,
	}
	if err := req.Validate(); err != nil {
		return err
	}
	r.parsed = req
	return nil
}

// Parsed returns the validated domain request.
func (r *ComputeRequest) Parsed() mixture.Request {
	return r.parsed
}

// BatchRequest is the HTTP request body for POST /mixtures/batch.
type BatchRequest struct {
	Requests []ComputeRequest `json:"requests"`

	// maxItems caps the batch length; zero means no cap.
	maxItems int

	// itemErrs holds per-item validation failures; a bad item does not
	// reject the batch.
	itemErrs []error
}

// Validate checks the batch envelope and parses each item.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Requests) == 0 {
		return dErrors.New(dErrors.CodeValidation, "requests must not be empty")
	}
	if r.maxItems > 0 && len(r.Requests) > r.maxItems {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("at most %d requests are allowed per batch", r.maxItems))
	}
	r.itemErrs = make([]error, len(r.Requests))
	for i := range r.Requests {
		r.itemErrs[i] = r.Requests[i].Validate()
	}
	return nil
}
