package mixture

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mixconc/internal/mixture/units"
)

func microRecipe() Request {
	return Request{
		MassUnit:          units.Milligram,
		VolumeUnit:        units.Microliter,
		ConcentrationUnit: units.MilligramPerLiter,
		TemperatureC:      22,
		Components: []Component{
			{Concentration: 0, DeclaredMass: 100, Density: 1, MolarMass: DefaultMolarMass},
			{Concentration: 100, DeclaredMass: 100, Density: 1, MolarMass: DefaultMolarMass},
		},
	}
}

func TestModeSelection(t *testing.T) {
	three := microRecipe()
	three.Components = append(three.Components, Component{Density: 1})

	tests := []struct {
		name       string
		volume     float64
		conc       float64
		components []Component
		want       Mode
	}{
		{"no target", 0, 0, microRecipe().Components, ModeDirect},
		{"target concentration alone", 0, 50, microRecipe().Components, ModeDirect},
		{"target volume alone", 500, 0, microRecipe().Components, ModeScaled},
		{"both targets with two components", 500, 50, microRecipe().Components, ModeSolved},
		{"both targets with three components", 500, 50, three.Components, ModeScaled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := microRecipe()
			req.TargetVolume = tt.volume
			req.TargetConcentration = tt.conc
			req.Components = tt.components
			assert.Equal(t, tt.want, req.Mode())
		})
	}
}

func TestCompute_Direct(t *testing.T) {
	res, err := Compute(microRecipe())
	require.NoError(t, err)

	assert.Equal(t, ModeDirect, res.Mode)
	require.Len(t, res.Components, 2)
	for i, c := range res.Components {
		assert.Equal(t, i, c.Index)
		assert.InDelta(t, 0.1, c.MassGrams, 1e-12)
		assert.InDelta(t, 0.1, c.VolumeML, 1e-12)
	}
	assert.Zero(t, res.Components[0].SoluteMassGrams)
	assert.InDelta(t, 1e-5, res.Components[1].SoluteMassGrams, 1e-15)

	assert.InDelta(t, 0.2, res.Totals.MassGrams, 1e-12)
	assert.InDelta(t, 0.2, res.Totals.VolumeML, 1e-12)
	assert.InDelta(t, 1.0, res.Density, 1e-12)
	assert.InDelta(t, 50, res.Concentration, 1e-9)

	assert.InDelta(t, 200, res.Mass, 1e-9)
	assert.Equal(t, units.Milligram, res.MassUnit)
	assert.InDelta(t, 200, res.Volume, 1e-9)
	assert.Equal(t, units.Microliter, res.VolumeUnit)
	assert.Equal(t, units.MilligramPerLiter, res.ConcentrationUnit)
	assert.Equal(t, 22.0, res.Reference.TemperatureC)
	assert.Zero(t, res.ScaleFactor)
}

func TestCompute_Scaled(t *testing.T) {
	req := microRecipe()
	req.TargetVolume = 1000 // µL

	res, err := Compute(req)
	require.NoError(t, err)

	assert.Equal(t, ModeScaled, res.Mode)
	assert.InDelta(t, 5, res.ScaleFactor, 1e-12)
	assert.InDelta(t, 0.5, res.Components[0].MassGrams, 1e-12)
	assert.InDelta(t, 1.0, res.Totals.VolumeML, 1e-12)
	assert.InDelta(t, 1000, res.Volume, 1e-9)
	// scaling both components keeps the blend concentration
	assert.InDelta(t, 50, res.Concentration, 1e-9)
}

func TestCompute_ScaledWithoutDeclaredVolume(t *testing.T) {
	req := microRecipe()
	req.TargetVolume = 1000
	for i := range req.Components {
		req.Components[i].DeclaredMass = 0
	}

	res, err := Compute(req)
	require.NoError(t, err)

	assert.Equal(t, ModeScaled, res.Mode)
	assert.Zero(t, res.ScaleFactor)
	for _, c := range res.Components {
		assert.Zero(t, c.MassGrams)
		assert.Zero(t, c.VolumeML)
		assert.False(t, math.IsNaN(c.SoluteMassGrams))
	}
	assert.Zero(t, res.Totals.MassGrams)
	assert.Zero(t, res.Density)
	assert.Zero(t, res.Concentration)
}

func TestCompute_Solved(t *testing.T) {
	req := Request{
		MassUnit:            units.Gram,
		VolumeUnit:          units.Milliliter,
		ConcentrationUnit:   units.GramPerLiter,
		TemperatureC:        20,
		TargetVolume:        100,
		TargetConcentration: 40,
		Components: []Component{
			{Concentration: 0, DeclaredMass: 999, Density: 1.0},
			{Concentration: 100, DeclaredMass: 999, Density: 1.2},
		},
	}

	res, err := Compute(req)
	require.NoError(t, err)

	assert.Equal(t, ModeSolved, res.Mode)
	assert.InDelta(t, 60, res.Components[0].MassGrams, 1e-6)
	assert.InDelta(t, 48, res.Components[1].MassGrams, 1e-6)
	assert.InDelta(t, 40, res.Components[1].VolumeML, 1e-6)
	assert.InDelta(t, 100, res.Totals.VolumeML, 1e-6)
	assert.InDelta(t, 40, res.Concentration, 1e-6)
	// declared masses are ignored and left untouched
	assert.Equal(t, 999.0, req.Components[0].DeclaredMass)
	assert.Equal(t, 999.0, res.Components[0].Component.DeclaredMass)
}

func TestCompute_SolveFailureReturnsNothing(t *testing.T) {
	req := microRecipe()
	req.TargetVolume = 1000
	req.TargetConcentration = 500 // above both components

	res, err := Compute(req)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestSum_OrderIndependent(t *testing.T) {
	req := Request{
		MassUnit:          units.Gram,
		VolumeUnit:        units.Milliliter,
		ConcentrationUnit: units.GramPerLiter,
		Components: []Component{
			{Concentration: 0.1, DeclaredMass: 0.3, Density: 1.07},
			{Concentration: 12.7, DeclaredMass: 1e-7, Density: 0.79},
			{Concentration: 3.3, DeclaredMass: 123456.789, Density: 1.84},
			{Concentration: 99, DeclaredMass: 0.1, Density: 1.003},
		},
	}
	forward, err := Compute(req)
	require.NoError(t, err)

	reversed := req
	reversed.Components = []Component{req.Components[3], req.Components[2], req.Components[1], req.Components[0]}
	backward, err := Compute(reversed)
	require.NoError(t, err)

	rotated := req
	rotated.Components = []Component{req.Components[2], req.Components[0], req.Components[3], req.Components[1]}
	shuffled, err := Compute(rotated)
	require.NoError(t, err)

	assert.Equal(t, forward.Totals, backward.Totals)
	assert.Equal(t, forward.Totals, shuffled.Totals)
}

func TestTotalsDensity(t *testing.T) {
	assert.Zero(t, Totals{MassGrams: 10}.Density())
	assert.InDelta(t, 1.25, Totals{MassGrams: 125, VolumeML: 100}.Density(), 1e-12)
}
