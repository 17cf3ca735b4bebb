package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/handler/mocks"
	"mixconc/internal/mixture/units"
	dErrors "mixconc/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/mixture-mocks.go -package=mocks Service
type MixtureHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *MixtureHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestMixtureHandlerSuite(t *testing.T) {
	suite.Run(t, new(MixtureHandlerSuite))
}

func newTestRouter(t *testing.T, maxBatch int) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, maxBatch)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func solveBody() map[string]any {
	return map[string]any{
		"mass_unit":            "g",
		"volume_unit":          "mL",
		"concentration_unit":   "g/L",
		"temperature_c":        22,
		"target_volume":        100,
		"target_concentration": 40,
		"components": []map[string]any{
			{"concentration": 0, "density": 1.0},
			{"concentration": 100, "density": 1.2},
		},
	}
}

// =============================================================================
// POST /mixtures/compute
// =============================================================================

func (s *MixtureHandlerSuite) TestHandleCompute() {
	s.Run("parses units and defaults molar mass before calling the service", func() {
		router, svc := newTestRouter(s.T(), 0)
		res, err := mixture.Compute(expectedSolveRequest())
		s.Require().NoError(err)

		svc.EXPECT().Compute(gomock.Any(), expectedSolveRequest()).Return(res, nil)

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", solveBody())
		s.Equal(http.StatusOK, rec.Code)

		var resp ComputeResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("solved", resp.Mode)
		s.Require().Len(resp.Components, 2)
		s.Equal(1, resp.Components[0].Index)
		s.InDelta(60.0, resp.Components[0].Mass, 1e-6)
		s.InDelta(48.0, resp.Components[1].Mass, 1e-6)
		s.Equal("4.000 g", resp.Components[1].SoluteDisplay)
		s.InDelta(40.0, resp.Concentration, 1e-6)
		s.Equal("g/L", resp.ConcentrationUnit)
		s.InDelta(0.9946, resp.Reference.Water, 1e-9)
	})

	s.Run("omitted units fall back to session defaults", func() {
		router, svc := newTestRouter(s.T(), 0)
		svc.EXPECT().Compute(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, req mixture.Request) (*mixture.Result, error) {
				s.Equal(units.Milligram, req.MassUnit)
				s.Equal(units.Microliter, req.VolumeUnit)
				s.Equal(units.MilligramPerLiter, req.ConcentrationUnit)
				s.Equal(22.0, req.TemperatureC)
				return mixture.Compute(req)
			})

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", map[string]any{
			"components": []map[string]any{
				{"concentration": 0, "mass": 100, "density": 1.0},
				{"concentration": 100, "mass": 100, "density": 1.0},
			},
		})
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("unknown unit is rejected without calling the service", func() {
		router, _ := newTestRouter(s.T(), 0)
		body := solveBody()
		body["concentration_unit"] = "ppm"

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("invalid_input", decodeBody(s.T(), rec)["error"])
	})

	s.Run("too few components is a validation error", func() {
		router, _ := newTestRouter(s.T(), 0)
		body := solveBody()
		body["components"] = []map[string]any{{"concentration": 1, "density": 1}}

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("validation_error", decodeBody(s.T(), rec)["error"])
	})

	s.Run("unknown fields are rejected", func() {
		router, _ := newTestRouter(s.T(), 0)
		body := solveBody()
		body["colour"] = "blue"

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", body)
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Equal("bad_request", decodeBody(s.T(), rec)["error"])
	})

	s.Run("unsolvable mixture returns 422 with the reason and bounds", func() {
		router, svc := newTestRouter(s.T(), 0)
		solveErr := &mixture.SolveError{
			Reason:  mixture.ReasonOutOfRange,
			Message: "target concentration out of range: must be between 0 and 100",
			Min:     0,
			Max:     100,
		}
		svc.EXPECT().Compute(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.Wrap(solveErr, dErrors.CodeUnprocessable, solveErr.Message))

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", solveBody())
		s.Equal(http.StatusUnprocessableEntity, rec.Code)

		body := decodeBody(s.T(), rec)
		s.Equal("mixture_unsolvable", body["error"])
		s.Equal("out_of_range", body["reason"])
		s.Equal(solveErr.Message, body["error_description"])
		s.Equal(100.0, body["max"])
	})

	s.Run("degenerate system omits bounds", func() {
		router, svc := newTestRouter(s.T(), 0)
		svc.EXPECT().Compute(gomock.Any(), gomock.Any()).Return(nil, mixture.ErrDegenerateSystem)

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", solveBody())
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		body := decodeBody(s.T(), rec)
		s.Equal("degenerate_system", body["reason"])
		s.NotContains(body, "min")
	})

	s.Run("internal errors do not leak details", func() {
		router, svc := newTestRouter(s.T(), 0)
		svc.EXPECT().Compute(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "redis exploded"))

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/compute", solveBody())
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "redis")
	})
}

func expectedSolveRequest() mixture.Request {
	return mixture.Request{
		MassUnit:            units.Gram,
		VolumeUnit:          units.Milliliter,
		ConcentrationUnit:   units.GramPerLiter,
		TemperatureC:        22,
		TargetVolume:        100,
		TargetConcentration: 40,
		Components: []mixture.Component{
			{Concentration: 0, Density: 1.0, MolarMass: mixture.DefaultMolarMass},
			{Concentration: 100, Density: 1.2, MolarMass: mixture.DefaultMolarMass},
		},
	}
}

// =============================================================================
// POST /mixtures/batch
// =============================================================================

func (s *MixtureHandlerSuite) TestHandleBatch() {
	s.Run("invalid items are reported in place and skipped", func() {
		router, svc := newTestRouter(s.T(), 0)
		res, err := mixture.Compute(expectedSolveRequest())
		s.Require().NoError(err)

		svc.EXPECT().ComputeBatch(gomock.Any(), gomock.Len(2)).Return([]mixture.BatchItem{
			{Result: res},
			{Err: mixture.ErrMissingInput},
		}, nil)

		invalid := solveBody()
		invalid["mass_unit"] = "stone"
		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/batch", map[string]any{
			"requests": []map[string]any{solveBody(), invalid, solveBody()},
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		var resp BatchResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Require().Len(resp.Items, 3)
		s.Equal(1, resp.Succeeded)
		s.Equal(2, resp.Failed)

		s.NotNil(resp.Items[0].Result)
		s.Equal("invalid_input", resp.Items[1].Error.Code)
		s.Equal(2, resp.Items[2].Index)
		s.Equal("mixture_unsolvable", resp.Items[2].Error.Code)
		s.Equal("missing_input", resp.Items[2].Error.Reason)
	})

	s.Run("oversized batch is rejected", func() {
		router, _ := newTestRouter(s.T(), 2)
		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/batch", map[string]any{
			"requests": []map[string]any{solveBody(), solveBody(), solveBody()},
		})
		s.Equal(http.StatusBadRequest, rec.Code)
		body := decodeBody(s.T(), rec)
		s.Equal("validation_error", body["error"])
		s.Contains(body["error_description"], "at most 2 requests")
	})

	s.Run("empty batch is rejected", func() {
		router, _ := newTestRouter(s.T(), 0)
		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/batch", map[string]any{"requests": []any{}})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("interrupted batch surfaces the service error", func() {
		router, svc := newTestRouter(s.T(), 0)
		svc.EXPECT().ComputeBatch(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnavailable, "batch computation interrupted"))

		rec := doJSON(s.T(), router, http.MethodPost, "/mixtures/batch", map[string]any{
			"requests": []map[string]any{solveBody()},
		})
		s.Equal(http.StatusServiceUnavailable, rec.Code)
	})
}

// =============================================================================
// GET /units and GET /reference/density
// =============================================================================

func TestHandleUnits(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	rec := doJSON(t, router, http.MethodGet, "/units", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var catalog units.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &catalog))
	assert.Len(t, catalog.Mass, 4)
	assert.Len(t, catalog.Volume, 3)
	assert.Contains(t, catalog.Concentration, units.WeightPercent)
}

func TestHandleReferenceDensity(t *testing.T) {
	router, _ := newTestRouter(t, 0)

	t.Run("explicit temperature", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/reference/density?temperature_c=20", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.InDelta(t, 0.9952, body["water_g_per_ml"], 1e-9)
		assert.InDelta(t, 1.004, body["saline_g_per_ml"], 1e-9)
	})

	t.Run("default temperature", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/reference/density", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 22.0, decodeBody(t, rec)["temperature_c"])
	})

	t.Run("malformed temperature", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/reference/density?temperature_c=warm", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("temperature out of range", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/reference/density?temperature_c=500", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	for _, raw := range []string{"NaN", "nan", "Inf", "-Inf", "+Infinity"} {
		t.Run("non-finite temperature "+raw, func(t *testing.T) {
			rec := doJSON(t, router, http.MethodGet, "/reference/density?temperature_c="+raw, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_error", decodeBody(t, rec)["error"])
		})
	}
}

func TestBatchRequestValidate(t *testing.T) {
	t.Run("oversized batch is rejected before items are parsed", func(t *testing.T) {
		req := &BatchRequest{
			Requests: []ComputeRequest{{MassUnit: "stone"}, {}, {}},
			maxItems: 2,
		}
		err := req.Validate()
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Nil(t, req.itemErrs)
	})

	t.Run("item failures stay per item", func(t *testing.T) {
		req := &BatchRequest{
			Requests: []ComputeRequest{{MassUnit: "stone"}},
			maxItems: 2,
		}
		require.NoError(t, req.Validate())
		require.Len(t, req.itemErrs, 1)
		assert.Error(t, req.itemErrs[0])
	})

	t.Run("zero cap allows any length", func(t *testing.T) {
		req := &BatchRequest{Requests: make([]ComputeRequest, 60)}
		require.NoError(t, req.Validate())
		assert.Len(t, req.itemErrs, 60)
	})
}
