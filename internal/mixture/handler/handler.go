package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mixconc/internal/mixture"
	"mixconc/internal/mixture/density"
	"mixconc/internal/mixture/units"
	dErrors "mixconc/pkg/domain-errors"
	"mixconc/pkg/platform/httputil"
	"mixconc/pkg/requestcontext"
)

const defaultMaxBatchSize = 50

// Service defines the interface for mixture operations.
type Service interface {
	Compute(ctx context.Context, req mixture.Request) (*mixture.Result, error)
	ComputeBatch(ctx context.Context, reqs []mixture.Request) ([]mixture.BatchItem, error)
}

// Handler wires mixture endpoints to the mixture service.
type Handler struct {
	service      Service
	logger       *slog.Logger
	maxBatchSize int
}

// New constructs a mixture handler. maxBatchSize <= 0 selects the default.
func New(service Service, logger *slog.Logger, maxBatchSize int) *Handler {
	if maxBatchSize <= 0 {
		maxBatchSize = defaultMaxBatchSize
	}
	return &Handler{
		service:      service,
		logger:       logger,
		maxBatchSize: maxBatchSize,
	}
}

// Register mounts mixture endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/mixtures/compute", h.HandleCompute)
	r.Post("/mixtures/batch", h.HandleBatch)
	r.Get("/units", h.HandleUnits)
	r.Get("/reference/density", h.HandleReferenceDensity)
}

// HandleCompute handles POST /mixtures/compute requests.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ComputeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Compute(ctx, req.Parsed())
	if err != nil {
		h.logger.InfoContext(ctx, "mixture computation rejected",
			"request_id", requestID,
			"error", err,
		)
		WriteComputeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "mixture computed",
		"request_id", requestID,
		"mode", result.Mode,
		"components", len(result.Components),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromResult(result))
}

// HandleBatch handles POST /mixtures/batch requests. Items that fail
// validation or solving are reported in place; the batch itself succeeds.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req := &BatchRequest{maxItems: h.maxBatchSize}
	if !httputil.DecodeAndPrepareInto(w, r, h.logger, ctx, requestID, req) {
		return
	}

	resp := BatchResponse{Items: make([]BatchItemResponse, len(req.Requests))}

	// Only valid items reach the service; positions maps them back.
	var valid []mixture.Request
	var positions []int
	for i := range req.Requests {
		resp.Items[i].Index = i
		if err := req.itemErrs[i]; err != nil {
			resp.Items[i].Error = itemError(err)
			continue
		}
		valid = append(valid, req.Requests[i].Parsed())
		positions = append(positions, i)
	}

	if len(valid) > 0 {
		items, err := h.service.ComputeBatch(ctx, valid)
		if err != nil {
			h.logger.ErrorContext(ctx, "batch computation failed",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		for j, item := range items {
			i := positions[j]
			if item.Err != nil {
				resp.Items[i].Error = itemError(item.Err)
				continue
			}
			resp.Items[i].Result = FromResult(item.Result)
		}
	}

	for _, item := range resp.Items {
		if item.Error != nil {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}

	h.logger.InfoContext(ctx, "mixture batch computed",
		"request_id", requestID,
		"items", len(resp.Items),
		"failed", resp.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleUnits handles GET /units requests.
func (h *Handler) HandleUnits(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, units.All())
}

// HandleReferenceDensity handles GET /reference/density requests.
func (h *Handler) HandleReferenceDensity(w http.ResponseWriter, r *http.Request) {
	tempC := defaultTemperatureC
	if raw := r.URL.Query().Get("temperature_c"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "temperature_c must be a number"))
			return
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "temperature_c must be a finite number"))
			return
		}
		tempC = v
	}
	if tempC < mixture.MinTemperatureC || tempC > mixture.MaxTemperatureC {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("temperature must be between %g and %g °C", mixture.MinTemperatureC, mixture.MaxTemperatureC)))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, density.References(tempC))
}

// WriteComputeError writes a compute failure. Unsolvable mixtures get a 422
// carrying the solver reason; everything else uses the standard envelope.
func WriteComputeError(w http.ResponseWriter, err error) {
	var se *mixture.SolveError
	if !errors.As(err, &se) {
		httputil.WriteError(w, err)
		return
	}
	body := UnsolvableResponse{
		Error:            "mixture_unsolvable",
		Reason:           string(se.Reason),
		ErrorDescription: se.Message,
	}
	if se.Reason == mixture.ReasonOutOfRange {
		body.Min, body.Max = &se.Min, &se.Max
	}
	httputil.WriteJSON(w, http.StatusUnprocessableEntity, body)
}

func itemError(err error) *ItemError {
	var se *mixture.SolveError
	if errors.As(err, &se) {
		return &ItemError{Code: "mixture_unsolvable", Reason: string(se.Reason), Description: se.Message}
	}
	var de *dErrors.Error
	if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
		return &ItemError{Code: string(de.Code), Description: de.Message}
	}
	return &ItemError{Code: string(dErrors.CodeInternal), Description: "internal error"}
}
