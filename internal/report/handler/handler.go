package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"mixconc/internal/mixture"
	mixhandler "mixconc/internal/mixture/handler"
	"mixconc/internal/report"
	dErrors "mixconc/pkg/domain-errors"
	"mixconc/pkg/platform/httputil"
	"mixconc/pkg/requestcontext"
)

const defaultFormat = "pdf"

// Service computes the mixture a report is generated for.
type Service interface {
	Compute(ctx context.Context, req mixture.Request) (*mixture.Result, error)
}

// Handler serves report downloads.
type Handler struct {
	service  Service
	registry *report.Registry
	version  string
	logger   *slog.Logger
}

// New constructs a report handler. version is printed in every report footer.
func New(service Service, registry *report.Registry, version string, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		registry: registry,
		version:  version,
		logger:   logger,
	}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reports", h.HandleCreateReport)
}

// HandleCreateReport handles POST /reports?format= requests. The mixture is
// computed first; an unsolvable mixture never produces a document.
func (h *Handler) HandleCreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = defaultFormat
	}
	renderer, ok := h.registry.Get(format)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("unsupported report format %q, expected one of: %s", format, strings.Join(h.registry.Formats(), ", "))))
		return
	}

	req, ok := httputil.DecodeAndPrepare[ReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	mixReq := req.Parsed()
	result, err := h.service.Compute(ctx, mixReq)
	if err != nil {
		h.logger.InfoContext(ctx, "report not generated",
			"request_id", requestID,
			"error", err,
		)
		mixhandler.WriteComputeError(w, err)
		return
	}

	doc := report.NewDocument(req.ExperimentName, mixReq, result, h.version, requestcontext.Now(ctx))

	// Render into memory so a renderer failure can still produce an error
	// response.
	var buf bytes.Buffer
	if err := renderer.Render(&buf, doc); err != nil {
		h.logger.ErrorContext(ctx, "report rendering failed",
			"request_id", requestID,
			"format", renderer.Format(),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "report rendering failed"))
		return
	}

	h.logger.InfoContext(ctx, "report generated",
		"request_id", requestID,
		"report_id", doc.Metadata.ID,
		"format", renderer.Format(),
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": report.Filename(doc, renderer),
	}))
	w.Header().Set("X-Report-ID", doc.Metadata.ID.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
