package handler

import (
	"unicode/utf8"

	mixhandler "mixconc/internal/mixture/handler"
	dErrors "mixconc/pkg/domain-errors"
)

const maxExperimentNameLength = 200

// ReportRequest is the HTTP request body for POST /reports: a compute request
// plus the experiment name printed on the report.
type ReportRequest struct {
	ExperimentName string `json:"experiment_name"`
	mixhandler.ComputeRequest
}

// Validate validates the name and the embedded compute request.
func (r *ReportRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if utf8.RuneCountInString(r.ExperimentName) > maxExperimentNameLength {
		return dErrors.New(dErrors.CodeValidation, "experiment_name must be at most 200 characters")
	}
	return r.ComputeRequest.Validate()
}
