package mixture

import "fmt"

// Reason classifies why a two-component solve failed. Every reason is an
// expected user-input condition, never an internal fault.
type Reason string

const (
	ReasonMissingInput     Reason = "missing_input"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonDegenerateSystem Reason = "degenerate_system"
)

// SolveError is the only error the engine produces. Min and Max carry the
// valid target span for ReasonOutOfRange.
type SolveError struct {
	Reason  Reason
	Message string
	Min     float64
	Max     float64
}

func (e *SolveError) Error() string {
	return e.Message
}

// Is matches any SolveError with the same reason, so callers can write
// errors.Is(err, mixture.ErrOutOfRange).
func (e *SolveError) Is(target error) bool {
	t, ok := target.(*SolveError)
	return ok && t.Reason == e.Reason
}

var (
	ErrMissingInput     = &SolveError{Reason: ReasonMissingInput, Message: "no concentration provided"}
	ErrOutOfRange       = &SolveError{Reason: ReasonOutOfRange, Message: "target concentration out of range"}
	ErrDegenerateSystem = &SolveError{Reason: ReasonDegenerateSystem, Message: "degenerate system"}
)

func outOfRange(lo, hi float64) *SolveError {
	return &SolveError{
		Reason:  ReasonOutOfRange,
		Message: fmt.Sprintf("target concentration out of range: must be between %g and %g", lo, hi),
		Min:     lo,
		Max:     hi,
	}
}

func degenerate(msg string) *SolveError {
	return &SolveError{Reason: ReasonDegenerateSystem, Message: msg}
}
