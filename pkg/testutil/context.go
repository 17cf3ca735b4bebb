package testutil

import (
	"net/http"
	"time"

	"mixconc/pkg/requestcontext"
)

// WithRequestTime pins the request's "now", for handlers that stamp documents.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
