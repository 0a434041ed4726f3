package testutil

import (
	"net/http"
	"time"

	id "warden/pkg/domain"
	"warden/pkg/requestcontext"
)

// WithActor stamps the acting officer on the request context, simulating what
// the actor middleware does after the auth proxy forwards X-Officer-ID.
func WithActor(req *http.Request, officerID id.OfficerID) *http.Request {
	return req.WithContext(requestcontext.WithActorID(req.Context(), officerID))
}

// WithRequestID stamps a correlation ID on the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request clock so handlers compute deterministic
// timestamps.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
