package testutil

import (
	"net/http"
	"time"

	id "smarttalent/pkg/domain"
	"smarttalent/pkg/requestcontext"
)

// WithUserID stamps a caller identity on the request context, the way the
// auth middleware would for an authenticated request. Invalid UUIDs are
// silently skipped so tests can probe the unauthenticated path.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithRoles stamps caller roles on the request context.
func WithRoles(req *http.Request, roles ...string) *http.Request {
	return req.WithContext(requestcontext.WithRoles(req.Context(), roles))
}

// WithTime pins the request time so assertions on timestamps are exact.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
