package testutil

import (
	"net/http"

	"onboard/pkg/requestcontext"
)

// WithCaller places caller in the request context the way the session
// middleware does.
func WithCaller(req *http.Request, caller requestcontext.Caller) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), caller))
}
