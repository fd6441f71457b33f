package requestcontext

import (
	"context"
	"time"

	id "onboard/pkg/domain"
)

// Caller is the authenticated identity behind a request. It is read-only for
// everything downstream of the session middleware.
type Caller struct {
	SessionID  id.SessionID
	Email      string
	FiscalCode id.PersonalFiscalCode
	GivenName  string
	FamilyName string
	Role       id.Role
	ExpiresAt  time.Time
}

type callerKey struct{}

// ContextKeyCaller is exported for tests that need context.WithValue.
var ContextKeyCaller = callerKey{}

// CallerFrom retrieves the authenticated caller.
// The second result is false when no session middleware ran.
func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ContextKeyCaller).(Caller)
	return c, ok
}

// WithCaller injects the caller and its session ID into the context.
func WithCaller(ctx context.Context, c Caller) context.Context {
	ctx = context.WithValue(ctx, ContextKeyCaller, c)
	return WithSessionID(ctx, c.SessionID)
}
