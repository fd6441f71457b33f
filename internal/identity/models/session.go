package models

import (
	"time"

	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/requestcontext"
)

// Session is an authenticated user session as established by the identity
// provider. The registration workflow only ever reads it.
type Session struct {
	ID         id.SessionID          `json:"id"`
	Email      string                `json:"email"`
	FiscalCode id.PersonalFiscalCode `json:"fiscal_code"`
	GivenName  string                `json:"given_name"`
	FamilyName string                `json:"family_name"`
	Role       id.Role               `json:"role"`
	CreatedAt  time.Time             `json:"created_at"`
	ExpiresAt  time.Time             `json:"expires_at"`
}

// NewSession checks invariants and stamps the lifetime.
func NewSession(sessionID id.SessionID, email string, fiscalCode id.PersonalFiscalCode, givenName, familyName string, role id.Role, now time.Time, ttl time.Duration) (*Session, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session id cannot be nil")
	}
	if email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session email cannot be empty")
	}
	if fiscalCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session fiscal code cannot be empty")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid session role")
	}
	if ttl <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session ttl must be positive")
	}
	return &Session{
		ID:         sessionID,
		Email:      email,
		FiscalCode: fiscalCode,
		GivenName:  givenName,
		FamilyName: familyName,
		Role:       role,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}, nil
}

// IsExpired reports whether the session lifetime has passed at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Caller projects the session into the read-only caller identity.
func (s *Session) Caller() requestcontext.Caller {
	return requestcontext.Caller{
		SessionID:  s.ID,
		Email:      s.Email,
		FiscalCode: s.FiscalCode,
		GivenName:  s.GivenName,
		FamilyName: s.FamilyName,
		Role:       s.Role,
		ExpiresAt:  s.ExpiresAt,
	}
}

// StartSessionRequest is the input for issuing a session.
type StartSessionRequest struct {
	Email      string `json:"email"`
	FiscalCode string `json:"fiscal_code"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Role       string `json:"role"`
}

// SessionResponse carries the bearer token for a started session.
type SessionResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	SessionID   string    `json:"session_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}
