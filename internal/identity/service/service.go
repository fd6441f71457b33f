// Package service starts and resolves authenticated sessions.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"onboard/internal/identity/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
}

type TokenService interface {
	Issue(sessionID id.SessionID, subject string, role id.Role, expiresAt time.Time) (string, error)
	Validate(token string) (id.SessionID, error)
}

const defaultSessionTTL = time.Hour

// Service issues session tokens and resolves them back to callers.
type Service struct {
	sessions SessionStore
	tokens   TokenService
	logger   *slog.Logger
	ttl      time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func New(sessions SessionStore, tokens TokenService, opts ...Option) *Service {
	s := &Service{sessions: sessions, tokens: tokens, logger: slog.Default(), ttl: defaultSessionTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start persists a new session and returns its access token.
func (s *Service) Start(ctx context.Context, req models.StartSessionRequest) (*models.Session, string, error) {
	fiscalCode, err := id.ParsePersonalFiscalCode(req.FiscalCode)
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid fiscal code")
	}
	role, err := id.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeValidation, "invalid role")
	}
	session, err := models.NewSession(
		id.SessionID(uuid.New()),
		strings.TrimSpace(req.Email),
		fiscalCode,
		strings.TrimSpace(req.GivenName),
		strings.TrimSpace(req.FamilyName),
		role,
		requestcontext.Now(ctx),
		s.ttl,
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, "", dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err, "invalid session"))
		}
		return nil, "", err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}
	token, err := s.tokens.Issue(session.ID, session.FiscalCode.String(), session.Role, session.ExpiresAt)
	if err != nil {
		return nil, "", err
	}
	s.logger.InfoContext(ctx, "session started",
		"session_id", session.ID.String(),
		"role", string(session.Role),
	)
	return session, token, nil
}

// Authenticate resolves a bearer token to the caller it represents.
func (s *Service) Authenticate(ctx context.Context, token string) (requestcontext.Caller, error) {
	sessionID, err := s.tokens.Validate(token)
	if err != nil {
		return requestcontext.Caller{}, err
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "session not found")
		case errors.Is(err, sentinel.ErrExpired):
			return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "session expired")
		default:
			return requestcontext.Caller{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
		}
	}
	if session.IsExpired(requestcontext.Now(ctx)) {
		return requestcontext.Caller{}, dErrors.New(dErrors.CodeUnauthorized, "session expired")
	}
	return session.Caller(), nil
}

// End deletes a session. Later requests with its token are unauthorized.
func (s *Service) End(ctx context.Context, sessionID id.SessionID) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to end session")
	}
	return nil
}
