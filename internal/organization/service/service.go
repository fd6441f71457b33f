package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"onboard/internal/organization/metrics"
	"onboard/internal/organization/models"
	"onboard/internal/organization/outcome"
	registrymodels "onboard/internal/registry/models"
	"onboard/internal/registry/validation"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/sentinel"
	"onboard/pkg/requestcontext"
)

// RegistryLookup reads one registry record. Absence is sentinel.ErrNotFound.
type RegistryLookup interface {
	FindByCode(ctx context.Context, code string) (*registrymodels.Record, error)
}

// OrganizationStore persists registrations. CreateIfCodeAvailable writes the
// organization and its membership as one unit and returns
// sentinel.ErrAlreadyUsed when the code is taken.
type OrganizationStore interface {
	CreateIfCodeAvailable(ctx context.Context, reg *models.Registration) error
	FindByCode(ctx context.Context, code string) (*models.Organization, error)
}

const defaultStoreTimeout = 5 * time.Second

// Service registers organizations from registry records.
type Service struct {
	registry      RegistryLookup
	organizations OrganizationStore
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	policy        RepresentativePolicy
	storeTimeout  time.Duration
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithRepresentativePolicy(policy RepresentativePolicy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithStoreTimeout bounds the atomic create. The create is detached from
// request cancellation, so this is its only deadline.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.storeTimeout = d
		}
	}
}

// New constructs a Service.
func New(registry RegistryLookup, organizations OrganizationStore, opts ...Option) *Service {
	s := &Service{
		registry:      registry,
		organizations: organizations,
		logger:        slog.Default(),
		tracer:        otel.Tracer("onboard/organization"),
		policy:        PolicyAnyRepresentative,
		storeTimeout:  defaultStoreTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register turns the registry record named by req into an Organization with
// a manager membership for the legal representative. It never returns nil.
func (s *Service) Register(ctx context.Context, caller requestcontext.Caller, req *models.RegistrationRequest) (result outcome.Outcome) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "organization.Register")
	defer func() {
		span.SetAttributes(attribute.String("outcome", string(result.Kind())))
		span.End()
		if s.metrics != nil {
			s.metrics.ObserveRegistration(result.Kind(), start)
		}
	}()

	if req == nil {
		return outcome.Rejected{Reason: "request body is required"}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return outcome.Rejected{Reason: dErrors.MessageOf(err, "invalid registration request")}
	}
	span.SetAttributes(attribute.String("ipa_code", req.OrganizationCode))
	if !s.policy.permits(caller, req.LegalRepresentative) {
		return outcome.Rejected{Reason: "legal representative must be the authenticated caller"}
	}

	record, err := s.registry.FindByCode(ctx, req.OrganizationCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return outcome.NotFound{Code: req.OrganizationCode}
		}
		return s.internal(ctx, span, req.OrganizationCode, "registry lookup failed", err)
	}

	if err := validation.Eligible(record); err != nil {
		var defect *validation.Defect
		if errors.As(err, &defect) {
			s.logger.ErrorContext(ctx, "registry record not eligible for registration",
				"ipa_code", record.Code,
				"reason", string(defect.Reason),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return outcome.Internal{Code: req.OrganizationCode, Cause: err}
	}

	contact, err := SelectContact(record, req.ContactLabel)
	if err != nil {
		return outcome.Rejected{Reason: dErrors.MessageOf(err, "invalid contact label")}
	}

	reg, err := s.buildRegistration(ctx, record, contact, req)
	if err != nil {
		return s.internal(ctx, span, req.OrganizationCode, "failed to assemble registration", err)
	}

	if err := s.create(ctx, reg); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return outcome.Conflict{Code: req.OrganizationCode}
		}
		return s.internal(ctx, span, req.OrganizationCode, "failed to create organization", err)
	}

	s.logger.InfoContext(ctx, "organization registered",
		"ipa_code", reg.Organization.Code,
		"membership_id", reg.Membership.ID.String(),
		"caller_role", string(caller.Role),
		"request_id", requestcontext.RequestID(ctx),
	)
	return outcome.Registered{Organization: reg.Organization}
}

// Get returns a registered organization by code.
func (s *Service) Get(ctx context.Context, code string) (*models.Organization, error) {
	org, err := s.organizations.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "organization not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load organization")
	}
	org.Links = models.ResourceLinks(org.Code)
	return org, nil
}

func (s *Service) buildRegistration(
	ctx context.Context,
	record *registrymodels.Record,
	contact registrymodels.Contact,
	req *models.RegistrationRequest,
) (*models.Registration, error) {
	fiscalCode, err := id.ParseOrganizationFiscalCode(record.FiscalCode)
	if err != nil {
		return nil, err
	}
	repFiscalCode, err := id.ParsePersonalFiscalCode(req.LegalRepresentative.FiscalCode)
	if err != nil {
		return nil, err
	}
	representative := models.LegalRepresentative{
		GivenName:   req.LegalRepresentative.GivenName,
		FamilyName:  req.LegalRepresentative.FamilyName,
		FiscalCode:  repFiscalCode,
		PhoneNumber: req.LegalRepresentative.PhoneNumber,
		Email:       contact.Address,
		Role:        id.RoleManager,
	}
	org, err := models.NewOrganization(
		record.Code,
		fiscalCode,
		record.Name,
		contact.Address,
		req.Scope,
		representative,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	return models.NewRegistration(id.MembershipID(uuid.New()), org)
}

// create issues the atomic write. Once issued it runs to completion even if
// the request is cancelled.
func (s *Service) create(ctx context.Context, reg *models.Registration) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.storeTimeout)
	defer cancel()
	ctx, span := s.tracer.Start(ctx, "organization.CreateIfCodeAvailable")
	defer span.End()

	err := s.organizations.CreateIfCodeAvailable(ctx, reg)
	if err != nil && !errors.Is(err, sentinel.ErrAlreadyUsed) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
	}
	return err
}

func (s *Service) internal(ctx context.Context, span trace.Span, code, msg string, err error) outcome.Outcome {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.logger.ErrorContext(ctx, msg,
		"ipa_code", code,
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	return outcome.Internal{Code: code, Cause: err}
}
