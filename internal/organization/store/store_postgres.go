package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"onboard/internal/organization/models"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
	txcontext "onboard/pkg/platform/tx"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresStore persists organizations and memberships in PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	events EventAppender
}

type PostgresOption func(s *PostgresStore)

// WithOutbox appends the registration event in the create transaction.
func WithOutbox(events EventAppender) PostgresOption {
	return func(s *PostgresStore) {
		s.events = events
	}
}

// NewPostgres constructs a PostgreSQL-backed organization store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *PostgresStore {
	s := &PostgresStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const insertOrganizationQuery = `
	INSERT INTO organizations (
		code, fiscal_code, name, contact, scope,
		rep_given_name, rep_family_name, rep_fiscal_code, rep_phone_number, rep_email, rep_role,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (code) DO NOTHING
`

const insertMembershipQuery = `
	INSERT INTO organization_memberships (
		id, organization_code, email, fiscal_code, given_name, family_name, phone_number, role, created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

// CreateIfCodeAvailable inserts the organization, its manager membership and
// the registration event in one transaction. The primary key on
// organizations.code decides conflicts; a lost race returns
// sentinel.ErrAlreadyUsed and nothing is written.
func (s *PostgresStore) CreateIfCodeAvailable(ctx context.Context, reg *models.Registration) error {
	org, m := reg.Organization, reg.Membership
	err := txcontext.Run(ctx, s.db, nil, func(txCtx context.Context) error {
		exec := txcontext.ExecutorFrom(txCtx, s.db)
		rep := org.LegalRepresentative
		res, err := exec.ExecContext(txCtx, insertOrganizationQuery,
			org.Code, org.FiscalCode.String(), org.Name, org.Contact, string(org.Scope),
			rep.GivenName, rep.FamilyName, rep.FiscalCode.String(), rep.PhoneNumber, rep.Email, string(rep.Role),
			org.CreatedAt,
		)
		if err != nil {
			return err
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("insert organization rows affected: %w", err)
		}
		if rows == 0 {
			return sentinel.ErrAlreadyUsed
		}

		if _, err := exec.ExecContext(txCtx, insertMembershipQuery,
			uuid.UUID(m.ID).String(), m.OrganizationCode, m.Email, m.FiscalCode.String(),
			m.GivenName, m.FamilyName, m.PhoneNumber, string(m.Role), m.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert membership: %w", err)
		}

		if s.events == nil {
			return nil
		}
		event, err := registeredEvent(reg)
		if err != nil {
			return err
		}
		return s.events.Append(txCtx, event)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, sentinel.ErrAlreadyUsed) || isUniqueViolation(err) {
		return sentinel.ErrAlreadyUsed
	}
	return fmt.Errorf("create organization: %w", err)
}

const findByCodeQuery = `
	SELECT code, fiscal_code, name, contact, scope,
		rep_given_name, rep_family_name, rep_fiscal_code, rep_phone_number, rep_email, rep_role,
		created_at
	FROM organizations
	WHERE code = $1
`

// FindByCode returns the organization for code or sentinel.ErrNotFound.
func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Organization, error) {
	var (
		org                 models.Organization
		fiscalCode, scope   string
		repFiscalCode, role string
	)
	rep := &org.LegalRepresentative
	err := txcontext.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, findByCodeQuery, code).Scan(
		&org.Code, &fiscalCode, &org.Name, &org.Contact, &scope,
		&rep.GivenName, &rep.FamilyName, &repFiscalCode, &rep.PhoneNumber, &rep.Email, &role,
		&org.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find organization: %w", err)
	}
	org.FiscalCode = id.OrganizationFiscalCode(fiscalCode)
	org.Scope = models.Scope(scope)
	rep.FiscalCode = id.PersonalFiscalCode(repFiscalCode)
	rep.Role = id.Role(role)
	org.Links = models.ResourceLinks(org.Code)
	return &org, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
