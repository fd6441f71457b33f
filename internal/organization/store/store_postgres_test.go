package store

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/organization/models"
	outboxstore "onboard/internal/outbox/store"
	id "onboard/pkg/domain"
	"onboard/pkg/platform/sentinel"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectOrganizationInsert(mock sqlmock.Sqlmock, reg *models.Registration) *sqlmock.ExpectedExec {
	org := reg.Organization
	rep := org.LegalRepresentative
	return mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organizations")).
		WithArgs(org.Code, org.FiscalCode.String(), org.Name, org.Contact, string(org.Scope),
			rep.GivenName, rep.FamilyName, rep.FiscalCode.String(), rep.PhoneNumber, rep.Email, string(rep.Role),
			org.CreatedAt)
}

func TestPostgresStore_CreateIfCodeAvailable(t *testing.T) {
	ctx := context.Background()

	t.Run("writes organization, membership and event in one transaction", func(t *testing.T) {
		db, mock := newMock(t)
		reg := newRegistration("generic_code")
		st := NewPostgres(db, WithOutbox(outboxstore.NewPostgres(db)))

		mock.ExpectBegin()
		expectOrganizationInsert(mock, reg).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organization_memberships")).
			WithArgs(reg.Membership.ID.String(), "generic_code", "pec1@email.net", "RSSLRT84S20G377O",
				"Alberto", "Rossi", "3330000000", string(id.RoleManager), reg.Organization.CreatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, st.CreateIfCodeAvailable(ctx, reg))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflict when the code row already exists", func(t *testing.T) {
		db, mock := newMock(t)
		reg := newRegistration("generic_code")

		mock.ExpectBegin()
		expectOrganizationInsert(mock, reg).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := NewPostgres(db).CreateIfCodeAvailable(ctx, reg)
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to conflict", func(t *testing.T) {
		db, mock := newMock(t)
		reg := newRegistration("generic_code")

		mock.ExpectBegin()
		expectOrganizationInsert(mock, reg).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
		mock.ExpectRollback()

		err := NewPostgres(db).CreateIfCodeAvailable(ctx, reg)
		assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("membership failure rolls back the organization", func(t *testing.T) {
		db, mock := newMock(t)
		reg := newRegistration("generic_code")

		mock.ExpectBegin()
		expectOrganizationInsert(mock, reg).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO organization_memberships")).
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err := NewPostgres(db).CreateIfCodeAvailable(ctx, reg)
		require.Error(t, err)
		assert.NotErrorIs(t, err, sentinel.ErrAlreadyUsed)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_FindByCode(t *testing.T) {
	ctx := context.Background()
	columns := []string{"code", "fiscal_code", "name", "contact", "scope",
		"rep_given_name", "rep_family_name", "rep_fiscal_code", "rep_phone_number", "rep_email", "rep_role",
		"created_at"}

	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		reg := newRegistration("generic_code")
		org := reg.Organization
		rep := org.LegalRepresentative

		mock.ExpectQuery(regexp.QuoteMeta("FROM organizations")).
			WithArgs("generic_code").
			WillReturnRows(sqlmock.NewRows(columns).AddRow(
				org.Code, org.FiscalCode.String(), org.Name, org.Contact, string(org.Scope),
				rep.GivenName, rep.FamilyName, rep.FiscalCode.String(), rep.PhoneNumber, rep.Email, string(rep.Role),
				org.CreatedAt,
			))

		found, err := NewPostgres(db).FindByCode(ctx, "generic_code")
		require.NoError(t, err)
		assert.Equal(t, *org, *found)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM organizations")).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := NewPostgres(db).FindByCode(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
