package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/registry/models"
	"onboard/pkg/platform/sentinel"
)

var registryColumns = []string{
	"cod_amm", "cf", "cf_validato", "des_amm", "nome_resp", "cogn_resp", "titolo_resp",
	"mail1", "mail2", "mail3", "mail4", "mail5",
	"tipo_mail1", "tipo_mail2", "tipo_mail3", "tipo_mail4", "tipo_mail5",
}

func TestPostgresStore_FindByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("maps registry columns", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM ipa_public_administrations").WithArgs("generic_code").WillReturnRows(
			sqlmock.NewRows(registryColumns).AddRow(
				"generic_code", "86000470830", "S", "Name of the Public Administration", "Mario", "Rossi", "presidente",
				"pec1@email.net", "pec2@email.net", "simple@email.net", "null", nil,
				"pec", "pec", "altro", "null", nil,
			))

		record, err := NewPostgres(db).FindByCode(ctx, "generic_code")
		require.NoError(t, err)
		assert.True(t, record.FiscalCodeValidated)
		assert.Equal(t, "Rossi", record.Manager.FamilyName)
		assert.Equal(t, models.Contact{Label: "1", Address: "pec1@email.net", Kind: models.ContactKindCertified}, record.Contacts[0])
		assert.Equal(t, models.ContactKindOrdinary, record.Contacts[2].Kind)
		assert.True(t, record.Contacts[3].IsEmpty())
		assert.True(t, record.Contacts[4].IsEmpty())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("validity flag other than S is negative", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM ipa_public_administrations").WithArgs("x").WillReturnRows(
			sqlmock.NewRows(registryColumns).AddRow(
				"x", "86000470830", "N", "X", nil, nil, nil,
				"pec1@email.net", nil, nil, nil, nil,
				"pec", nil, nil, nil, nil,
			))

		record, err := NewPostgres(db).FindByCode(ctx, "x")
		require.NoError(t, err)
		assert.False(t, record.FiscalCodeValidated)
	})

	t.Run("no rows is ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("FROM ipa_public_administrations").WithArgs("missing").WillReturnRows(sqlmock.NewRows(registryColumns))

		_, err = NewPostgres(db).FindByCode(ctx, "missing")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("driver failure is wrapped", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("connection refused")
		mock.ExpectQuery("FROM ipa_public_administrations").WillReturnError(boom)

		_, err = NewPostgres(db).FindByCode(ctx, "generic_code")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, sentinel.ErrNotFound)
	})
}
