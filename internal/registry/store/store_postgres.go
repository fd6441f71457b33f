package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"onboard/internal/registry/models"
	"onboard/pkg/platform/sentinel"
)

// PostgresStore reads the mirrored public-administration registry. It never
// writes; ingestion of the table happens outside this service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a read-only PostgreSQL registry lookup.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const findByCodeQuery = `
	SELECT cod_amm, cf, cf_validato, des_amm, nome_resp, cogn_resp, titolo_resp,
		mail1, mail2, mail3, mail4, mail5,
		tipo_mail1, tipo_mail2, tipo_mail3, tipo_mail4, tipo_mail5
	FROM ipa_public_administrations
	WHERE cod_amm = $1
`

// FindByCode returns the record for code or sentinel.ErrNotFound.
func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.Record, error) {
	var (
		record    models.Record
		validated sql.NullString
		title     sql.NullString
		given     sql.NullString
		family    sql.NullString
		mails     [models.ContactSlots]sql.NullString
		kinds     [models.ContactSlots]sql.NullString
	)
	err := s.db.QueryRowContext(ctx, findByCodeQuery, code).Scan(
		&record.Code, &record.FiscalCode, &validated, &record.Name, &given, &family, &title,
		&mails[0], &mails[1], &mails[2], &mails[3], &mails[4],
		&kinds[0], &kinds[1], &kinds[2], &kinds[3], &kinds[4],
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find registry record: %w", err)
	}

	record.FiscalCodeValidated = validated.String == "S"
	record.Manager = models.Manager{GivenName: given.String, FamilyName: family.String, Title: title.String}

	var addresses, kindLiterals [models.ContactSlots]string
	for i := range mails {
		addresses[i] = mails[i].String
		kindLiterals[i] = kinds[i].String
	}
	record.Contacts = models.NewContacts(addresses, kindLiterals)
	return &record, nil
}
