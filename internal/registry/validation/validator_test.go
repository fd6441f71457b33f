package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/registry/models"
)

func validRecord() *models.Record {
	return &models.Record{
		Code:                "generic_code",
		FiscalCode:          "86000470830",
		FiscalCodeValidated: true,
		Name:                "Name of the Public Administration",
		Contacts: models.NewContacts(
			[models.ContactSlots]string{"pec1@email.net", "pec2@email.net", "simple@email.net", "null", "null"},
			[models.ContactSlots]string{"pec", "pec", "altro", "null", "null"},
		),
	}
}

func defectReason(t *testing.T, err error) DefectReason {
	t.Helper()
	var defect *Defect
	require.True(t, errors.As(err, &defect), "expected *Defect, got %T", err)
	return defect.Reason
}

func TestEligible(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		assert.NoError(t, Eligible(validRecord()))
	})

	t.Run("malformed fiscal code", func(t *testing.T) {
		for _, fc := range []string{"wrong_fiscal_code", "8600047083", "RSSLRT84S20G377O", ""} {
			record := validRecord()
			record.FiscalCode = fc
			err := Eligible(record)
			require.Error(t, err, fc)
			assert.Equal(t, ReasonMalformedFiscalCode, defectReason(t, err))
		}
	})

	t.Run("registry flag negative", func(t *testing.T) {
		record := validRecord()
		record.FiscalCodeValidated = false
		assert.Equal(t, ReasonUnvalidatedFiscalCode, defectReason(t, Eligible(record)))
	})

	t.Run("no certified contact in any slot", func(t *testing.T) {
		record := validRecord()
		record.Contacts = models.NewContacts(
			[models.ContactSlots]string{"a@email.net", "b@email.net", "null", "null", "null"},
			[models.ContactSlots]string{"altro", "altro", "pec", "null", "null"},
		)
		err := Eligible(record)
		assert.Equal(t, ReasonMissingCertifiedContact, defectReason(t, err))
		assert.Contains(t, err.Error(), "generic_code")
	})

	t.Run("nil record", func(t *testing.T) {
		assert.Equal(t, ReasonMissingRecord, defectReason(t, Validate(nil)))
		assert.Equal(t, ReasonMissingRecord, defectReason(t, RequireCertifiedContact(nil)))
	})
}
