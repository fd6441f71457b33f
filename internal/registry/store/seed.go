package store

import "onboard/internal/registry/models"

// SeedDevelopmentRecords loads a small set of registry entries into an
// in-memory registry so the service can run without the Postgres mirror.
func SeedDevelopmentRecords(s *InMemory) {
	s.Put(models.Record{
		Code:                "c_h501",
		FiscalCode:          "02438750586",
		FiscalCodeValidated: true,
		Name:                "Comune di Roma",
		Manager:             models.Manager{GivenName: "Mario", FamilyName: "Rossi", Title: "Sindaco"},
		Contacts: models.NewContacts(
			[models.ContactSlots]string{"protocollo@pec.comune.roma.it", "info@comune.roma.it", "null", "null", "null"},
			[models.ContactSlots]string{"pec", "altro", "null", "null", "null"},
		),
	})
	s.Put(models.Record{
		Code:                "generic_code",
		FiscalCode:          "86000470830",
		FiscalCodeValidated: true,
		Name:                "Name of the Public Administration",
		Manager:             models.Manager{GivenName: "Mario", FamilyName: "Rossi", Title: "presidente"},
		Contacts: models.NewContacts(
			[models.ContactSlots]string{"pec1@email.net", "pec2@email.net", "simple@email.net", "null", "null"},
			[models.ContactSlots]string{"pec", "pec", "altro", "null", "null"},
		),
	})
}
