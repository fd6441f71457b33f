package service

import (
	registrymodels "onboard/internal/registry/models"
	dErrors "onboard/pkg/domain-errors"
)

// SelectContact picks the registry contact slot the caller named. The slot's
// kind does not matter; eligibility of the record as a whole is checked by
// the registry validator. An unknown label or an empty slot is a caller error.
func SelectContact(record *registrymodels.Record, label string) (registrymodels.Contact, error) {
	if record == nil {
		return registrymodels.Contact{}, dErrors.New(dErrors.CodeInvariantViolation, "contact selection requires a record")
	}
	contact, ok := record.Contact(label)
	if !ok {
		return registrymodels.Contact{}, dErrors.New(dErrors.CodeValidation, "selected_pec_label does not name a contact slot")
	}
	if contact.IsEmpty() {
		return registrymodels.Contact{}, dErrors.New(dErrors.CodeValidation, "selected contact slot is empty")
	}
	return contact, nil
}
