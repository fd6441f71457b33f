// Package validation decides whether a registry record can back an
// organization registration. Failures are data-integrity defects in the
// upstream registry, never caller input errors.
package validation

import (
	"fmt"

	"onboard/internal/registry/models"
	id "onboard/pkg/domain"
)

// DefectReason names what is wrong with a registry record.
type DefectReason string

const (
	ReasonMissingRecord           DefectReason = "missing_record"
	ReasonMalformedFiscalCode     DefectReason = "malformed_fiscal_code"
	ReasonUnvalidatedFiscalCode   DefectReason = "unvalidated_fiscal_code"
	ReasonMissingCertifiedContact DefectReason = "missing_certified_contact"
)

// Defect is the negative verdict on a registry record.
type Defect struct {
	Code   string
	Reason DefectReason
}

func (d *Defect) Error() string {
	return fmt.Sprintf("registry record %q: %s", d.Code, d.Reason)
}

// Validate checks the record's organization fiscal code and the registry's
// own confidence flag. It returns nil or a *Defect.
func Validate(record *models.Record) error {
	if record == nil {
		return &Defect{Reason: ReasonMissingRecord}
	}
	if _, err := id.ParseOrganizationFiscalCode(record.FiscalCode); err != nil {
		return &Defect{Code: record.Code, Reason: ReasonMalformedFiscalCode}
	}
	if !record.FiscalCodeValidated {
		return &Defect{Code: record.Code, Reason: ReasonUnvalidatedFiscalCode}
	}
	return nil
}

// RequireCertifiedContact rejects records without a certified contact in
// any of their slots.
func RequireCertifiedContact(record *models.Record) error {
	if record == nil {
		return &Defect{Reason: ReasonMissingRecord}
	}
	if !record.HasCertifiedContact() {
		return &Defect{Code: record.Code, Reason: ReasonMissingCertifiedContact}
	}
	return nil
}

// Eligible runs every record check in order and returns the first defect.
func Eligible(record *models.Record) error {
	if err := Validate(record); err != nil {
		return err
	}
	return RequireCertifiedContact(record)
}
