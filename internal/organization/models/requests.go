package models

import (
	"strings"

	registrymodels "onboard/internal/registry/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// RepresentativeParams are the legal-representative attributes supplied by
// the caller.
type RepresentativeParams struct {
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	FiscalCode  string `json:"fiscal_code"`
	PhoneNumber string `json:"phone_number"`
}

// RegistrationRequest asks to onboard the registry entry OrganizationCode.
type RegistrationRequest struct {
	OrganizationCode    string               `json:"ipa_code"`
	ContactLabel        string               `json:"selected_pec_label"`
	LegalRepresentative RepresentativeParams `json:"legal_representative"`
	Scope               Scope                `json:"scope"`
}

// Normalize trims whitespace and canonicalises case.
func (r *RegistrationRequest) Normalize() {
	if r == nil {
		return
	}
	r.OrganizationCode = strings.TrimSpace(r.OrganizationCode)
	r.ContactLabel = strings.TrimSpace(r.ContactLabel)
	r.Scope = Scope(strings.ToUpper(strings.TrimSpace(string(r.Scope))))
	rep := &r.LegalRepresentative
	rep.GivenName = strings.TrimSpace(rep.GivenName)
	rep.FamilyName = strings.TrimSpace(rep.FamilyName)
	rep.FiscalCode = strings.ToUpper(strings.TrimSpace(rep.FiscalCode))
	rep.PhoneNumber = strings.TrimSpace(rep.PhoneNumber)
}

// Validate checks the request shape. It cannot know which contact slots the
// registry record populates; that is checked after lookup.
func (r *RegistrationRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.OrganizationCode == "" {
		return dErrors.New(dErrors.CodeValidation, "ipa_code is required")
	}
	if len(r.OrganizationCode) > 64 {
		return dErrors.New(dErrors.CodeValidation, "ipa_code must be at most 64 characters")
	}
	if !isContactLabel(r.ContactLabel) {
		return dErrors.New(dErrors.CodeValidation, "selected_pec_label must be one of 1-5")
	}
	if !r.Scope.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "scope must be LOCAL or NATIONAL")
	}
	rep := r.LegalRepresentative
	if rep.GivenName == "" {
		return dErrors.New(dErrors.CodeValidation, "legal_representative.given_name is required")
	}
	if rep.FamilyName == "" {
		return dErrors.New(dErrors.CodeValidation, "legal_representative.family_name is required")
	}
	if rep.PhoneNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "legal_representative.phone_number is required")
	}
	if _, err := id.ParsePersonalFiscalCode(rep.FiscalCode); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "legal_representative.fiscal_code is invalid")
	}
	return nil
}

func isContactLabel(label string) bool {
	for i := 0; i < registrymodels.ContactSlots; i++ {
		if label == registrymodels.ContactLabel(i) {
			return true
		}
	}
	return false
}
