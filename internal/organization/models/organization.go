package models

import (
	"time"

	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// Scope classifies the territorial reach of an organization.
type Scope string

const (
	ScopeLocal    Scope = "LOCAL"
	ScopeNational Scope = "NATIONAL"
)

func (s Scope) IsValid() bool {
	return s == ScopeLocal || s == ScopeNational
}

// LegalRepresentative summarises the person holding the manager role.
type LegalRepresentative struct {
	GivenName   string                `json:"given_name"`
	FamilyName  string                `json:"family_name"`
	FiscalCode  id.PersonalFiscalCode `json:"fiscal_code"`
	PhoneNumber string                `json:"phone_number"`
	Email       string                `json:"email"`
	Role        id.Role               `json:"role"`
}

// Link is a hypermedia reference to the organization resource.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Organization is the aggregate root created by a registration.
//
// Invariants:
//   - Code is the registry code and the unique key; at most one Organization per Code
//   - FiscalCode is an 11-digit organization code copied from a validated registry record
//   - Contact is non-empty
//   - LegalRepresentative.Role is RoleManager
//   - immutable after creation
type Organization struct {
	Code                string                    `json:"ipa_code"`
	FiscalCode          id.OrganizationFiscalCode `json:"fiscal_code"`
	Name                string                    `json:"name"`
	Contact             string                    `json:"pec"`
	Scope               Scope                     `json:"scope"`
	LegalRepresentative LegalRepresentative       `json:"legal_representative"`
	Links               []Link                    `json:"links"`
	CreatedAt           time.Time                 `json:"-"`
}

// ResourcePath is the canonical path addressing the organization.
func ResourcePath(code string) string {
	return "/organizations/" + code
}

// ResourceLinks returns the self and edit links for code.
func ResourceLinks(code string) []Link {
	path := ResourcePath(code)
	return []Link{
		{Rel: "self", Href: path},
		{Rel: "edit", Href: path},
	}
}

// NewOrganization assembles an Organization and checks its invariants.
func NewOrganization(
	code string,
	fiscalCode id.OrganizationFiscalCode,
	name string,
	contact string,
	scope Scope,
	representative LegalRepresentative,
	now time.Time,
) (*Organization, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization code cannot be empty")
	}
	if fiscalCode == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization fiscal code cannot be empty")
	}
	if contact == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization contact cannot be empty")
	}
	if !scope.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid organization scope")
	}
	if representative.Role != id.RoleManager {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "legal representative must hold the manager role")
	}
	return &Organization{
		Code:                code,
		FiscalCode:          fiscalCode,
		Name:                name,
		Contact:             contact,
		Scope:               scope,
		LegalRepresentative: representative,
		Links:               ResourceLinks(code),
		CreatedAt:           now,
	}, nil
}
