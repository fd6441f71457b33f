package models

import (
	"time"

	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

// Membership links a person to an organization with a role.
// It is only ever persisted together with the Organization it references.
type Membership struct {
	ID               id.MembershipID
	OrganizationCode string
	Email            string
	FiscalCode       id.PersonalFiscalCode
	GivenName        string
	FamilyName       string
	PhoneNumber      string
	Role             id.Role
	CreatedAt        time.Time
}

// Registration is the aggregate written by one atomic create.
type Registration struct {
	Organization *Organization
	Membership   *Membership
}

// NewRegistration builds the manager membership for org's legal
// representative.
func NewRegistration(membershipID id.MembershipID, org *Organization) (*Registration, error) {
	if org == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "registration requires an organization")
	}
	rep := org.LegalRepresentative
	if rep.Email == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "membership requires an email")
	}
	return &Registration{
		Organization: org,
		Membership: &Membership{
			ID:               membershipID,
			OrganizationCode: org.Code,
			Email:            rep.Email,
			FiscalCode:       rep.FiscalCode,
			GivenName:        rep.GivenName,
			FamilyName:       rep.FamilyName,
			PhoneNumber:      rep.PhoneNumber,
			Role:             rep.Role,
			CreatedAt:        org.CreatedAt,
		},
	}, nil
}
