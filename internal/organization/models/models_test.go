package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
)

func validRequest() RegistrationRequest {
	return RegistrationRequest{
		OrganizationCode: "generic_code",
		ContactLabel:     "1",
		LegalRepresentative: RepresentativeParams{
			GivenName:   "Alberto",
			FamilyName:  "Rossi",
			FiscalCode:  "RSSLRT84S20G377O",
			PhoneNumber: "3330000000",
		},
		Scope: ScopeLocal,
	}
}

func TestRegistrationRequest_Validate(t *testing.T) {
	t.Run("valid request after normalisation", func(t *testing.T) {
		req := validRequest()
		req.OrganizationCode = "  generic_code "
		req.Scope = " local"
		req.LegalRepresentative.FiscalCode = "rsslrt84s20g377o"
		req.Normalize()

		require.NoError(t, req.Validate())
		assert.Equal(t, "generic_code", req.OrganizationCode)
		assert.Equal(t, ScopeLocal, req.Scope)
		assert.Equal(t, "RSSLRT84S20G377O", req.LegalRepresentative.FiscalCode)
	})

	cases := map[string]func(r *RegistrationRequest){
		"missing code":         func(r *RegistrationRequest) { r.OrganizationCode = "" },
		"label out of range":   func(r *RegistrationRequest) { r.ContactLabel = "6" },
		"label not numeric":    func(r *RegistrationRequest) { r.ContactLabel = "pec" },
		"unknown scope":        func(r *RegistrationRequest) { r.Scope = "REGIONAL" },
		"missing given name":   func(r *RegistrationRequest) { r.LegalRepresentative.GivenName = "" },
		"missing family name":  func(r *RegistrationRequest) { r.LegalRepresentative.FamilyName = "" },
		"missing phone":        func(r *RegistrationRequest) { r.LegalRepresentative.PhoneNumber = "" },
		"organization fc used": func(r *RegistrationRequest) { r.LegalRepresentative.FiscalCode = "86000470830" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			err := req.Validate()
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("nil request", func(t *testing.T) {
		var req *RegistrationRequest
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeBadRequest))
	})
}

func TestNewOrganization(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rep := LegalRepresentative{
		GivenName:  "Alberto",
		FamilyName: "Rossi",
		FiscalCode: "RSSLRT84S20G377O",
		Email:      "pec1@email.net",
		Role:       id.RoleManager,
	}

	t.Run("carries self and edit links", func(t *testing.T) {
		org, err := NewOrganization("generic_code", "86000470830", "PA", "pec1@email.net", ScopeLocal, rep, now)
		require.NoError(t, err)
		assert.Equal(t, []Link{
			{Rel: "self", Href: "/organizations/generic_code"},
			{Rel: "edit", Href: "/organizations/generic_code"},
		}, org.Links)
	})

	t.Run("representative must be manager", func(t *testing.T) {
		delegate := rep
		delegate.Role = id.RoleDelegate
		_, err := NewOrganization("generic_code", "86000470830", "PA", "pec1@email.net", ScopeLocal, delegate, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("registration mirrors representative into membership", func(t *testing.T) {
		org, err := NewOrganization("generic_code", "86000470830", "PA", "pec1@email.net", ScopeLocal, rep, now)
		require.NoError(t, err)
		membershipID := id.MembershipID(uuid.New())

		reg, err := NewRegistration(membershipID, org)
		require.NoError(t, err)
		assert.Equal(t, membershipID, reg.Membership.ID)
		assert.Equal(t, "generic_code", reg.Membership.OrganizationCode)
		assert.Equal(t, "pec1@email.net", reg.Membership.Email)
		assert.Equal(t, id.RoleManager, reg.Membership.Role)
		assert.Equal(t, now, reg.Membership.CreatedAt)
	})
}
