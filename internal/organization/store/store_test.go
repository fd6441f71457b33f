package store

import (
	"time"

	"github.com/google/uuid"

	"onboard/internal/organization/models"
	id "onboard/pkg/domain"
)

func newRegistration(code string) *models.Registration {
	now := time.Now().UTC().Truncate(time.Microsecond)
	org := &models.Organization{
		Code:       code,
		FiscalCode: "86000470830",
		Name:       "Name of the Public Administration",
		Contact:    "pec1@email.net",
		Scope:      models.ScopeLocal,
		LegalRepresentative: models.LegalRepresentative{
			GivenName:   "Alberto",
			FamilyName:  "Rossi",
			FiscalCode:  "RSSLRT84S20G377O",
			PhoneNumber: "3330000000",
			Email:       "pec1@email.net",
			Role:        id.RoleManager,
		},
		Links:     models.ResourceLinks(code),
		CreatedAt: now,
	}
	reg, err := models.NewRegistration(id.MembershipID(uuid.New()), org)
	if err != nil {
		panic(err)
	}
	return reg
}
