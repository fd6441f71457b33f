package store

import (
	"context"
	"time"

	"onboard/internal/organization/models"
	"onboard/internal/outbox"
)

// EventAppender receives the registration event inside the create's unit of
// work. Postgres appenders join the transaction carried by ctx.
type EventAppender interface {
	Append(ctx context.Context, event outbox.Event) error
}

type registeredPayload struct {
	Code              string    `json:"ipa_code"`
	FiscalCode        string    `json:"fiscal_code"`
	Name              string    `json:"name"`
	Contact           string    `json:"pec"`
	Scope             string    `json:"scope"`
	MembershipID      string    `json:"membership_id"`
	ManagerFiscalCode string    `json:"manager_fiscal_code"`
	ManagerEmail      string    `json:"manager_email"`
	RegisteredAt      time.Time `json:"registered_at"`
}

func registeredEvent(reg *models.Registration) (outbox.Event, error) {
	org, m := reg.Organization, reg.Membership
	return outbox.NewEvent(outbox.AggregateOrganization, org.Code, outbox.EventOrganizationRegistered, registeredPayload{
		Code:              org.Code,
		FiscalCode:        org.FiscalCode.String(),
		Name:              org.Name,
		Contact:           org.Contact,
		Scope:             string(org.Scope),
		MembershipID:      m.ID.String(),
		ManagerFiscalCode: m.FiscalCode.String(),
		ManagerEmail:      m.Email,
		RegisteredAt:      org.CreatedAt,
	}, org.CreatedAt)
}
