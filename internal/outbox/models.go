// Package outbox carries domain events from a committed transaction to the
// message broker. Events are appended in the same unit of work as the state
// change they describe and published asynchronously by the worker.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "onboard/pkg/domain"
)

const (
	AggregateOrganization = "organization"

	EventOrganizationRegistered = "organization_registered"
)

// Event is one outbox row.
type Event struct {
	ID            id.EventID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Attempts      int
}

// NewEvent marshals payload into a new unpublished event.
func NewEvent(aggregateType, aggregateID, eventType string, payload any, now time.Time) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{
		ID:            id.EventID(uuid.New()),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Payload:       body,
		CreatedAt:     now,
	}, nil
}

// Published reports whether the event has been handed to the broker.
func (e Event) Published() bool {
	return e.PublishedAt != nil
}
