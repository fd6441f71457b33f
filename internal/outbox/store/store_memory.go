package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"onboard/internal/outbox"
	id "onboard/pkg/domain"
)

// InMemory keeps outbox events in process. It has no transactions; callers
// that need atomicity with other in-memory writes hold their own lock.
type InMemory struct {
	mu     sync.Mutex
	events map[id.EventID]*outbox.Event
}

func NewInMemory() *InMemory {
	return &InMemory{events: make(map[id.EventID]*outbox.Event)}
}

func (s *InMemory) Append(_ context.Context, event outbox.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := event
	s.events[event.ID] = &e
	return nil
}

// ProcessPending hands up to limit unpublished events, oldest first, to fn.
// Events fn accepts are marked published; the rest have Attempts bumped.
func (s *InMemory) ProcessPending(ctx context.Context, limit int, fn func(context.Context, outbox.Event) error) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := make([]*outbox.Event, 0, len(s.events))
	for _, e := range s.events {
		if !e.Published() {
			pending = append(pending, e)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}

	published := 0
	for _, e := range pending {
		if err := fn(ctx, *e); err != nil {
			e.Attempts++
			continue
		}
		now := time.Now()
		e.PublishedAt = &now
		published++
	}
	return published, nil
}

// List returns a snapshot of every event, oldest first.
func (s *InMemory) List(_ context.Context) ([]outbox.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]outbox.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
