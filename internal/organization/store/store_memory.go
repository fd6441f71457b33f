package store

import (
	"context"
	"sync"

	"onboard/internal/organization/models"
	"onboard/pkg/platform/sentinel"
)

const numShards = 64

// InMemory stores organizations and memberships in maps. Creates for the same
// code serialise on one of numShards mutexes chosen by FNV-1a of the code, so
// unrelated codes do not contend.
type InMemory struct {
	shards [numShards]sync.Mutex

	mu            sync.RWMutex
	organizations map[string]models.Organization
	memberships   map[string][]models.Membership
	events        EventAppender
}

type MemoryOption func(s *InMemory)

// WithEvents appends a registration event under the shard lock.
func WithEvents(events EventAppender) MemoryOption {
	return func(s *InMemory) {
		s.events = events
	}
}

func NewInMemory(opts ...MemoryOption) *InMemory {
	s := &InMemory{
		organizations: make(map[string]models.Organization),
		memberships:   make(map[string][]models.Membership),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateIfCodeAvailable stores the organization and its membership together,
// or returns sentinel.ErrAlreadyUsed when the code is taken.
func (s *InMemory) CreateIfCodeAvailable(ctx context.Context, reg *models.Registration) error {
	code := reg.Organization.Code
	shard := &s.shards[hashCode(code)%numShards]
	shard.Lock()
	defer shard.Unlock()

	s.mu.RLock()
	_, taken := s.organizations[code]
	s.mu.RUnlock()
	if taken {
		return sentinel.ErrAlreadyUsed
	}

	if s.events != nil {
		event, err := registeredEvent(reg)
		if err != nil {
			return err
		}
		if err := s.events.Append(ctx, event); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.organizations[code] = *reg.Organization
	s.memberships[code] = append(s.memberships[code], *reg.Membership)
	return nil
}

// FindByCode returns a copy of the organization or sentinel.ErrNotFound.
func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.organizations[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &org, nil
}

// MembershipsByCode returns the memberships of an organization.
func (s *InMemory) MembershipsByCode(_ context.Context, code string) ([]models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Membership(nil), s.memberships[code]...), nil
}

// Count returns the number of stored organizations.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.organizations), nil
}

// hashCode is FNV-1a.
func hashCode(s string) uint32 {
	const (
		fnvOffset = 2166136261
		fnvPrime  = 16777619
	)
	h := uint32(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}
