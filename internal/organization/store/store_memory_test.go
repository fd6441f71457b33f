package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"onboard/internal/outbox"
	outboxstore "onboard/internal/outbox/store"
	"onboard/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	events *outboxstore.InMemory
	store  *InMemory
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.events = outboxstore.NewInMemory()
	s.store = NewInMemory(WithEvents(s.events))
}

func (s *InMemoryStoreSuite) TestCreateThenFind() {
	ctx := context.Background()
	reg := newRegistration("generic_code")

	s.Require().NoError(s.store.CreateIfCodeAvailable(ctx, reg))

	found, err := s.store.FindByCode(ctx, "generic_code")
	s.Require().NoError(err)
	s.Equal(*reg.Organization, *found)

	memberships, err := s.store.MembershipsByCode(ctx, "generic_code")
	s.Require().NoError(err)
	s.Require().Len(memberships, 1)
	s.Equal(reg.Membership.ID, memberships[0].ID)

	events, err := s.events.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(outbox.EventOrganizationRegistered, events[0].EventType)
	s.Equal("generic_code", events[0].AggregateID)
}

func (s *InMemoryStoreSuite) TestSecondCreateConflictsAndLeavesOriginal() {
	ctx := context.Background()
	first := newRegistration("generic_code")
	s.Require().NoError(s.store.CreateIfCodeAvailable(ctx, first))

	second := newRegistration("generic_code")
	second.Organization.Name = "Impostor"
	err := s.store.CreateIfCodeAvailable(ctx, second)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)

	found, err := s.store.FindByCode(ctx, "generic_code")
	s.Require().NoError(err)
	s.Equal("Name of the Public Administration", found.Name)

	memberships, err := s.store.MembershipsByCode(ctx, "generic_code")
	s.Require().NoError(err)
	s.Len(memberships, 1, "losing create must not add a membership")

	events, err := s.events.List(ctx)
	s.Require().NoError(err)
	s.Len(events, 1)
}

func (s *InMemoryStoreSuite) TestFindMissing() {
	_, err := s.store.FindByCode(context.Background(), "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestFoundCopyIsDetached() {
	ctx := context.Background()
	s.Require().NoError(s.store.CreateIfCodeAvailable(ctx, newRegistration("generic_code")))

	found, err := s.store.FindByCode(ctx, "generic_code")
	s.Require().NoError(err)
	found.Name = "mutated"

	again, err := s.store.FindByCode(ctx, "generic_code")
	s.Require().NoError(err)
	s.Equal("Name of the Public Administration", again.Name)
}

// TestConcurrentSameCode verifies that racing creates for one code yield
// exactly one success.
func (s *InMemoryStoreSuite) TestConcurrentSameCode() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateIfCodeAvailable(ctx, newRegistration("contended"))
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load())

	memberships, err := s.store.MembershipsByCode(ctx, "contended")
	s.Require().NoError(err)
	s.Len(memberships, 1)
}

func (s *InMemoryStoreSuite) TestConcurrentDifferentCodes() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var failures atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.store.CreateIfCodeAvailable(ctx, newRegistration("code_"+strconv.Itoa(i))); err != nil {
				failures.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Zero(failures.Load())
	count, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(goroutines, count)
}

type failingAppender struct{}

func (failingAppender) Append(context.Context, outbox.Event) error {
	return errors.New("outbox full")
}

func (s *InMemoryStoreSuite) TestEventFailureWritesNothing() {
	ctx := context.Background()
	st := NewInMemory(WithEvents(failingAppender{}))

	s.Error(st.CreateIfCodeAvailable(ctx, newRegistration("generic_code")))

	_, err := st.FindByCode(ctx, "generic_code")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
