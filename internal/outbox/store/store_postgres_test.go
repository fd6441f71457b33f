package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboard/internal/outbox"
	id "onboard/pkg/domain"
)

func TestPostgresStore_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e := newEvent(t, "generic_code", time.Now())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox")).
		WithArgs(e.ID.String(), e.AggregateType, e.AggregateID, e.EventType, e.Payload, e.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgres(db).Append(context.Background(), e))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProcessPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	okID, failID := uuid.New(), uuid.New()
	now := time.Now()
	columns := []string{"id", "aggregate_type", "aggregate_id", "event_type", "payload", "created_at", "attempts"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(okID.String(), "organization", "a", "organization_registered", []byte(`{}`), now, 0).
			AddRow(failID.String(), "organization", "b", "organization_registered", []byte(`{}`), now, 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at")).
		WithArgs(okID.String(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET attempts = attempts + 1")).
		WithArgs(failID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n, err := NewPostgres(db).ProcessPending(context.Background(), 10, func(_ context.Context, e outbox.Event) error {
		if e.ID == id.EventID(failID) {
			assert.Equal(t, 2, e.Attempts)
			return errors.New("broker down")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProcessPendingRollsBackOnClaimError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")).
		WithArgs(5).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = NewPostgres(db).ProcessPending(context.Background(), 5, func(context.Context, outbox.Event) error {
		t.Fatal("no events should be handed out")
		return nil
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
