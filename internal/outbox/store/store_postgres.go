package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"onboard/internal/outbox"
	id "onboard/pkg/domain"
	txcontext "onboard/pkg/platform/tx"
)

// PostgresStore persists events in the outbox table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed outbox store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const appendQuery = `
	INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
`

// Append writes event through the transaction in ctx when one is present,
// so it commits or rolls back with the state change it describes.
func (s *PostgresStore) Append(ctx context.Context, event outbox.Event) error {
	_, err := txcontext.ExecutorFrom(ctx, s.db).ExecContext(ctx, appendQuery,
		uuid.UUID(event.ID),
		event.AggregateType,
		event.AggregateID,
		event.EventType,
		event.Payload,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

const claimQuery = `
	SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at, attempts
	FROM outbox
	WHERE published_at IS NULL
	ORDER BY created_at
	LIMIT $1
	FOR UPDATE SKIP LOCKED
`

// ProcessPending claims up to limit unpublished rows and hands each to fn.
// Rows stay locked until the batch commits, so concurrent workers never
// publish the same row twice.
func (s *PostgresStore) ProcessPending(ctx context.Context, limit int, fn func(context.Context, outbox.Event) error) (int, error) {
	published := 0
	err := txcontext.Run(ctx, s.db, nil, func(txCtx context.Context) error {
		events, err := s.claim(txCtx, limit)
		if err != nil {
			return err
		}
		published = 0
		exec := txcontext.ExecutorFrom(txCtx, s.db)
		for _, e := range events {
			if err := fn(txCtx, e); err != nil {
				if _, err := exec.ExecContext(txCtx,
					`UPDATE outbox SET attempts = attempts + 1 WHERE id = $1`, uuid.UUID(e.ID)); err != nil {
					return fmt.Errorf("record outbox attempt: %w", err)
				}
				continue
			}
			if _, err := exec.ExecContext(txCtx,
				`UPDATE outbox SET published_at = $2 WHERE id = $1`, uuid.UUID(e.ID), time.Now()); err != nil {
				return fmt.Errorf("mark outbox entry published: %w", err)
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

func (s *PostgresStore) claim(ctx context.Context, limit int) ([]outbox.Event, error) {
	rows, err := txcontext.ExecutorFrom(ctx, s.db).QueryContext(ctx, claimQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("claim outbox entries: %w", err)
	}
	defer rows.Close()

	var events []outbox.Event
	for rows.Next() {
		var (
			e     outbox.Event
			rawID uuid.UUID
		)
		if err := rows.Scan(&rawID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt, &e.Attempts); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		e.ID = id.EventID(rawID)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return events, nil
}
