package repository

import (
	"context"
	"time"

	"courtside/internal/infra"
	"courtside/internal/infra/db"

	"github.com/google/uuid"
)

type OutboxRepository struct {
	db db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{db: dbtx}
}

// Append writes the event in the caller's transaction; that is the whole
// point of the outbox.
func (r *OutboxRepository) Append(ctx context.Context, eventType string, eventData []byte) error {
	const q = `
		INSERT INTO outbox_events (id, event_type, event_data, processed, created_at)
		VALUES ($1, $2, $3, false, now())`

	if _, err := r.db.Exec(ctx, q, uuid.New(), eventType, eventData); err != nil {
		return infra.WrapRepoErr("failed to append outbox event", err)
	}
	return nil
}

// OutboxStore is the relay's pool-backed view of unprocessed events.
type OutboxStore struct {
	db db.DBTX
}

type OutboxEventRow struct {
	ID        uuid.UUID
	EventType string
	EventData []byte
	CreatedAt time.Time
}

func NewOutboxStore(dbtx db.DBTX) *OutboxStore {
	return &OutboxStore{db: dbtx}
}

func (s *OutboxStore) ListUnprocessed(ctx context.Context, limit int32) ([]OutboxEventRow, error) {
	const q = `
		SELECT id, event_type, event_data, created_at
		FROM outbox_events
		WHERE processed = false
		ORDER BY created_at ASC
		LIMIT $1`

	rows, err := s.db.Query(ctx, q, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list unprocessed outbox events", err)
	}
	defer rows.Close()

	var result []OutboxEventRow
	for rows.Next() {
		var row OutboxEventRow
		if err := rows.Scan(&row.ID, &row.EventType, &row.EventData, &row.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan outbox event", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate outbox events", err)
	}
	return result, nil
}

func (s *OutboxStore) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	const q = `
		UPDATE outbox_events
		SET processed = true, processed_at = now()
		WHERE id = $1 AND processed = false`

	if _, err := s.db.Exec(ctx, q, id); err != nil {
		return infra.WrapRepoErr("failed to mark outbox event processed", err)
	}
	return nil
}
