package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"courtside/internal/infra/repository"
	"courtside/internal/pkg/config"
	"courtside/internal/pkg/errs"
)

// Publisher is the broker side of the relay; satisfied by kafkabus.Producer.
type Publisher interface {
	Publish(ctx context.Context, key, value []byte) error
}

type eventEnvelope struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

// OutboxRelay drains committed outbox rows to the broker. An event is
// marked processed only after a successful publish, so delivery is
// at-least-once; consumers deduplicate on the event id.
type OutboxRelay struct {
	store     *repository.OutboxStore
	publisher Publisher
	cfg       config.SweeperConfig
}

func NewOutboxRelay(store *repository.OutboxStore, publisher Publisher, cfg config.SweeperConfig) *OutboxRelay {
	return &OutboxRelay{
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.RelayInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				slog.Error("outbox drain failed", "error", err.Error())
			}
		}
	}
}

// Drain publishes one batch in commit order. Publish failure stops the
// batch so ordering holds for the next attempt.
func (r *OutboxRelay) Drain(ctx context.Context) error {
	events, err := r.store.ListUnprocessed(ctx, int32(r.cfg.RelayBatch))
	if err != nil {
		return errs.Wrap(err, "failed to list outbox events")
	}

	for _, ev := range events {
		value, err := json.Marshal(eventEnvelope{
			ID:        ev.ID.String(),
			Type:      ev.EventType,
			Data:      ev.EventData,
			CreatedAt: ev.CreatedAt,
		})
		if err != nil {
			return errs.Wrap(err, "failed to encode event envelope")
		}

		if err := r.publisher.Publish(ctx, []byte(ev.ID.String()), value); err != nil {
			return errs.Wrap(err, "failed to publish outbox event")
		}

		if err := r.store.MarkProcessed(ctx, ev.ID); err != nil {
			return errs.Wrap(err, "failed to mark event processed")
		}
	}

	return nil
}
