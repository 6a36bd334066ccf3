//go:build unit

package commands_test

import (
	"context"
	"time"

	"courtside/internal/domain/reservation"
	"courtside/internal/domain/wallet"
	"courtside/internal/infra"
	"courtside/internal/infra/gateway"
	"courtside/internal/usecase/queries"
	"courtside/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeUoW is an in-memory stand-in for the Postgres unit of work. Within
// snapshots state up front and restores it when the callback fails, so
// tests observe transactional semantics.
type fakeUoW struct {
	reservations map[uuid.UUID]*reservation.Reservation
	ledger       []*wallet.Entry
	outbox       []fakeEvent

	courts map[uuid.UUID]shared.CourtSnapshot
	rates  map[uuid.UUID]shared.RateCardSnapshot
	grants map[uuid.UUID][]shared.TariffGrantSnapshot
}

type fakeEvent struct {
	Type string
	Data []byte
}

func newFakeUoW() *fakeUoW {
	return &fakeUoW{
		reservations: make(map[uuid.UUID]*reservation.Reservation),
		courts:       make(map[uuid.UUID]shared.CourtSnapshot),
		rates:        make(map[uuid.UUID]shared.RateCardSnapshot),
		grants:       make(map[uuid.UUID][]shared.TariffGrantSnapshot),
	}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	snapshot := u.snapshot()
	if err := fn(ctx, &fakeTx{u: u}); err != nil {
		u.restore(snapshot)
		return err
	}
	return nil
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	return &fakeReads{u: u}
}

type fakeSnapshot struct {
	reservations map[uuid.UUID]*reservation.Reservation
	ledger       []*wallet.Entry
	outbox       []fakeEvent
}

func (u *fakeUoW) snapshot() fakeSnapshot {
	reservations := make(map[uuid.UUID]*reservation.Reservation, len(u.reservations))
	for id, res := range u.reservations {
		reservations[id] = cloneReservation(res)
	}
	return fakeSnapshot{
		reservations: reservations,
		ledger:       append([]*wallet.Entry(nil), u.ledger...),
		outbox:       append([]fakeEvent(nil), u.outbox...),
	}
}

func (u *fakeUoW) restore(s fakeSnapshot) {
	u.reservations = s.reservations
	u.ledger = s.ledger
	u.outbox = s.outbox
}

func cloneReservation(r *reservation.Reservation) *reservation.Reservation {
	return reservation.Reconstruct(
		r.ID(), r.CourtID(), r.UserID(), r.Slot(),
		r.Status(), r.PaymentStatus(), r.PaymentMethod(), r.Price(),
		cloneTime(r.CheckInTime()), cloneTime(r.CheckOutTime()), cloneTime(r.ExpiresAt()),
		r.Note(), r.CreatedAt(), r.UpdatedAt(),
	)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type fakeTx struct {
	u *fakeUoW
}

func (t *fakeTx) Reservations() shared.ReservationRepository { return &fakeReservationRepo{u: t.u} }
func (t *fakeTx) Ledger() shared.LedgerRepository            { return &fakeLedgerRepo{u: t.u} }
func (t *fakeTx) Outbox() shared.OutboxRepository            { return &fakeOutboxRepo{u: t.u} }
func (t *fakeTx) Reads() shared.CommandReads                 { return &fakeReads{u: t.u} }

type fakeReservationRepo struct {
	u *fakeUoW
}

func (r *fakeReservationRepo) LockCourt(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeReservationRepo) HasOverlap(_ context.Context, courtID uuid.UUID, slot reservation.TimeSlot) (bool, error) {
	for _, res := range r.u.reservations {
		if res.CourtID() != courtID {
			continue
		}
		switch res.Status() {
		case reservation.StatusPending, reservation.StatusPaid, reservation.StatusInProgress:
			if res.Slot().Overlaps(slot) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (r *fakeReservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	if _, exists := r.u.reservations[res.ID()]; exists {
		return infra.WrapRepoErr("reservation conflict", nil, infra.KindConflict)
	}
	r.u.reservations[res.ID()] = cloneReservation(res)
	return nil
}

func (r *fakeReservationRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	res, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return cloneReservation(res), nil
}

func (r *fakeReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	if _, ok := r.u.reservations[res.ID()]; !ok {
		return infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	r.u.reservations[res.ID()] = cloneReservation(res)
	return nil
}

type fakeLedgerRepo struct {
	u *fakeUoW
}

func (r *fakeLedgerRepo) LockWallet(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeLedgerRepo) Balance(_ context.Context, userID uuid.UUID) (int64, error) {
	balance := int64(0)
	for _, e := range r.u.ledger {
		if e.UserID() == userID {
			balance = e.BalanceAfter()
		}
	}
	return balance, nil
}

func (r *fakeLedgerRepo) FindByIdempotencyKey(_ context.Context, key string) (*wallet.Entry, error) {
	for _, e := range r.u.ledger {
		if e.IdempotencyKey() != nil && *e.IdempotencyKey() == key {
			return e, nil
		}
	}
	return nil, infra.WrapRepoErr("ledger entry not found", nil, infra.KindNotFound)
}

func (r *fakeLedgerRepo) FindDebitForReservation(_ context.Context, reservationID uuid.UUID) (*wallet.Entry, error) {
	for i := len(r.u.ledger) - 1; i >= 0; i-- {
		e := r.u.ledger[i]
		if e.Type() == wallet.TypeDebit && e.ReservationID() != nil && *e.ReservationID() == reservationID {
			return e, nil
		}
	}
	return nil, infra.WrapRepoErr("ledger entry not found", nil, infra.KindNotFound)
}

func (r *fakeLedgerRepo) Append(_ context.Context, entry *wallet.Entry) error {
	if entry.IdempotencyKey() != nil {
		for _, e := range r.u.ledger {
			if e.IdempotencyKey() != nil && *e.IdempotencyKey() == *entry.IdempotencyKey() {
				return infra.WrapRepoErr("duplicate ledger idempotency key", nil, infra.KindDuplicateKey)
			}
		}
	}
	r.u.ledger = append(r.u.ledger, entry)
	return nil
}

type fakeOutboxRepo struct {
	u *fakeUoW
}

func (r *fakeOutboxRepo) Append(_ context.Context, eventType string, eventData []byte) error {
	r.u.outbox = append(r.u.outbox, fakeEvent{Type: eventType, Data: eventData})
	return nil
}

type fakeReads struct {
	u *fakeUoW
}

func (r *fakeReads) CourtByID(_ context.Context, id uuid.UUID) (*shared.CourtSnapshot, error) {
	court, ok := r.u.courts[id]
	if !ok {
		return nil, infra.WrapRepoErr("court not found", nil, infra.KindNotFound)
	}
	return &court, nil
}

func (r *fakeReads) ActiveRateCard(_ context.Context, courtID uuid.UUID, at time.Time) (*shared.RateCardSnapshot, error) {
	rate, ok := r.u.rates[courtID]
	if !ok || at.Before(rate.ValidFrom) || (rate.ValidTo != nil && at.After(*rate.ValidTo)) {
		return nil, infra.WrapRepoErr("no rate card for court", nil, infra.KindNotFound)
	}
	return &rate, nil
}

func (r *fakeReads) TariffGrants(_ context.Context, userID uuid.UUID) ([]shared.TariffGrantSnapshot, error) {
	return r.u.grants[userID], nil
}

func (r *fakeReads) ReservationByID(_ context.Context, id uuid.UUID) (*shared.ReservationSnapshot, error) {
	res, ok := r.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return &shared.ReservationSnapshot{
		ID:      res.ID(),
		CourtID: res.CourtID(),
		UserID:  res.UserID(),
		Status:  res.Status().String(),
		EndTime: res.Slot().End(),
	}, nil
}

func (r *fakeReads) ExpiredPendingIDs(_ context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, res := range r.u.reservations {
		if res.Status() == reservation.StatusPending && res.ExpiresAt() != nil && res.ExpiresAt().Before(now) {
			ids = append(ids, id)
		}
		if int32(len(ids)) >= limit {
			break
		}
	}
	return ids, nil
}

func (r *fakeReads) NoShowCandidateIDs(_ context.Context, endedBefore time.Time, limit int32) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, res := range r.u.reservations {
		switch res.Status() {
		case reservation.StatusPending, reservation.StatusPaid:
			if res.CheckInTime() == nil && res.Slot().End().Before(endedBefore) {
				ids = append(ids, id)
			}
		}
		if int32(len(ids)) >= limit {
			break
		}
	}
	return ids, nil
}

func (r *fakeReads) OverrunInProgressIDs(_ context.Context, now time.Time, limit int32) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, res := range r.u.reservations {
		if res.Status() == reservation.StatusInProgress && res.Slot().End().Before(now) {
			ids = append(ids, id)
		}
		if int32(len(ids)) >= limit {
			break
		}
	}
	return ids, nil
}

// fakeReservationQueries serves the post-commit view reads the create
// command returns.
type fakeReservationQueries struct {
	u *fakeUoW
}

func (q *fakeReservationQueries) GetByID(_ context.Context, id uuid.UUID) (*queries.ReservationView, error) {
	res, ok := q.u.reservations[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}

	courtName := ""
	if court, ok := q.u.courts[res.CourtID()]; ok {
		courtName = court.Name
	}

	var note *string
	if !res.Note().IsEmpty() {
		v := res.Note().String()
		note = &v
	}

	return &queries.ReservationView{
		ID:            res.ID(),
		CourtID:       res.CourtID(),
		CourtName:     courtName,
		UserID:        res.UserID(),
		StartTime:     res.Slot().Start(),
		EndTime:       res.Slot().End(),
		Status:        res.Status().String(),
		PaymentStatus: res.PaymentStatus().String(),
		PaymentMethod: res.PaymentMethod().String(),
		PriceCents:    res.Price().Cents(),
		CheckInTime:   res.CheckInTime(),
		CheckOutTime:  res.CheckOutTime(),
		ExpiresAt:     res.ExpiresAt(),
		Note:          note,
		CreatedAt:     res.CreatedAt(),
		UpdatedAt:     res.UpdatedAt(),
	}, nil
}

func (q *fakeReservationQueries) ListByUser(_ context.Context, _ uuid.UUID, _ int) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

func (q *fakeReservationQueries) ListByCourtDay(_ context.Context, _ uuid.UUID, _ time.Time) ([]*queries.ReservationListItem, error) {
	return nil, nil
}

// fakeVerifier substitutes the signed-webhook check.
type fakeVerifier struct {
	event *gateway.PaymentEvent
	err   error
}

func (v *fakeVerifier) Verify(_ []byte, _ string) (*gateway.PaymentEvent, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.event, nil
}

func (u *fakeUoW) eventTypes() []string {
	types := make([]string, len(u.outbox))
	for i, e := range u.outbox {
		types[i] = e.Type
	}
	return types
}
