package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"cabline/internal/domain"
	"cabline/internal/domain/models"

	"github.com/google/uuid"
)

// fakeStore is an in-memory BookingStore with a real optimistic guard so
// concurrency tests exercise the same winner/loser behavior as Mongo's
// filtered update.
type fakeStore struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[string]models.Booking{}}
}

func (f *fakeStore) seed(b models.Booking) models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	f.bookings[b.ID] = b
	return b
}

func (f *fakeStore) Create(_ context.Context, draft models.BookingDraft) (models.Booking, error) {
	if draft.CustomerName == "" || draft.Email == "" {
		return models.Booking{}, domain.ValidationError{Field: "draft", Msg: "missing fields"}
	}
	b := models.Booking{
		ID:           uuid.New().String(),
		Reference:    "BOOK-TEST01",
		CustomerName: draft.CustomerName,
		Email:        draft.Email,
		Status:       models.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	return f.seed(b), nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (f *fakeStore) FindByReferenceAndContact(_ context.Context, reference, contact string) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.Reference == reference && (b.Email == contact || b.Phone == contact) {
			return b, nil
		}
	}
	return models.Booking{}, domain.NotFoundError{Resource: "booking"}
}

func (f *fakeStore) List(_ context.Context, status models.Status) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Booking{}
	for _, b := range f.bookings {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id string, upd models.BookingUpdate) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if upd.CustomerName != nil {
		b.CustomerName = *upd.CustomerName
	}
	f.bookings[id] = b
	return b, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id string, expectedPrior models.Status, rec models.TransitionRecord) (models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if b.Status != expectedPrior {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "status changed concurrently"}
	}
	b.Status = rec.To
	b.UpdatedAt = rec.Timestamp
	b.UpdatedBy = rec.Actor
	f.bookings[id] = b
	return b, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
	fail    error
}

func (f *fakeAudit) Insert(entry models.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAudit) ListByEntity(entity, entityID string) ([]models.AuditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.AuditEntry{}
	for _, e := range f.entries {
		if e.Entity == entity && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []models.TransitionRecord
}

func (f *fakeNotifier) StatusChanged(_ context.Context, _, _ string, rec models.TransitionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, rec)
}

func adminFixture() (AdminService, *fakeStore, *fakeAudit, *fakeNotifier) {
	store := newFakeStore()
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	return AdminService{Store: store, Audit: audit, Events: notifier}, store, audit, notifier
}

func TestSetStatus_PendingToConfirmed(t *testing.T) {
	svc, store, audit, notifier := adminFixture()
	b := store.seed(models.Booking{Status: models.StatusPending})

	updated, err := svc.SetStatus(context.Background(), b.ID, models.StatusConfirmed, "staff1")
	if err != nil {
		t.Fatalf("set status error: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}

	got, _ := store.GetByID(context.Background(), b.ID)
	if got.Status != models.StatusConfirmed {
		t.Fatalf("stored status = %s, want confirmed", got.Status)
	}
	if got.UpdatedBy != "staff1" {
		t.Fatalf("updated_by = %q, want staff1", got.UpdatedBy)
	}

	if len(audit.entries) != 1 {
		t.Fatalf("want exactly one audit entry, got %d", len(audit.entries))
	}
	e := audit.entries[0]
	if e.Action != "STATUS_UPDATE" || e.Entity != "Booking" || e.EntityID != b.ID {
		t.Fatalf("audit entry wrong: %+v", e)
	}
	if e.Details != "pending->confirmed" || e.User != "staff1" {
		t.Fatalf("audit entry wrong: %+v", e)
	}

	if len(notifier.calls) != 1 {
		t.Fatalf("want exactly one dispatched event, got %d", len(notifier.calls))
	}
}

func TestSetStatus_IllegalEdgeLeavesStatusUnchanged(t *testing.T) {
	svc, store, audit, notifier := adminFixture()
	b := store.seed(models.Booking{Status: models.StatusConfirmed})

	_, err := svc.SetStatus(context.Background(), b.ID, models.StatusPending, "staff1")
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("want InvalidTransitionError, got %v", err)
	}

	got, _ := store.GetByID(context.Background(), b.ID)
	if got.Status != models.StatusConfirmed {
		t.Fatalf("status changed on rejected transition: %s", got.Status)
	}
	if len(audit.entries) != 0 {
		t.Fatalf("rejected transition must not audit, got %d entries", len(audit.entries))
	}
	if len(notifier.calls) != 0 {
		t.Fatalf("rejected transition must not dispatch, got %d events", len(notifier.calls))
	}
}

func TestSetStatus_TerminalStateAbsorbs(t *testing.T) {
	svc, store, _, _ := adminFixture()
	b := store.seed(models.Booking{Status: models.StatusInProgress})

	if _, err := svc.SetStatus(context.Background(), b.ID, models.StatusCompleted, "staff1"); err != nil {
		t.Fatalf("in_progress -> completed should succeed: %v", err)
	}
	_, err := svc.SetStatus(context.Background(), b.ID, models.StatusCancelled, "staff2")
	if !domain.IsInvalidTransition(err) {
		t.Fatalf("completed booking accepted a transition: %v", err)
	}
}

func TestSetStatus_UnknownBooking(t *testing.T) {
	svc, _, _, _ := adminFixture()
	_, err := svc.SetStatus(context.Background(), "missing-id", models.StatusConfirmed, "staff1")
	if !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

// barrierStore holds every reader at GetByID until all expected readers
// arrive, so concurrent SetStatus calls are guaranteed to share the same
// expected-prior-status snapshot.
type barrierStore struct {
	*fakeStore
	barrier *sync.WaitGroup
}

func (b *barrierStore) GetByID(ctx context.Context, id string) (models.Booking, error) {
	bk, err := b.fakeStore.GetByID(ctx, id)
	b.barrier.Done()
	b.barrier.Wait()
	return bk, err
}

func TestSetStatus_ConcurrentWritersExactlyOneWins(t *testing.T) {
	inner := newFakeStore()
	b := inner.seed(models.Booking{Status: models.StatusPending})

	var barrier sync.WaitGroup
	barrier.Add(2)
	store := &barrierStore{fakeStore: inner, barrier: &barrier}
	audit := &fakeAudit{}
	notifier := &fakeNotifier{}
	svc := AdminService{Store: store, Audit: audit, Events: notifier}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []models.Status{models.StatusConfirmed, models.StatusCancelled}
	for i := range targets {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.SetStatus(context.Background(), b.ID, targets[i], "staff1")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !domain.IsConflict(err) {
			t.Fatalf("loser must see ConflictError, got: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("want exactly one winner, got %d (errs: %v)", winners, errs)
	}

	got, _ := inner.GetByID(context.Background(), b.ID)
	if got.Status != models.StatusConfirmed && got.Status != models.StatusCancelled {
		t.Fatalf("final status %s is not a winner target", got.Status)
	}
	if len(audit.entries) != 1 {
		t.Fatalf("want one audit entry for the winner, got %d", len(audit.entries))
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("want one dispatched event for the winner, got %d", len(notifier.calls))
	}
}

func TestSetStatus_AuditFailureDoesNotFailMutation(t *testing.T) {
	svc, store, audit, notifier := adminFixture()
	audit.fail = domain.InternalError{Msg: "audit db down"}
	b := store.seed(models.Booking{Status: models.StatusPending})

	updated, err := svc.SetStatus(context.Background(), b.ID, models.StatusConfirmed, "staff1")
	if err != nil {
		t.Fatalf("mutation must survive audit failure: %v", err)
	}
	if updated.Status != models.StatusConfirmed {
		t.Fatalf("status = %s, want confirmed", updated.Status)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("event must still dispatch, got %d calls", len(notifier.calls))
	}
}

func TestAuditTrail(t *testing.T) {
	svc, store, _, _ := adminFixture()
	b := store.seed(models.Booking{Status: models.StatusPending})

	if _, err := svc.SetStatus(context.Background(), b.ID, models.StatusConfirmed, "staff1"); err != nil {
		t.Fatalf("set status error: %v", err)
	}
	if _, err := svc.SetStatus(context.Background(), b.ID, models.StatusDriverAssigned, "staff2"); err != nil {
		t.Fatalf("set status error: %v", err)
	}

	trail, err := svc.AuditTrail(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("audit trail error: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("want 2 trail entries, got %d", len(trail))
	}
	if trail[0].Details != "pending->confirmed" || trail[1].Details != "confirmed->driver_assigned" {
		t.Fatalf("trail order wrong: %+v", trail)
	}
}

func TestCreate_ValidationPropagates(t *testing.T) {
	svc, _, _, _ := adminFixture()
	_, err := svc.Create(context.Background(), models.BookingDraft{})
	if !domain.IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}
