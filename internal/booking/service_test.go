package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
)

type memCatalog map[uint64]model.Property

func (m memCatalog) GetProperty(_ context.Context, id uint64) (*model.Property, error) {
	p, ok := m[id]
	if !ok {
		return nil, repository.ErrPropertyNotFound
	}
	return &p, nil
}

// memStore mimics the conditional UPDATE of the SQL store.
type memStore struct {
	mu      sync.Mutex
	nextID  uint64
	rows    map[uint64]model.Booking
	catalog memCatalog
}

func newMemStore(c memCatalog) *memStore {
	return &memStore{rows: map[uint64]model.Booking{}, catalog: c}
}

func (s *memStore) CreateBooking(_ context.Context, b model.Booking) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	s.rows[b.ID] = b
	return b.ID, nil
}

func (s *memStore) GetBooking(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	return &b, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	if b.Status != model.StatusPending {
		return nil, repository.ErrConflict
	}
	b.Status = status
	s.rows[id] = b
	return &b, nil
}

func (s *memStore) ListByCustomer(_ context.Context, email string) ([]model.BookingWithProperty, error) {
	return s.filter(func(b model.Booking, p *model.Property) bool { return b.CustomerEmail == email }), nil
}

func (s *memStore) ListByOwner(_ context.Context, ownerID uint64) ([]model.BookingWithProperty, error) {
	return s.filter(func(b model.Booking, p *model.Property) bool { return p != nil && p.OwnerID == ownerID }), nil
}

func (s *memStore) filter(keep func(model.Booking, *model.Property) bool) []model.BookingWithProperty {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.BookingWithProperty{}
	for id := uint64(1); id <= s.nextID; id++ {
		b, ok := s.rows[id]
		if !ok {
			continue
		}
		p, _ := s.catalog.GetProperty(context.Background(), b.PropertyID)
		if keep(b, p) {
			out = append(out, model.BookingWithProperty{Booking: b, Property: p})
		}
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

func newTestService(t *testing.T) (*Service, *memStore, *recordingPublisher) {
	t.Helper()
	catalog := memCatalog{
		testProp.ID: *testProp,
		8:           {ID: 8, Title: "Cabin", MonthlyRent: 3000, OwnerID: 200, OwnerName: "pete"},
	}
	store := newMemStore(catalog)
	pub := &recordingPublisher{}
	svc := NewService(catalog, store, WithClock(func() time.Time { return testNow }), WithEvents(pub))
	return svc, store, pub
}

func TestServiceSubmit(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	b, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if b.ID == 0 || b.Status != model.StatusPending || b.TotalCost != 2000 {
		t.Fatalf("unexpected booking %+v", b)
	}
	svc.Wait()
	stored, err := store.GetBooking(ctx, b.ID)
	if err != nil || stored.TotalCost != 2000 {
		t.Fatalf("stored = %+v, %v", stored, err)
	}
	if got := pub.types(); len(got) != 1 || got[0] != queue.EventBookingSubmitted {
		t.Fatalf("events = %v", got)
	}
	if ev := pub.events[0]; ev.OwnerName != "olga" || ev.BookingID != b.ID || ev.EventID == "" || ev.CheckInDate != "2024-06-01" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestServiceSubmitWritesNothingOnFailure(t *testing.T) {
	svc, store, pub := newTestService(t)
	ctx := context.Background()

	bad := []Request{
		req("2024-06-05", "2024-06-01", 2),
		req("2024-05-01", "2024-05-03", 2),
		req("2024-06-01", "2024-06-05", 11),
		req("", "2024-06-05", 2),
	}
	missing := req("2024-06-01", "2024-06-05", 2)
	missing.PropertyID = 999
	bad = append(bad, missing)

	for _, r := range bad {
		if _, err := svc.Submit(ctx, r); err == nil {
			t.Fatalf("Submit(%+v) succeeded", r)
		}
	}
	if len(store.rows) != 0 {
		t.Fatalf("store has %d rows after failed submits", len(store.rows))
	}
	svc.Wait()
	if len(pub.types()) != 0 {
		t.Fatalf("events published for failed submits: %v", pub.types())
	}

	if _, err := svc.Submit(ctx, missing); !errors.Is(err, ErrPropertyNotFound) {
		t.Fatalf("err = %v, want PropertyNotFound", err)
	}
}

func TestServiceQuote(t *testing.T) {
	svc, store, _ := newTestService(t)
	stay, cost, err := svc.Quote(context.Background(), req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if cost != 2000 || stay.Nights != 4 {
		t.Fatalf("quote = %d for %d nights", cost, stay.Nights)
	}
	if len(store.rows) != 0 {
		t.Fatal("quote persisted a booking")
	}
}

func TestServiceTransition(t *testing.T) {
	svc, _, pub := newTestService(t)
	ctx := context.Background()
	b, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Transition(ctx, b.ID, model.StatusApproved, 200); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("foreign owner: err = %v, want ErrForbidden", err)
	}
	if _, err := svc.Transition(ctx, b.ID, "MAYBE", 100); !errors.Is(err, ErrInvalidTargetStatus) {
		t.Fatalf("bad target: err = %v", err)
	}

	got, err := svc.Transition(ctx, b.ID, model.StatusApproved, 100)
	if err != nil || got.Status != model.StatusApproved {
		t.Fatalf("approve: %+v %v", got, err)
	}

	got, err = svc.Transition(ctx, b.ID, model.StatusRejected, 100)
	if !errors.Is(err, ErrAlreadyFinalized) {
		t.Fatalf("reject after approve: err = %v", err)
	}
	if got.Status != model.StatusApproved || got.ID != b.ID {
		t.Fatalf("finalized booking not returned unchanged: %+v", got)
	}

	if _, err := svc.Transition(ctx, 404, model.StatusApproved, 100); !errors.Is(err, repository.ErrBookingNotFound) {
		t.Fatalf("missing booking: err = %v", err)
	}

	svc.Wait()
	want := []string{queue.EventBookingSubmitted, queue.EventBookingApproved}
	if got := pub.types(); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestServiceConcurrentTransitions(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	b, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		target := model.StatusApproved
		if i%2 == 1 {
			target = model.StatusRejected
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Transition(ctx, b.ID, target, 100)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrAlreadyFinalized):
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d transitions succeeded, want exactly 1", wins)
	}
	final, _ := store.GetBooking(ctx, b.ID)
	if !final.Status.Final() {
		t.Fatalf("final status %s", final.Status)
	}
}

func TestServicePublishFailureDoesNotFailSubmit(t *testing.T) {
	svc, store, pub := newTestService(t)
	pub.err = errors.New("broker down")
	if _, err := svc.Submit(context.Background(), req("2024-06-01", "2024-06-05", 2)); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	svc.Wait()
	if len(store.rows) != 1 {
		t.Fatalf("rows = %d", len(store.rows))
	}
}

// blockingPublisher holds every publish until release is closed.
type blockingPublisher struct {
	release chan struct{}
	ctxErr  chan error
}

func (p *blockingPublisher) Publish(ctx context.Context, _ queue.BookingEvent) error {
	<-p.release
	p.ctxErr <- ctx.Err()
	return nil
}

func TestServiceSubmitDoesNotWaitForBroker(t *testing.T) {
	catalog := memCatalog{testProp.ID: *testProp}
	pub := &blockingPublisher{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	svc := NewService(catalog, newMemStore(catalog), WithClock(func() time.Time { return testNow }), WithEvents(pub))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on the event publisher")
	}

	// the request is over; the pending publish must still be allowed to finish
	cancel()
	close(pub.release)
	svc.Wait()
	if err := <-pub.ctxErr; err != nil {
		t.Fatalf("publish context: %v", err)
	}
}

func TestServiceOwnershipIsByUserID(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	b, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	// another account, even one sharing the owner's display name, is not the owner
	if _, err := svc.Transition(ctx, b.ID, model.StatusRejected, 300); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if got, _ := svc.GetForCustomer(ctx, b.ID, "ann@example.com"); got.Status != model.StatusPending {
		t.Fatalf("status = %s after forbidden transition", got.Status)
	}
	if owned, _ := svc.ListForOwner(ctx, 300); len(owned) != 0 {
		t.Fatalf("user 300 sees %d bookings", len(owned))
	}
}

func TestServiceCustomerAccess(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	b, err := svc.Submit(ctx, req("2024-06-01", "2024-06-05", 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetForCustomer(ctx, b.ID, "someone@else.com"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	got, err := svc.GetForCustomer(ctx, b.ID, "ann@example.com")
	if err != nil || got.ID != b.ID {
		t.Fatalf("own booking: %+v %v", got, err)
	}

	mine, _ := svc.ListForCustomer(ctx, "ann@example.com")
	if len(mine) != 1 || mine[0].Property == nil || mine[0].Property.Title != "Loft" {
		t.Fatalf("customer listing = %+v", mine)
	}
	owned, _ := svc.ListForOwner(ctx, 100)
	if len(owned) != 1 {
		t.Fatalf("owner listing = %+v", owned)
	}
	if other, _ := svc.ListForOwner(ctx, 200); len(other) != 0 {
		t.Fatalf("pete sees %d bookings", len(other))
	}
}

func TestNewServicePanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewService(nil, nil)
}
