package booking

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/rental-booking/internal/metrics"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/repository"
)

// PropertyCatalog resolves properties.  GetProperty returns
// repository.ErrPropertyNotFound for unknown ids.
type PropertyCatalog interface {
	GetProperty(ctx context.Context, id uint64) (*model.Property, error)
}

// BookingStore persists bookings.  UpdateStatus must only change a booking
// that is still PENDING and return repository.ErrConflict otherwise, so
// that of two concurrent transitions only the first wins.
type BookingStore interface {
	CreateBooking(ctx context.Context, b model.Booking) (uint64, error)
	GetBooking(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) (*model.Booking, error)
	ListByCustomer(ctx context.Context, email string) ([]model.BookingWithProperty, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.BookingWithProperty, error)
}

// EventPublisher delivers booking events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// Service runs the booking policy against the property catalog and the
// booking store.
type Service struct {
	catalog PropertyCatalog
	store   BookingStore
	events  EventPublisher
	now     func() time.Time

	publishTimeout time.Duration
	pending        sync.WaitGroup
}

// Option customises a Service.
type Option func(*Service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

// WithEvents publishes booking events through p.  Without it no events are sent.
func WithEvents(p EventPublisher) Option { return func(s *Service) { s.events = p } }

// NewService panics on nil dependencies.
func NewService(catalog PropertyCatalog, store BookingStore, opts ...Option) *Service {
	if catalog == nil || store == nil {
		panic("nil dependency passed to booking.NewService")
	}
	s := &Service{
		catalog:        catalog,
		store:          store,
		now:            func() time.Time { return time.Now().UTC() },
		publishTimeout: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// property looks up a property, mapping "not found" to nil so Validate can
// report it in order.
func (s *Service) property(ctx context.Context, id uint64) (*model.Property, error) {
	p, err := s.catalog.GetProperty(ctx, id)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return nil, nil
	}
	return p, err
}

// Quote validates and prices req without persisting anything.
func (s *Service) Quote(ctx context.Context, req Request) (ValidatedStay, int64, error) {
	prop, err := s.property(ctx, req.PropertyID)
	if err != nil {
		return ValidatedStay{}, 0, err
	}
	stay, err := Validate(req, prop, s.now())
	if err != nil {
		return ValidatedStay{}, 0, err
	}
	return stay, ComputeCost(stay, *prop), nil
}

// Submit validates, prices and stores a new PENDING booking.  Nothing is
// written when validation fails.
func (s *Service) Submit(ctx context.Context, req Request) (model.Booking, error) {
	prop, err := s.property(ctx, req.PropertyID)
	if err != nil {
		return model.Booking{}, err
	}
	b, err := NewBooking(req, prop, s.now())
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			metrics.ValidationFailures.WithLabelValues(ve.Code).Inc()
		}
		return model.Booking{}, err
	}
	id, err := s.store.CreateBooking(ctx, b)
	if err != nil {
		return model.Booking{}, err
	}
	b.ID = id
	metrics.BookingsSubmitted.Inc()
	s.publish(ctx, queue.EventBookingSubmitted, b, prop.OwnerName)
	return b, nil
}

// Transition applies an owner's decision to booking id.  User ownerID must
// own the booked property.  On ErrAlreadyFinalized the stored booking is
// returned as is.
func (s *Service) Transition(ctx context.Context, id uint64, target model.BookingStatus, ownerID uint64) (model.Booking, error) {
	cur, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	prop, err := s.property(ctx, cur.PropertyID)
	if err != nil {
		return model.Booking{}, err
	}
	if prop == nil || prop.OwnerID != ownerID {
		return model.Booking{}, repository.ErrForbidden
	}
	next, err := Transition(*cur, target)
	if err != nil {
		s.countTransition(err)
		return next, err
	}
	updated, err := s.store.UpdateStatus(ctx, id, next.Status)
	if errors.Is(err, repository.ErrConflict) {
		// lost the race against another decision
		latest, gerr := s.store.GetBooking(ctx, id)
		if gerr != nil {
			return model.Booking{}, gerr
		}
		s.countTransition(ErrAlreadyFinalized)
		return *latest, ErrAlreadyFinalized
	}
	if err != nil {
		return model.Booking{}, err
	}
	s.countTransition(nil)
	typ := queue.EventBookingApproved
	if updated.Status == model.StatusRejected {
		typ = queue.EventBookingRejected
	}
	s.publish(ctx, typ, *updated, prop.OwnerName)
	return *updated, nil
}

// GetForCustomer returns booking id if it belongs to email.
func (s *Service) GetForCustomer(ctx context.Context, id uint64, email string) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if b.CustomerEmail != email {
		return model.Booking{}, repository.ErrForbidden
	}
	return *b, nil
}

func (s *Service) ListForCustomer(ctx context.Context, email string) ([]model.BookingWithProperty, error) {
	return s.store.ListByCustomer(ctx, email)
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uint64) ([]model.BookingWithProperty, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *Service) countTransition(err error) {
	outcome := "ok"
	var te *TransitionError
	if errors.As(err, &te) {
		outcome = te.Code
	}
	metrics.Transitions.WithLabelValues(outcome).Inc()
}

// Wait blocks until every event handed to the publisher has been sent or
// has failed.
func (s *Service) Wait() { s.pending.Wait() }

// publish is best effort and runs in the background: a slow or absent
// broker must not delay or fail the request.  The send outlives the
// request context but is bounded by publishTimeout.
func (s *Service) publish(ctx context.Context, typ string, b model.Booking, ownerName string) {
	if s.events == nil {
		return
	}
	ev := queue.BookingEvent{
		EventID:       uuid.NewString(),
		Type:          typ,
		BookingID:     b.ID,
		PropertyID:    b.PropertyID,
		CustomerEmail: b.CustomerEmail,
		OwnerName:     ownerName,
		Status:        string(b.Status),
		TotalCost:     b.TotalCost,
		CheckInDate:   b.CheckInDate.String(),
		CheckOutDate:  b.CheckOutDate.String(),
		OccurredAt:    s.now().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		defer cancel()
		if err := s.events.Publish(pctx, ev); err != nil {
			metrics.EventPublishFailures.Inc()
			log.Printf("booking: publish %s for booking %d failed: %v", typ, b.ID, err)
		}
	}()
}
