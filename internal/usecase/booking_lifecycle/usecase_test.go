package booking_lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/cache/slots"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BeautyBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/logger"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/txmanager"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []notifier.BookingEvent
	err    error
}

func (n *recordingNotifier) Publish(_ context.Context, event notifier.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type countingMetrics struct {
	transitions    map[string]int
	conflicts      int
	retries        int
	notifyFailures int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{transitions: make(map[string]int)}
}

func (m *countingMetrics) ObserveTransition(action string) { m.transitions[action]++ }
func (m *countingMetrics) ObserveSlotConflict(string)      { m.conflicts++ }
func (m *countingMetrics) ObserveTxRetry()                 { m.retries++ }
func (m *countingMetrics) ObserveNotifyFailure()           { m.notifyFailures++ }

type fixture struct {
	store    *memory.Store
	uc       *UseCase
	clock    *clock
	notifier *recordingNotifier
	metrics  *countingMetrics
	artist   domain.ResourceRef
	service  domain.Service
	user     uuid.UUID
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:    store,
		clock:    &clock{now: now},
		notifier: &recordingNotifier{},
		metrics:  newCountingMetrics(),
		artist:   domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()},
		service:  domain.Service{ID: uuid.New(), Name: "Party makeup", DurationMinutes: 60, Price: 5000, IsActive: true},
		user:     uuid.New(),
	}

	store.PutResource(domain.Resource{Ref: f.artist, Name: "Anna", IsAvailable: true})
	store.PutService(domain.ResourceArtist, uuid.Nil, f.service)

	f.uc = f.newUseCase(store.TxManager())
	return f
}

func (f *fixture) newUseCase(tx TransactionManager) *UseCase {
	return NewUseCase(
		f.store.Bookings(),
		f.store.History(),
		f.store.Catalog(),
		availability.NewChecker(f.store.Bookings()),
		tx,
		slots.Noop{},
		f.notifier,
		f.metrics,
		domain.DefaultPolicy(),
		logger.Nop(),
	).WithTimeProvider(f.clock)
}

func (f *fixture) create(t *testing.T, at string) (*domain.Booking, error) {
	t.Helper()
	return f.uc.Create(context.Background(), &CreateRequest{
		UserID:         f.user,
		Resource:       f.artist,
		ServiceID:      f.service.ID,
		Date:           day,
		StartTime:      types.MustTimeString(at),
		ServiceAddress: "Tverskaya 1",
	})
}

func (f *fixture) history(t *testing.T, id uuid.UUID) []domain.HistoryAction {
	t.Helper()
	entries, err := f.store.History().ListByBooking(context.Background(), id)
	require.NoError(t, err)

	actions := make([]domain.HistoryAction, 0, len(entries))
	for _, e := range entries {
		actions = append(actions, e.Action)
	}
	return actions
}

func (f *fixture) owner() Actor {
	return Actor{UserID: f.user}
}

func operator() Actor {
	return Actor{UserID: uuid.New(), IsOperator: true}
}

func TestCreate_ConflictScenario(t *testing.T) {
	f := newFixture(t, day.Add(8*time.Hour))

	first, err := f.create(t, "14:00")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)
	assert.Equal(t, int64(5000), first.TotalAmount)
	assert.Equal(t, 60, first.DurationMinutes)
	assert.Equal(t, domain.BookingNumberFromID(first.ID), first.BookingNumber)

	_, err = f.create(t, "14:30")
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = f.create(t, "14:59")
	assert.ErrorIs(t, err, ErrSlotConflict)

	third, err := f.create(t, "15:00")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, third.Status)

	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated}, f.history(t, first.ID))
	assert.Equal(t, 2, f.metrics.conflicts)

	res, err := f.store.Catalog().GetResource(context.Background(), f.artist)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalBookings)

	require.Len(t, f.notifier.events, 2)
	assert.Equal(t, "CREATED", f.notifier.events[0].Action)
}

func TestCreate_PriceSnapshot(t *testing.T) {
	f := newFixture(t, day.Add(8*time.Hour))

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	f.service.Price = 9000
	f.store.PutService(domain.ResourceArtist, uuid.Nil, f.service)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), stored.TotalAmount)
}

func TestCreate_Preconditions(t *testing.T) {
	t.Run("lead time regardless of availability", func(t *testing.T) {
		f := newFixture(t, day.Add(13*time.Hour))
		f.store.PutResource(domain.Resource{Ref: f.artist, IsAvailable: false})

		_, err := f.create(t, "14:00")
		assert.ErrorIs(t, err, ErrLeadTimeViolation)
	})

	t.Run("exactly at lead time", func(t *testing.T) {
		f := newFixture(t, day.Add(12*time.Hour))
		_, err := f.create(t, "14:00")
		assert.ErrorIs(t, err, ErrLeadTimeViolation)
	})

	t.Run("resource unavailable", func(t *testing.T) {
		f := newFixture(t, day)
		f.store.PutResource(domain.Resource{Ref: f.artist, IsAvailable: false})

		_, err := f.create(t, "14:00")
		assert.ErrorIs(t, err, ErrResourceUnavailable)
	})

	t.Run("service inactive", func(t *testing.T) {
		f := newFixture(t, day)
		f.service.IsActive = false
		f.store.PutService(domain.ResourceArtist, uuid.Nil, f.service)

		_, err := f.create(t, "14:00")
		assert.ErrorIs(t, err, ErrServiceUnavailable)
	})

	t.Run("unknown resource", func(t *testing.T) {
		f := newFixture(t, day)
		f.artist.ID = uuid.New()

		_, err := f.create(t, "14:00")
		assert.ErrorIs(t, err, ErrResourceNotFound)
	})

	t.Run("crosses midnight", func(t *testing.T) {
		f := newFixture(t, day)
		_, err := f.create(t, "23:30")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing address", func(t *testing.T) {
		f := newFixture(t, day)
		_, err := f.uc.Create(context.Background(), &CreateRequest{
			UserID: f.user, Resource: f.artist, ServiceID: f.service.ID,
			Date: day, StartTime: types.MustTimeString("14:00"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCreate_ServiceOptionPoolIsIndependent(t *testing.T) {
	f := newFixture(t, day)

	option := domain.ResourceRef{Kind: domain.ResourceServiceOption, ID: f.artist.ID}
	f.store.PutResource(domain.Resource{Ref: option, IsAvailable: true})
	optionService := domain.Service{ID: uuid.New(), Name: "Manicure", DurationMinutes: 45, Price: 1500, IsActive: true}
	f.store.PutService(domain.ResourceServiceOption, option.ID, optionService)

	_, err := f.create(t, "14:00")
	require.NoError(t, err)

	b, err := f.uc.Create(context.Background(), &CreateRequest{
		UserID: f.user, Resource: option, ServiceID: optionService.ID,
		Date: day, StartTime: types.MustTimeString("14:00"), ServiceAddress: "Salon",
	})
	require.NoError(t, err)
	assert.Equal(t, 45, b.DurationMinutes)
	assert.Equal(t, int64(1500), b.ServicePrice)
}

func TestCancel_LeadTime(t *testing.T) {
	f := newFixture(t, day)

	soon, err := f.create(t, "14:00")
	require.NoError(t, err)
	later, err := f.create(t, "16:00")
	require.NoError(t, err)

	f.clock.now = day.Add(13 * time.Hour)

	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: soon.ID, Actor: f.owner(), Reason: "sick", RefundRequested: true})
	assert.ErrorIs(t, err, ErrNotCancellable)

	cancelled, err := f.uc.Cancel(context.Background(), &CancelRequest{BookingID: later.ID, Actor: f.owner(), Reason: "sick", RefundRequested: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)
	assert.True(t, cancelled.RefundRequested)
	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated, domain.ActionCancelled}, f.history(t, later.ID))

	// Оператор может отменить в любой момент
	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: soon.ID, Actor: operator(), Reason: "artist sick"})
	require.NoError(t, err)

	// Повторная отмена недопустима
	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: soon.ID, Actor: operator(), Reason: "again"})
	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.Len(t, f.history(t, soon.ID), 2)
}

func TestCancel_OwnershipAndValidation(t *testing.T) {
	f := newFixture(t, day)
	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: b.ID, Actor: Actor{UserID: uuid.New()}, Reason: "x"})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: b.ID, Actor: f.owner(), Reason: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: uuid.New(), Actor: f.owner(), Reason: "x"})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReschedule_Scenario(t *testing.T) {
	f := newFixture(t, day.Add(4*time.Hour))

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	moved, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		BookingID: b.ID,
		Actor:     f.owner(),
		NewDate:   day,
		NewTime:   types.MustTimeString("09:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, moved.Status)
	assert.Equal(t, "09:00", moved.ScheduledTime.String())
	assert.Equal(t, b.BookingNumber, moved.BookingNumber)
	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated, domain.ActionRescheduled}, f.history(t, b.ID))

	entries, err := f.store.History().ListByBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Contains(t, entries[1].Description, "2025-03-10 14:00")
	assert.Contains(t, entries[1].Description, "2025-03-10 09:00")

	f.clock.now = day.Add(6 * time.Hour)
	_, err = f.uc.Reschedule(context.Background(), &RescheduleRequest{
		BookingID: b.ID,
		Actor:     f.owner(),
		NewDate:   day.AddDate(0, 0, 1),
		NewTime:   types.MustTimeString("12:00"),
	})
	assert.ErrorIs(t, err, ErrNotReschedulable)
	assert.Len(t, f.history(t, b.ID), 2)
}

func TestReschedule_Rules(t *testing.T) {
	f := newFixture(t, day)

	b, err := f.create(t, "14:00")
	require.NoError(t, err)
	other, err := f.create(t, "16:00")
	require.NoError(t, err)

	t.Run("new time within lead", func(t *testing.T) {
		_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
			BookingID: b.ID, Actor: f.owner(), NewDate: day, NewTime: types.MustTimeString("03:00"),
		})
		assert.ErrorIs(t, err, ErrLeadTimeViolation)
	})

	t.Run("conflict with another booking", func(t *testing.T) {
		_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
			BookingID: b.ID, Actor: f.owner(), NewDate: day, NewTime: types.MustTimeString("15:30"),
		})
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("overlapping itself is allowed", func(t *testing.T) {
		moved, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
			BookingID: b.ID, Actor: f.owner(), NewDate: day, NewTime: types.MustTimeString("14:30"),
		})
		require.NoError(t, err)
		assert.Equal(t, "14:30", moved.ScheduledTime.String())
	})

	t.Run("in progress cannot be moved", func(t *testing.T) {
		_, err := f.uc.Confirm(context.Background(), &StatusRequest{BookingID: other.ID, Actor: operator()})
		require.NoError(t, err)
		_, err = f.uc.Start(context.Background(), &StatusRequest{BookingID: other.ID, Actor: operator()})
		require.NoError(t, err)

		_, err = f.uc.Reschedule(context.Background(), &RescheduleRequest{
			BookingID: other.ID, Actor: f.owner(), NewDate: day.AddDate(0, 0, 1), NewTime: types.MustTimeString("12:00"),
		})
		assert.ErrorIs(t, err, ErrNotReschedulable)
	})
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t, day)

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), &StatusRequest{BookingID: b.ID, Actor: operator()})
	require.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "PENDING -> COMPLETED")

	confirmed, err := f.uc.ChangeStatus(context.Background(), &StatusRequest{BookingID: b.ID, Actor: operator(), Status: domain.StatusConfirmed})
	require.NoError(t, err)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = f.uc.Confirm(context.Background(), &StatusRequest{BookingID: b.ID, Actor: operator()})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	notes := "used hypoallergenic products"
	completed, err := f.uc.ChangeStatus(context.Background(), &StatusRequest{
		BookingID: b.ID, Actor: operator(), Status: domain.StatusCompleted, ArtistNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.Nil(t, completed.CancelledAt)
	assert.Equal(t, notes, *completed.ArtistNotes)

	_, err = f.uc.ChangeStatus(context.Background(), &StatusRequest{BookingID: b.ID, Actor: operator(), Status: domain.StatusPending})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated, domain.ActionConfirmed, domain.ActionCompleted}, f.history(t, b.ID))
	assert.Equal(t, 1, f.metrics.transitions["COMPLETED"])
}

func TestChangeStatus_OperatorCancelWithoutReason(t *testing.T) {
	f := newFixture(t, day)

	b, err := f.create(t, "14:00")
	require.NoError(t, err)
	withReason, err := f.create(t, "16:00")
	require.NoError(t, err)

	cancelled, err := f.uc.ChangeStatus(context.Background(), &StatusRequest{
		BookingID: b.ID, Actor: operator(), Status: domain.StatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancellationReason)
	assert.Equal(t, operatorCancelReason, *cancelled.CancellationReason)

	blank := "   "
	_, err = f.uc.ChangeStatus(context.Background(), &StatusRequest{
		BookingID: withReason.ID, Actor: operator(), Status: domain.StatusCancelled, Reason: &blank,
	})
	require.NoError(t, err)

	reason := "artist sick"
	_, err = f.uc.ChangeStatus(context.Background(), &StatusRequest{
		BookingID: b.ID, Actor: operator(), Status: domain.StatusCancelled, Reason: &reason,
	})
	assert.ErrorIs(t, err, ErrNotCancellable)

	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated, domain.ActionCancelled}, f.history(t, b.ID))
	assert.Equal(t, []domain.HistoryAction{domain.ActionCreated, domain.ActionCancelled}, f.history(t, withReason.ID))
}

func TestPaymentAndRefund(t *testing.T) {
	f := newFixture(t, day)

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	_, err = f.uc.ProcessRefund(context.Background(), &RefundRequest{BookingID: b.ID, Actor: operator()})
	assert.ErrorIs(t, err, ErrPaymentState)

	paid, err := f.uc.RecordPayment(context.Background(), &PaymentRequest{BookingID: b.ID, Actor: operator(), PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)

	_, err = f.uc.RecordPayment(context.Background(), &PaymentRequest{BookingID: b.ID, Actor: operator(), PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrPaymentState)

	_, err = f.uc.Cancel(context.Background(), &CancelRequest{BookingID: b.ID, Actor: f.owner(), Reason: "changed plans", RefundRequested: true})
	require.NoError(t, err)

	refunded, err := f.uc.ProcessRefund(context.Background(), &RefundRequest{BookingID: b.ID, Actor: operator()})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentRefunded, refunded.PaymentStatus)
	assert.Equal(t, domain.StatusCancelled, refunded.Status)

	assert.Equal(t, []domain.HistoryAction{
		domain.ActionCreated,
		domain.ActionPaymentReceived,
		domain.ActionCancelled,
		domain.ActionRefundProcessed,
	}, f.history(t, b.ID))
}

func TestNotifierFailureDoesNotAffectState(t *testing.T) {
	f := newFixture(t, day)
	f.notifier.err = errors.New("broker down")

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Equal(t, 1, f.metrics.notifyFailures)
}

// flakyTx возвращает ErrSerialization на первых failures вызовах
type flakyTx struct {
	inner    TransactionManager
	failures int
	calls    int
}

func (tx *flakyTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	if tx.calls <= tx.failures {
		return txmanager.ErrSerialization
	}
	return tx.inner.DoSerializable(ctx, fn)
}

func TestSerializationFailureRetriedOnce(t *testing.T) {
	f := newFixture(t, day)

	tx := &flakyTx{inner: f.store.TxManager(), failures: 1}
	f.uc = f.newUseCase(tx)

	_, err := f.create(t, "14:00")
	require.NoError(t, err)
	assert.Equal(t, 2, tx.calls)
	assert.Equal(t, 1, f.metrics.retries)

	tx = &flakyTx{inner: f.store.TxManager(), failures: 2}
	f.uc = f.newUseCase(tx)

	_, err = f.create(t, "16:00")
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 2, tx.calls)
}

// failingHistory проваливает запись истории
type failingHistory struct{}

func (failingHistory) Append(context.Context, *domain.HistoryEntry) error {
	return errors.New("disk full")
}

func TestTransitionIsAtomicWithHistory(t *testing.T) {
	f := newFixture(t, day)

	b, err := f.create(t, "14:00")
	require.NoError(t, err)

	broken := NewUseCase(
		f.store.Bookings(),
		failingHistory{},
		f.store.Catalog(),
		availability.NewChecker(f.store.Bookings()),
		f.store.TxManager(),
		slots.Noop{},
		f.notifier,
		f.metrics,
		domain.DefaultPolicy(),
		logger.Nop(),
	).WithTimeProvider(f.clock)

	_, err = broken.Confirm(context.Background(), &StatusRequest{BookingID: b.ID, Actor: operator()})
	require.ErrorIs(t, err, ErrInternal)

	stored, err := f.store.Bookings().GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Nil(t, stored.ConfirmedAt)
}
