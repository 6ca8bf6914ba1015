package rate_booking

import (
	"context"
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
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/logger"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/metrics"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/ptr"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time {
	return time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
}

type morningClock struct{}

func (morningClock) Now() time.Time {
	return time.Date(2025, 3, 10, 4, 0, 0, 0, time.UTC)
}

type fixture struct {
	store  *memory.Store
	uc     *UseCase
	artist domain.ResourceRef
}

func newFixture() *fixture {
	store := memory.NewStore()
	artist := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	store.PutResource(domain.Resource{Ref: artist, Name: "Anna", IsAvailable: true})

	uc := NewUseCase(store.Bookings(), store.Ratings(), store.Catalog(), store.TxManager(), logger.Nop()).
		WithTimeProvider(fixedClock{})

	return &fixture{store: store, uc: uc, artist: artist}
}

func (f *fixture) booking(t *testing.T, user uuid.UUID, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	id := uuid.New()
	b := &domain.Booking{
		ID:              id,
		BookingNumber:   domain.BookingNumberFromID(id),
		UserID:          user,
		Resource:        f.artist,
		ServiceID:       uuid.New(),
		ScheduledDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   types.MustTimeString("14:00"),
		DurationMinutes: 60,
		Status:          status,
		PaymentStatus:   domain.PaymentPending,
		ServiceAddress:  "Tverskaya 1",
	}
	require.NoError(t, f.store.Bookings().Create(context.Background(), b))
	return b
}

func (f *fixture) resource(t *testing.T) *domain.Resource {
	t.Helper()
	res, err := f.store.Catalog().GetResource(context.Background(), f.artist)
	require.NoError(t, err)
	return res
}

func TestExecute_RateOnce(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	b := f.booking(t, user, domain.StatusCompleted)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID:     b.ID,
		UserID:        user,
		OverallRating: 5,
		ReviewText:    ptr.Ptr("great"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, resp.AverageRating)
	assert.Equal(t, 1, resp.TotalReviews)

	res := f.resource(t)
	assert.Equal(t, 5.0, res.AverageRating)
	assert.Equal(t, 1, res.TotalReviews)

	_, err = f.uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: user, OverallRating: 1})
	assert.ErrorIs(t, err, ErrAlreadyRated)
	assert.Equal(t, 1, f.resource(t).TotalReviews)

	stored, err := f.store.Ratings().GetByBookingID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "great", *stored.ReviewText)
}

func TestExecute_AverageIsExactMean(t *testing.T) {
	f := newFixture()
	user := uuid.New()

	for _, score := range []int{5, 4, 4} {
		b := f.booking(t, user, domain.StatusCompleted)
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: b.ID, UserID: user, OverallRating: score})
		require.NoError(t, err)
	}

	res := f.resource(t)
	assert.InDelta(t, 13.0/3.0, res.AverageRating, 1e-9)
	assert.Equal(t, 3, res.TotalReviews)
	assert.Equal(t, 4.33, domain.RoundRating(res.AverageRating))
}

func TestExecute_Rejections(t *testing.T) {
	f := newFixture()
	user := uuid.New()
	completed := f.booking(t, user, domain.StatusCompleted)
	pending := f.booking(t, user, domain.StatusPending)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "not completed",
			req:     &Request{BookingID: pending.ID, UserID: user, OverallRating: 5},
			wantErr: ErrBookingNotCompleted,
		},
		{
			name:    "someone else's booking",
			req:     &Request{BookingID: completed.ID, UserID: uuid.New(), OverallRating: 5},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "unknown booking",
			req:     &Request{BookingID: uuid.New(), UserID: user, OverallRating: 5},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "overall out of range",
			req:     &Request{BookingID: completed.ID, UserID: user, OverallRating: 6},
			wantErr: ErrInvalidRatingValue,
		},
		{
			name:    "zero overall",
			req:     &Request{BookingID: completed.ID, UserID: user},
			wantErr: ErrInvalidRatingValue,
		},
		{
			name:    "sub-score out of range",
			req:     &Request{BookingID: completed.ID, UserID: user, OverallRating: 4, Punctuality: ptr.Ptr(0)},
			wantErr: ErrInvalidRatingValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	res := f.resource(t)
	assert.Equal(t, 0, res.TotalReviews)
	assert.Zero(t, res.AverageRating)
}

func TestExecute_AfterLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	service := domain.Service{ID: uuid.New(), Name: "Party makeup", DurationMinutes: 60, Price: 5000, IsActive: true}
	f.store.PutService(domain.ResourceArtist, uuid.Nil, service)

	lifecycle := booking_lifecycle.NewUseCase(
		f.store.Bookings(),
		f.store.History(),
		f.store.Catalog(),
		availability.NewChecker(f.store.Bookings()),
		f.store.TxManager(),
		slots.Noop{},
		notifier.Noop{},
		(*metrics.Metrics)(nil),
		domain.DefaultPolicy(),
		logger.Nop(),
	).WithTimeProvider(morningClock{})

	user := uuid.New()
	b, err := lifecycle.Create(ctx, &booking_lifecycle.CreateRequest{
		UserID:         user,
		Resource:       f.artist,
		ServiceID:      service.ID,
		Date:           time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		StartTime:      types.MustTimeString("14:00"),
		ServiceAddress: "Tverskaya 1",
	})
	require.NoError(t, err)

	// Пока бронирование не завершено, оценка недоступна
	_, err = f.uc.Execute(ctx, &Request{BookingID: b.ID, UserID: user, OverallRating: 5})
	assert.ErrorIs(t, err, ErrBookingNotCompleted)

	staff := booking_lifecycle.Actor{UserID: uuid.New(), IsOperator: true}
	_, err = lifecycle.Confirm(ctx, &booking_lifecycle.StatusRequest{BookingID: b.ID, Actor: staff})
	require.NoError(t, err)
	completed, err := lifecycle.Complete(ctx, &booking_lifecycle.StatusRequest{BookingID: b.ID, Actor: staff})
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, completed.Status)

	resp, err := f.uc.Execute(ctx, &Request{
		BookingID:     b.ID,
		UserID:        user,
		OverallRating: 5,
		ReviewText:    ptr.Ptr("great"),
	})
	require.NoError(t, err)
	assert.Equal(t, 5.0, resp.AverageRating)
	assert.Equal(t, 1, resp.TotalReviews)

	_, err = f.uc.Execute(ctx, &Request{BookingID: b.ID, UserID: user, OverallRating: 5})
	assert.ErrorIs(t, err, ErrAlreadyRated)

	res := f.resource(t)
	assert.Equal(t, 5.0, res.AverageRating)
	assert.Equal(t, 1, res.TotalReviews)
}
