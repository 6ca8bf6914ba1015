package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/rating"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func newBooking(ref domain.ResourceRef, at string, status domain.BookingStatus) *domain.Booking {
	id := uuid.New()
	return &domain.Booking{
		ID:              id,
		BookingNumber:   domain.BookingNumberFromID(id),
		UserID:          uuid.New(),
		Resource:        ref,
		ScheduledDate:   testDate,
		ScheduledTime:   types.MustTimeString(at),
		DurationMinutes: 60,
		Status:          status,
	}
}

func TestTxManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	b := newBooking(ref, "10:00", domain.StatusPending)

	errBoom := errors.New("boom")
	err := store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.Bookings().Create(txCtx, b))
		require.NoError(t, store.History().Append(txCtx, &domain.HistoryEntry{ID: uuid.New(), BookingID: b.ID, Action: domain.ActionCreated}))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	_, err = store.Bookings().GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, booking.ErrBookingNotFound)

	entries, err := store.History().ListByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTxManager_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	b := newBooking(ref, "10:00", domain.StatusPending)

	err := store.TxManager().Do(ctx, func(txCtx context.Context) error {
		return store.TxManager().Do(txCtx, func(inner context.Context) error {
			return store.Bookings().Create(inner, b)
		})
	})
	require.NoError(t, err)

	got, err := store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.BookingNumber, got.BookingNumber)
}

func TestBookingRepository_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}

	first := newBooking(ref, "10:00", domain.StatusPending)
	require.NoError(t, store.Bookings().Create(ctx, first))

	second := newBooking(ref, "12:00", domain.StatusPending)
	second.BookingNumber = first.BookingNumber
	assert.ErrorIs(t, store.Bookings().Create(ctx, second), booking.ErrDuplicateBooking)
}

func TestBookingRepository_ActiveByResourceAndDate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	other := domain.ResourceRef{Kind: domain.ResourceServiceOption, ID: ref.ID}

	require.NoError(t, store.Bookings().Create(ctx, newBooking(ref, "15:00", domain.StatusConfirmed)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(ref, "10:00", domain.StatusPending)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(ref, "12:00", domain.StatusCancelled)))
	require.NoError(t, store.Bookings().Create(ctx, newBooking(other, "11:00", domain.StatusPending)))

	active, err := store.Bookings().GetActiveByResourceAndDate(ctx, ref, testDate)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "10:00", active[0].ScheduledTime.String())
	assert.Equal(t, "15:00", active[1].ScheduledTime.String())

	all, err := store.Bookings().GetByResourceWithFilter(ctx, domain.ResourceBookingsFilter{Resource: ref, IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRatingRepository_AggregateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}

	for _, score := range []int{5, 4, 4} {
		b := newBooking(ref, "10:00", domain.StatusCompleted)
		require.NoError(t, store.Bookings().Create(ctx, b))
		require.NoError(t, store.Ratings().Create(ctx, &domain.Rating{ID: uuid.New(), BookingID: b.ID, OverallRating: score}))

		err := store.Ratings().Create(ctx, &domain.Rating{ID: uuid.New(), BookingID: b.ID, OverallRating: 1})
		assert.ErrorIs(t, err, rating.ErrAlreadyRated)
	}

	agg, err := store.Ratings().AggregateForResource(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 3, agg.TotalReviews)
	assert.InDelta(t, 13.0/3.0, agg.AverageRating, 1e-9)
}

func TestScheduleRepository_Hierarchy(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Schedules()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}

	_, err := repo.GetWithHierarchy(ctx, ref)
	assert.ErrorIs(t, err, schedule.ErrScheduleNotFound)

	require.NoError(t, repo.Create(ctx, &domain.ScheduleConfig{ID: uuid.New(), Kind: ref.Kind, OpenHour: 8, CloseHour: 20, SlotStepMinutes: 30}))
	cfg, err := repo.GetWithHierarchy(ctx, ref)
	require.NoError(t, err)
	assert.True(t, cfg.IsKindWide())

	require.NoError(t, repo.Create(ctx, &domain.ScheduleConfig{ID: uuid.New(), Kind: ref.Kind, ResourceID: &ref.ID, OpenHour: 10, CloseHour: 18, SlotStepMinutes: 60}))
	cfg, err = repo.GetWithHierarchy(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.OpenHour)

	require.NoError(t, repo.DeleteByKey(ctx, ref.Kind, &ref.ID))
	cfg, err = repo.GetWithHierarchy(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.OpenHour)
}
