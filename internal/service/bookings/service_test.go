package bookings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/logger"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func newTestService(store *memory.Store, now time.Time) *Service {
	policy := domain.DefaultPolicy()
	policy.HistoryPreview = 2

	return NewService(store.Bookings(), store.History(), store.Ratings(), policy, logger.Nop()).
		WithTimeProvider(fixedClock{now: now})
}

func seedBooking(t *testing.T, store *memory.Store, user uuid.UUID, ref domain.ResourceRef, date time.Time, at string, status domain.BookingStatus) *domain.Booking {
	t.Helper()

	id := uuid.New()
	b := &domain.Booking{
		ID:              id,
		BookingNumber:   domain.BookingNumberFromID(id),
		UserID:          user,
		Resource:        ref,
		ServiceID:       uuid.New(),
		ScheduledDate:   date,
		ScheduledTime:   types.MustTimeString(at),
		DurationMinutes: 60,
		ServicePrice:    3000,
		TotalAmount:     3000,
		Status:          status,
		PaymentStatus:   domain.PaymentPending,
		ServiceAddress:  "Tverskaya 1",
	}
	require.NoError(t, store.Bookings().Create(context.Background(), b))
	return b
}

func TestGetByID(t *testing.T) {
	store := memory.NewStore()
	user := uuid.New()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	b := seedBooking(t, store, user, ref, day, "14:00", domain.StatusPending)

	for i, action := range []domain.HistoryAction{domain.ActionCreated, domain.ActionConfirmed, domain.ActionPaymentReceived} {
		require.NoError(t, store.History().Append(context.Background(), &domain.HistoryEntry{
			ID:          uuid.New(),
			BookingID:   b.ID,
			Action:      action,
			Description: fmt.Sprintf("step %d", i),
			CreatedAt:   day.Add(time.Duration(i) * time.Minute),
		}))
	}

	t.Run("owner sees preview newest first", func(t *testing.T) {
		svc := newTestService(store, day.Add(9*time.Hour))

		resp, err := svc.GetByID(context.Background(), b.ID, models.Viewer{UserID: user})
		require.NoError(t, err)
		assert.Equal(t, b.BookingNumber, resp.BookingNumber)
		assert.Equal(t, "14:00", resp.ScheduledTime)
		assert.True(t, resp.IsActive)
		assert.True(t, resp.CanCancel)
		assert.True(t, resp.CanReschedule)
		require.Len(t, resp.History, 2)
		assert.Equal(t, "PAYMENT_RECEIVED", resp.History[0].Action)
		assert.Equal(t, "CONFIRMED", resp.History[1].Action)
		assert.Nil(t, resp.Rating)
	})

	t.Run("flags inside lead windows", func(t *testing.T) {
		svc := newTestService(store, day.Add(11*time.Hour))

		resp, err := svc.GetByID(context.Background(), b.ID, models.Viewer{UserID: user})
		require.NoError(t, err)
		assert.True(t, resp.CanCancel)
		assert.False(t, resp.CanReschedule)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		svc := newTestService(store, day)

		_, err := svc.GetByID(context.Background(), b.ID, models.Viewer{UserID: uuid.New()})
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("operator sees any booking", func(t *testing.T) {
		svc := newTestService(store, day)

		_, err := svc.GetByID(context.Background(), b.ID, models.Viewer{UserID: uuid.New(), IsOperator: true})
		assert.NoError(t, err)
	})

	t.Run("full history in creation order", func(t *testing.T) {
		svc := newTestService(store, day)

		resp, err := svc.GetHistory(context.Background(), b.ID, models.Viewer{UserID: user})
		require.NoError(t, err)
		require.Len(t, resp.History, 3)
		assert.Equal(t, "CREATED", resp.History[0].Action)
	})
}

func TestGetByID_AnonymousRating(t *testing.T) {
	store := memory.NewStore()
	user := uuid.New()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	b := seedBooking(t, store, user, ref, day, "14:00", domain.StatusCompleted)

	require.NoError(t, store.Ratings().Create(context.Background(), &domain.Rating{
		ID: uuid.New(), BookingID: b.ID, UserID: user, OverallRating: 4, IsAnonymous: true,
	}))

	resp, err := newTestService(store, day).GetByID(context.Background(), b.ID, models.Viewer{UserID: user})
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 4, resp.Rating.OverallRating)
	assert.Nil(t, resp.Rating.UserID)
	assert.False(t, resp.IsActive)
	assert.False(t, resp.CanCancel)
}

func TestGetUserBookingsAndStats(t *testing.T) {
	store := memory.NewStore()
	user := uuid.New()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}

	seedBooking(t, store, user, ref, day, "10:00", domain.StatusCompleted)
	seedBooking(t, store, user, ref, day, "12:00", domain.StatusCompleted)
	seedBooking(t, store, user, ref, day.AddDate(0, 0, 1), "12:00", domain.StatusPending)
	seedBooking(t, store, uuid.New(), ref, day, "16:00", domain.StatusPending)

	svc := newTestService(store, day)

	all, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: user})
	require.NoError(t, err)
	require.Len(t, all.Bookings, 3)
	assert.Equal(t, "2025-03-11", all.Bookings[0].ScheduledDate)

	status := "COMPLETED"
	completed, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: user, Status: &status})
	require.NoError(t, err)
	assert.Len(t, completed.Bookings, 2)

	bad := "DONE"
	_, err = svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: user, Status: &bad})
	assert.ErrorIs(t, err, ErrInvalidInput)

	stats, err := svc.GetStats(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByStatus["COMPLETED"])
	assert.Equal(t, int64(6000), stats.TotalSpent)
}

func TestGetResourceBookings(t *testing.T) {
	store := memory.NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	other := domain.ResourceRef{Kind: domain.ResourceServiceOption, ID: ref.ID}

	seedBooking(t, store, uuid.New(), ref, day, "15:00", domain.StatusConfirmed)
	seedBooking(t, store, uuid.New(), ref, day, "10:00", domain.StatusPending)
	seedBooking(t, store, uuid.New(), ref, day, "12:00", domain.StatusCancelled)
	seedBooking(t, store, uuid.New(), other, day, "10:00", domain.StatusPending)

	svc := newTestService(store, day)

	resp, err := svc.GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
		Resource: ref, StartDate: &day, EndDate: &day,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, "10:00", resp.Bookings[0].ScheduledTime)
	assert.Equal(t, "15:00", resp.Bookings[1].ScheduledTime)

	withInactive, err := svc.GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
		Resource: ref, StartDate: &day, EndDate: &day, IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, withInactive.Bookings, 3)

	before := day.AddDate(0, 0, -1)
	_, err = svc.GetResourceBookings(context.Background(), &models.GetResourceBookingsRequest{
		Resource: ref, StartDate: &day, EndDate: &before,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
