package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func activeBooking(ref domain.ResourceRef, at string, minutes int, status domain.BookingStatus) *domain.Booking {
	id := uuid.New()
	return &domain.Booking{
		ID:              id,
		BookingNumber:   domain.BookingNumberFromID(id),
		Resource:        ref,
		ScheduledDate:   testDate,
		ScheduledTime:   types.MustTimeString(at),
		DurationMinutes: minutes,
		Status:          status,
	}
}

func window(t *testing.T, at string, minutes int) domain.TimeWindow {
	w, err := domain.NewTimeWindow(types.MustTimeString(at), minutes)
	require.NoError(t, err)
	return w
}

func TestFindConflict(t *testing.T) {
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	existing := activeBooking(ref, "14:00", 60, domain.StatusPending)
	cancelled := activeBooking(ref, "16:00", 60, domain.StatusCancelled)
	bookings := []*domain.Booking{existing, cancelled}

	tests := []struct {
		name     string
		at       string
		minutes  int
		exclude  *uuid.UUID
		conflict bool
	}{
		{name: "overlap inside", at: "14:30", minutes: 60, conflict: true},
		{name: "starts one minute before end", at: "14:59", minutes: 60, conflict: true},
		{name: "abuts end", at: "15:00", minutes: 60},
		{name: "abuts start", at: "13:00", minutes: 60},
		{name: "covers existing", at: "13:30", minutes: 120, conflict: true},
		{name: "cancelled booking ignored", at: "16:00", minutes: 60},
		{name: "excluded self", at: "14:00", minutes: 60, exclude: &existing.ID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindConflict(window(t, tt.at, tt.minutes), bookings, tt.exclude)
			require.NoError(t, err)
			if tt.conflict {
				require.NotNil(t, got)
				assert.Equal(t, existing.ID, got.ID)
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestChecker_CheckConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	existing := activeBooking(ref, "14:00", 60, domain.StatusConfirmed)
	require.NoError(t, store.Bookings().Create(ctx, existing))

	checker := NewChecker(store.Bookings())

	err := checker.CheckConflict(ctx, ref, testDate, types.MustTimeString("14:30"), 60, nil)
	require.ErrorIs(t, err, ErrSlotConflict)
	assert.Contains(t, err.Error(), existing.BookingNumber)

	assert.NoError(t, checker.CheckConflict(ctx, ref, testDate, types.MustTimeString("15:00"), 60, nil))

	// Пулы ресурсов разных видов независимы
	other := domain.ResourceRef{Kind: domain.ResourceServiceOption, ID: ref.ID}
	assert.NoError(t, checker.CheckConflict(ctx, other, testDate, types.MustTimeString("14:00"), 60, nil))

	err = checker.CheckConflict(ctx, ref, testDate, types.MustTimeString("23:30"), 60, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
