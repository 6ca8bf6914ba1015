package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

func TestBookingNumberFromID(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-7b4d-4e8a-9c0f-123456789abc")
	assert.Equal(t, "BK3F2A9C1E", BookingNumberFromID(id))
}

func TestCalculateTotal(t *testing.T) {
	assert.Equal(t, int64(4500), CalculateTotal(5000, 0, 500))
	assert.Equal(t, int64(5300), CalculateTotal(5000, 300, 0))
}

func TestTimeWindow_Overlaps(t *testing.T) {
	w := func(start string, minutes int) TimeWindow {
		tw, err := NewTimeWindow(types.MustTimeString(start), minutes)
		require.NoError(t, err)
		return tw
	}

	existing := w("14:00", 60)

	assert.True(t, w("14:30", 60).Overlaps(existing))
	assert.True(t, w("13:01", 60).Overlaps(existing))
	assert.True(t, w("14:00", 60).Overlaps(existing))
	assert.True(t, w("14:15", 15).Overlaps(existing))
	assert.False(t, w("15:00", 60).Overlaps(existing), "abutting after")
	assert.False(t, w("13:00", 60).Overlaps(existing), "abutting before")
}

func TestNewTimeWindow_Bounds(t *testing.T) {
	_, err := NewTimeWindow(types.MustTimeString("23:30"), 60)
	assert.ErrorIs(t, err, types.ErrTimeOverflow)

	tw, err := NewTimeWindow(types.MustTimeString("23:00"), 60)
	require.NoError(t, err)
	assert.Equal(t, "24:00", tw.End.String())

	_, err = NewTimeWindow(types.MustTimeString("10:00"), 0)
	assert.Error(t, err)
}

func TestBooking_StartAt(t *testing.T) {
	b := &Booking{
		ScheduledDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		ScheduledTime: types.MustTimeString("14:30"),
	}
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), b.StartAt(time.UTC))
}

func TestResourceBookingsFilter_IsSingleDate(t *testing.T) {
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	e := d.AddDate(0, 0, 1)

	assert.True(t, ResourceBookingsFilter{StartDate: &d, EndDate: &d}.IsSingleDate())
	assert.False(t, ResourceBookingsFilter{StartDate: &d, EndDate: &e}.IsSingleDate())
	assert.False(t, ResourceBookingsFilter{StartDate: &d}.IsSingleDate())
}

func TestParseResourceKind(t *testing.T) {
	k, err := ParseResourceKind("service_option")
	require.NoError(t, err)
	assert.Equal(t, ResourceServiceOption, k)

	_, err = ParseResourceKind("studio")
	assert.ErrorIs(t, err, ErrUnknownResourceKind)
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.67, RoundRating(14.0/3.0))
	assert.Equal(t, 5.0, RoundRating(5))
}
