package slots

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

func TestCache(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	cache := NewCache(client, time.Minute)
	ctx := context.Background()
	ref := domain.ResourceRef{Kind: domain.ResourceArtist, ID: uuid.New()}
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	day := &domain.DaySlots{
		Available: []domain.Slot{{StartTime: types.MustTimeString("09:00"), EndTime: types.MustTimeString("10:00"), DurationMinutes: 60}},
		Booked:    []domain.Slot{{StartTime: types.MustTimeString("10:00"), EndTime: types.MustTimeString("11:00"), DurationMinutes: 60}},
	}

	t.Run("Miss", func(t *testing.T) {
		got, err := cache.Get(ctx, ref, date, 60)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, ref, date, 60, day))

		got, err := cache.Get(ctx, ref, date, 60)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Available, 1)
		assert.Equal(t, "09:00", got.Available[0].StartTime.String())
		assert.Equal(t, "11:00", got.Booked[0].EndTime.String())

		other, err := cache.Get(ctx, ref, date, 30)
		require.NoError(t, err)
		assert.Nil(t, other)

		assert.Equal(t, time.Minute, s.TTL(key(ref, date)))
	})

	t.Run("InvalidateDropsAllDurations", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, ref, date, 30, day))
		require.NoError(t, cache.Invalidate(ctx, ref, date))

		for _, d := range []int{30, 60} {
			got, err := cache.Get(ctx, ref, date, d)
			require.NoError(t, err)
			assert.Nil(t, got)
		}
	})

	t.Run("SetAfterInvalidateIsSkipped", func(t *testing.T) {
		// Слоты, посчитанные до коммита бронирования, приходят в кэш уже после сброса
		require.NoError(t, cache.Invalidate(ctx, ref, date))
		require.NoError(t, cache.Set(ctx, ref, date, 60, day))

		got, err := cache.Get(ctx, ref, date, 60)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.False(t, s.Exists(key(ref, date)))

		s.FastForward(2 * time.Minute)
		require.NoError(t, cache.Set(ctx, ref, date, 60, day))

		got, err = cache.Get(ctx, ref, date, 60)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("Expire", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, ref, date, 60, day))
		require.True(t, s.Exists(key(ref, date)))
		s.FastForward(2 * time.Minute)

		got, err := cache.Get(ctx, ref, date, 60)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
