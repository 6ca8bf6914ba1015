package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// Cache кэш слотов дня в Redis.
// Один hash на (вид ресурса, ресурс, дата), поле hash - длительность слота,
// поэтому сброс после записи бронирования удаляет все длительности разом.
// Сброс оставляет метку на время ttl. Пока метка жива, Set ничего не пишет:
// чтение, начатое до коммита бронирования, не вернет в кэш устаревший день.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает клиент Redis
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewCache создает кэш слотов
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
	}
}

func key(ref domain.ResourceRef, date time.Time) string {
	return fmt.Sprintf("slots:%s:%s:%s", ref.Kind, ref.ID, date.Format(domain.DateFormat))
}

func invalidatedKey(ref domain.ResourceRef, date time.Time) string {
	return key(ref, date) + ":invalidated"
}

// Get возвращает слоты из кэша. Промах возвращает nil без ошибки.
func (c *Cache) Get(ctx context.Context, ref domain.ResourceRef, date time.Time, durationMinutes int) (*domain.DaySlots, error) {
	val, err := c.client.HGet(ctx, key(ref, date), strconv.Itoa(durationMinutes)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheRead, err)
	}

	var day domain.DaySlots
	if err := json.Unmarshal([]byte(val), &day); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return &day, nil
}

// Set сохраняет слоты в кэш.
// Если день недавно сброшен или сбрасывается прямо сейчас, запись пропускается.
func (c *Cache) Set(ctx context.Context, ref domain.ResourceRef, date time.Time, durationMinutes int, day *domain.DaySlots) error {
	data, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrCacheWrite, err)
	}

	k := key(ref, date)
	marker := invalidatedKey(ref, date)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, marker).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, strconv.Itoa(durationMinutes), data)
			pipe.Expire(ctx, k, c.ttl)
			return nil
		})
		return err
	}, marker)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheWrite, err)
	}

	return nil
}

// Invalidate удаляет слоты ресурса на дату для всех длительностей и ставит метку сброса
func (c *Cache) Invalidate(ctx context.Context, ref domain.ResourceRef, date time.Time) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, invalidatedKey(ref, date), 1, c.ttl)
	pipe.Del(ctx, key(ref, date))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrCacheWrite, err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrCacheRead, err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (c *Cache) Close() error {
	return c.client.Close()
}

// Noop кэш, который ничего не хранит. Используется, когда Redis отключен.
type Noop struct{}

// Get всегда возвращает промах
func (Noop) Get(context.Context, domain.ResourceRef, time.Time, int) (*domain.DaySlots, error) {
	return nil, nil
}

// Set ничего не делает
func (Noop) Set(context.Context, domain.ResourceRef, time.Time, int, *domain.DaySlots) error {
	return nil
}

// Invalidate ничего не делает
func (Noop) Invalidate(context.Context, domain.ResourceRef, time.Time) error {
	return nil
}
