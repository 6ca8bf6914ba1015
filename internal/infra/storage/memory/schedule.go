package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/schedule"
)

// ScheduleRepository in-memory репозиторий расписаний
type ScheduleRepository struct {
	store *Store
}

func keyOf(kind domain.ResourceKind, resourceID *uuid.UUID) scheduleKey {
	key := scheduleKey{kind: kind}
	if resourceID != nil {
		key.resourceID = *resourceID
	}
	return key
}

// Create создает расписание
func (r *ScheduleRepository) Create(ctx context.Context, cfg *domain.ScheduleConfig) error {
	var err error
	r.store.write(func(d *state) {
		key := keyOf(cfg.Kind, cfg.ResourceID)
		if _, ok := d.schedules[key]; ok {
			err = schedule.ErrDuplicateSchedule
			return
		}
		d.schedules[key] = *cfg
	})
	return err
}

// GetByKey получает расписание вида ресурса (resourceID == nil) или конкретного ресурса
func (r *ScheduleRepository) GetByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) (*domain.ScheduleConfig, error) {
	var (
		cfg domain.ScheduleConfig
		ok  bool
	)
	r.store.read(func(d *state) { cfg, ok = d.schedules[keyOf(kind, resourceID)] })
	if !ok {
		return nil, schedule.ErrScheduleNotFound
	}
	return &cfg, nil
}

// GetWithHierarchy получает расписание ресурса, а при его отсутствии - расписание вида ресурса
func (r *ScheduleRepository) GetWithHierarchy(ctx context.Context, ref domain.ResourceRef) (*domain.ScheduleConfig, error) {
	cfg, err := r.GetByKey(ctx, ref.Kind, &ref.ID)
	if !errors.Is(err, schedule.ErrScheduleNotFound) {
		return cfg, err
	}
	return r.GetByKey(ctx, ref.Kind, nil)
}

// Update обновляет параметры расписания
func (r *ScheduleRepository) Update(ctx context.Context, cfg *domain.ScheduleConfig) error {
	var err error
	r.store.write(func(d *state) {
		for key, current := range d.schedules {
			if current.ID != cfg.ID {
				continue
			}
			current.OpenHour = cfg.OpenHour
			current.CloseHour = cfg.CloseHour
			current.SlotStepMinutes = cfg.SlotStepMinutes
			current.UpdatedAt = cfg.UpdatedAt
			d.schedules[key] = current
			return
		}
		err = schedule.ErrScheduleNotFound
	})
	return err
}

// DeleteByKey удаляет расписание
func (r *ScheduleRepository) DeleteByKey(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) error {
	var err error
	r.store.write(func(d *state) {
		key := keyOf(kind, resourceID)
		if _, ok := d.schedules[key]; !ok {
			err = schedule.ErrScheduleNotFound
			return
		}
		delete(d.schedules, key)
	})
	return err
}
