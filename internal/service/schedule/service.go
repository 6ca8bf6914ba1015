package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	scheduleRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/schedule/models"
)

// Границы параметров расписания
const (
	maxCloseHour       = 24
	minSlotStepMinutes = 5
	maxSlotStepMinutes = 480 // максимум 8 часов
)

// Service сервис для работы с расписаниями ресурсов
type Service struct {
	scheduleRepo ScheduleRepository
	defaults     domain.ScheduleConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний.
// defaults используется, когда для ресурса нет ни собственного расписания, ни расписания вида.
func NewService(scheduleRepo ScheduleRepository, defaults domain.ScheduleConfig, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		defaults:     defaults,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetEffective получает действующее расписание ресурса с учетом иерархии.
// Приоритет: resource > kind > default
func (s *Service) GetEffective(ctx context.Context, ref domain.ResourceRef) (*models.ScheduleResponse, error) {
	s.logger.Info("GetEffective: fetching schedule for resource=%s", ref)

	cfg, err := s.scheduleRepo.GetWithHierarchy(ctx, ref)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Error("GetEffective: repository error for resource=%s: %v", ref, err)
			return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
		}
		defaults := s.defaults
		defaults.Kind = ref.Kind
		cfg = &defaults
	}

	resp := models.FromDomainConfig(cfg)
	s.logger.Info("GetEffective: resource=%s uses %s schedule %d-%d step %d",
		ref, resp.Level, cfg.OpenHour, cfg.CloseHour, cfg.SlotStepMinutes)
	return resp, nil
}

// Upsert создает или обновляет расписание ресурса либо вида ресурсов
func (s *Service) Upsert(ctx context.Context, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Upsert: schedule for kind=%s, resource=%v: %d-%d step %d",
		req.Kind, req.ResourceID, req.OpenHour, req.CloseHour, req.SlotStepMinutes)

	// 1. Валидируем входные данные
	if err := validateScheduleData(req); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	now := s.timeProvider.Now()

	// 2. Обновляем существующее расписание
	existing, err := s.scheduleRepo.GetByKey(ctx, req.Kind, req.ResourceID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		s.logger.Error("Upsert: failed to check existing schedule: %v", err)
		return nil, fmt.Errorf("%w: Upsert - failed to check existing schedule: %v", ErrInternal, err)
	}
	if existing != nil {
		return s.update(ctx, existing, req)
	}

	// 3. Создаем новое
	cfg := req.ToDomainConfig()
	cfg.ID = uuid.New()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	if err := s.scheduleRepo.Create(ctx, cfg); err != nil {
		if !errors.Is(err, scheduleRepo.ErrDuplicateSchedule) {
			s.logger.Error("Upsert: repository error: %v", err)
			return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}

		// Параллельный запрос успел создать расписание
		existing, err = s.scheduleRepo.GetByKey(ctx, req.Kind, req.ResourceID)
		if err != nil {
			s.logger.Error("Upsert: failed to reload schedule after duplicate: %v", err)
			return nil, fmt.Errorf("%w: Upsert - reload after duplicate: %v", ErrInternal, err)
		}
		return s.update(ctx, existing, req)
	}

	s.logger.Info("Upsert: successfully created schedule id=%s", cfg.ID)
	return models.FromDomainConfig(cfg), nil
}

// Delete удаляет расписание, после чего действует следующий уровень иерархии
func (s *Service) Delete(ctx context.Context, kind domain.ResourceKind, resourceID *uuid.UUID) error {
	s.logger.Info("Delete: schedule for kind=%s, resource=%v", kind, resourceID)

	if err := s.scheduleRepo.DeleteByKey(ctx, kind, resourceID); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("Delete: schedule for kind=%s, resource=%v not found", kind, resourceID)
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error: %v", err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) update(ctx context.Context, cfg *domain.ScheduleConfig, req *models.UpsertScheduleRequest) (*models.ScheduleResponse, error) {
	cfg.OpenHour = req.OpenHour
	cfg.CloseHour = req.CloseHour
	cfg.SlotStepMinutes = req.SlotStepMinutes
	cfg.UpdatedAt = s.timeProvider.Now()

	if err := s.scheduleRepo.Update(ctx, cfg); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Upsert: repository error for schedule id=%s: %v", cfg.ID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully updated schedule id=%s", cfg.ID)
	return models.FromDomainConfig(cfg), nil
}

// validateScheduleData валидирует параметры расписания
func validateScheduleData(req *models.UpsertScheduleRequest) error {
	if _, err := domain.ParseResourceKind(string(req.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.ResourceID != nil && *req.ResourceID == uuid.Nil {
		return fmt.Errorf("%w: resource_id must not be empty", ErrInvalidInput)
	}
	if req.OpenHour < 0 || req.OpenHour > 23 {
		return fmt.Errorf("%w: open_hour must be between 0 and 23", ErrInvalidInput)
	}
	if req.CloseHour <= req.OpenHour || req.CloseHour > maxCloseHour {
		return fmt.Errorf("%w: close_hour must be after open_hour and at most %d", ErrInvalidInput, maxCloseHour)
	}
	if req.SlotStepMinutes < minSlotStepMinutes || req.SlotStepMinutes > maxSlotStepMinutes {
		return fmt.Errorf("%w: slot_step_minutes must be between %d and %d",
			ErrInvalidInput, minSlotStepMinutes, maxSlotStepMinutes)
	}
	if (req.CloseHour-req.OpenHour)*60 < req.SlotStepMinutes {
		return fmt.Errorf("%w: slot_step_minutes exceeds the operating window", ErrInvalidInput)
	}
	return nil
}
