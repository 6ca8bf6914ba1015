package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/schedule"
)

// UseCase use case для получения свободных и занятых слотов ресурса на дату
type UseCase struct {
	bookingRepo     BookingRepository
	catalogRepo     CatalogRepository
	scheduleRepo    ScheduleRepository
	cache           SlotCache
	policy          domain.Policy
	defaultSchedule domain.ScheduleConfig
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case.
// defaultSchedule используется, если для ресурса и его вида расписание не задано.
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	scheduleRepo ScheduleRepository,
	cache SlotCache,
	policy domain.Policy,
	defaultSchedule domain.ScheduleConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:     bookingRepo,
		catalogRepo:     catalogRepo,
		scheduleRepo:    scheduleRepo,
		cache:           cache,
		policy:          policy,
		defaultSchedule: defaultSchedule,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: resource=%s, date=%s", req.Resource, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	now := uc.timeProvider.Now()

	// 2. Получаем ресурс
	resource, err := uc.catalogRepo.GetResource(ctx, req.Resource)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrResourceNotFound) {
			uc.logger.Warn("GetAvailableSlots: resource %s not found", req.Resource)
			return nil, ErrResourceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get resource %s: %v", req.Resource, err)
		return nil, fmt.Errorf("%w: failed to get resource: %v", ErrInternal, err)
	}

	// 3. Получаем расписание с учетом иерархии
	schedule, err := uc.resolveSchedule(ctx, req.Resource)
	if err != nil {
		return nil, err
	}

	// 4. Длительность слота: длительность услуги или шаг расписания
	duration := schedule.SlotStepMinutes
	if req.ServiceID != nil {
		service, err := uc.catalogRepo.GetService(ctx, req.Resource.Kind, *req.ServiceID, req.Resource.ID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service %s not found", *req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service %s: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration = service.DurationMinutes
	}

	// 5. Слоты дня: из кэша или из БД
	day, err := uc.daySlots(ctx, req, schedule, duration)
	if err != nil {
		return nil, err
	}

	// 6. Свободные слоты внутри минимального срока записи не показываем
	available := filterBookable(day.Available, req.Date, now, uc.policy)
	if !resource.IsAvailable {
		available = []domain.Slot{}
	}

	uc.logger.Info("GetAvailableSlots: resource=%s, date=%s: %d available, %d booked",
		req.Resource, req.Date.Format(domain.DateFormat), len(available), len(day.Booked))

	return &Response{
		Resource:        req.Resource,
		Date:            req.Date,
		IsAvailable:     resource.IsAvailable,
		Opens:           schedule.Opens(),
		Closes:          schedule.Closes(),
		DurationMinutes: duration,
		Available:       available,
		Booked:          day.Booked,
	}, nil
}

func (uc *UseCase) resolveSchedule(ctx context.Context, ref domain.ResourceRef) (*domain.ScheduleConfig, error) {
	schedule, err := uc.scheduleRepo.GetWithHierarchy(ctx, ref)
	if err == nil {
		return schedule, nil
	}
	if !errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get schedule for %s: %v", ref, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	def := uc.defaultSchedule
	def.Kind = ref.Kind
	return &def, nil
}

func (uc *UseCase) daySlots(ctx context.Context, req *Request, schedule *domain.ScheduleConfig, duration int) (*domain.DaySlots, error) {
	cached, err := uc.cache.Get(ctx, req.Resource, req.Date, duration)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	bookings, err := uc.bookingRepo.GetActiveByResourceAndDate(ctx, req.Resource, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	slots := generateSlots(schedule.Opens(), schedule.Closes(), schedule.SlotStepMinutes, duration)
	day, err := splitSlots(slots, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to split slots: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.cache.Set(ctx, req.Resource, req.Date, duration, day); err != nil {
		uc.logger.Warn("GetAvailableSlots: cache write failed: %v", err)
	}

	return day, nil
}
