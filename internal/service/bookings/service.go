package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/booking"
	ratingRepo "github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/rating"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	ratingRepo   RatingRepository
	policy       domain.Policy
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	ratingRepo RatingRepository,
	policy domain.Policy,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		ratingRepo:   ratingRepo,
		policy:       policy,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID вместе с последними записями журнала и отзывом.
// Пользователь видит только своё бронирование, оператор - любое.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*models.BookingDetailsResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, viewer.UserID)

	booking, err := s.getVisible(ctx, "GetByID", id, viewer)
	if err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByBooking(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: history error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - history error: %v", ErrInternal, err)
	}

	rating, err := s.ratingRepo.GetByBookingID(ctx, id)
	if err != nil && !errors.Is(err, ratingRepo.ErrRatingNotFound) {
		s.logger.Error("GetByID: rating error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - rating error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	resp := &models.BookingDetailsResponse{
		BookingResponse: *models.FromDomainBooking(booking),
		IsActive:        booking.IsActive(),
		CanCancel:       s.policy.CanCancel(booking, now),
		CanReschedule:   s.policy.CanReschedule(booking, now),
		History:         models.FromDomainHistory(latest(entries, s.policy.HistoryPreview)),
		Rating:          models.FromDomainRating(rating),
	}

	s.logger.Info("GetByID: successfully fetched booking %s", booking.BookingNumber)
	return resp, nil
}

// GetHistory возвращает полный журнал бронирования в порядке создания
func (s *Service) GetHistory(ctx context.Context, id uuid.UUID, viewer models.Viewer) (*models.HistoryListResponse, error) {
	s.logger.Info("GetHistory: fetching history of booking id=%s for user=%s", id, viewer.UserID)

	if _, err := s.getVisible(ctx, "GetHistory", id, viewer); err != nil {
		return nil, err
	}

	entries, err := s.historyRepo.ListByBooking(ctx, id)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	return &models.HistoryListResponse{BookingID: id, History: models.FromDomainHistory(entries)}, nil
}

// GetUserBookings получает бронирования пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetStats возвращает количество бронирований пользователя по статусам и сумму завершённых
func (s *Service) GetStats(ctx context.Context, userID uuid.UUID) (*models.StatsResponse, error) {
	s.logger.Info("GetStats: fetching stats for user=%s", userID)

	stats, err := s.bookingRepo.GetStatsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("GetStats: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: GetStats - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainStats(stats), nil
}

// GetResourceBookings получает бронирования ресурса с фильтрацией по периоду и статусу.
// Доступно только операторам, роль проверяется на уровне HTTP.
func (s *Service) GetResourceBookings(ctx context.Context, req *models.GetResourceBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetResourceBookings: fetching bookings for resource=%s", req.Resource)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetResourceBookings: invalid filter for resource=%s: %v", req.Resource, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByResourceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetResourceBookings: repository error for resource=%s: %v", req.Resource, err)
		return nil, fmt.Errorf("%w: GetResourceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetResourceBookings: successfully fetched %d bookings for resource=%s", len(bookings), req.Resource)
	return models.FromDomainBookingList(bookings), nil
}

// getVisible получает бронирование и проверяет, что viewer может его видеть.
// Чужое бронирование неотличимо от несуществующего.
func (s *Service) getVisible(ctx context.Context, op string, id uuid.UUID, viewer models.Viewer) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !viewer.IsOperator && booking.UserID != viewer.UserID {
		s.logger.Warn("%s: user=%s has no access to booking id=%s", op, viewer.UserID, id)
		return nil, ErrBookingNotFound
	}

	return booking, nil
}

// latest возвращает не более limit последних записей, новые первыми
func latest(entries []*domain.HistoryEntry, limit int) []*domain.HistoryEntry {
	n := len(entries)
	if limit > 0 && n > limit {
		n = limit
	}

	result := make([]*domain.HistoryEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(result) < n; i-- {
		result = append(result, entries[i])
	}
	return result
}
