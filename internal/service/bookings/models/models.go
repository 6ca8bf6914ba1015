package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// Request модели

// Viewer пользователь, запрашивающий данные
type Viewer struct {
	UserID     uuid.UUID
	IsOperator bool
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID uuid.UUID
	Status *string
}

// GetResourceBookingsRequest запрос оператора на получение бронирований ресурса
type GetResourceBookingsRequest struct {
	Resource        domain.ResourceRef
	StartDate       *time.Time // Начало периода (опционально)
	EndDate         *time.Time // Конец периода (опционально)
	Status          *string    // Фильтр по статусу (опционально)
	IncludeInactive bool       // Включить завершённые и отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetResourceBookingsRequest) ToDomainFilter() (domain.ResourceBookingsFilter, error) {
	filter := domain.ResourceBookingsFilter{
		Resource:        r.Resource,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	BookingNumber   string    `json:"booking_number"`
	UserID          uuid.UUID `json:"user_id"`
	ResourceKind    string    `json:"resource_kind"`
	ResourceID      uuid.UUID `json:"resource_id"`
	ServiceID       uuid.UUID `json:"service_id"`
	ScheduledDate   string    `json:"scheduled_date"` // "2025-10-15"
	ScheduledTime   string    `json:"scheduled_time"` // "10:00"
	DurationMinutes int       `json:"duration_minutes"`

	// Снимок цены на момент создания
	ServiceName       string `json:"service_name"`
	ServicePrice      int64  `json:"service_price"`
	AdditionalCharges int64  `json:"additional_charges"`
	Discount          int64  `json:"discount"`
	TotalAmount       int64  `json:"total_amount"`

	Status        string  `json:"status"`
	PaymentStatus string  `json:"payment_status"`
	PaymentMethod *string `json:"payment_method,omitempty"`

	ServiceAddress string   `json:"service_address"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	CustomerNotes  *string  `json:"customer_notes,omitempty"`
	ArtistNotes    *string  `json:"artist_notes,omitempty"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`
	RefundRequested    bool    `json:"refund_requested"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HistoryEntryResponse запись журнала бронирования
type HistoryEntryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Action      string     `json:"action"`
	Description string     `json:"description"`
	PerformedBy *uuid.UUID `json:"performed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RatingResponse отзыв на бронирование
type RatingResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"` // Скрыт для анонимных отзывов
	OverallRating   int        `json:"overall_rating"`
	ServiceQuality  *int       `json:"service_quality,omitempty"`
	Punctuality     *int       `json:"punctuality,omitempty"`
	Professionalism *int       `json:"professionalism,omitempty"`
	ReviewText      *string    `json:"review_text,omitempty"`
	IsAnonymous     bool       `json:"is_anonymous"`
	CreatedAt       time.Time  `json:"created_at"`
}

// BookingDetailsResponse бронирование с журналом, отзывом и доступными действиями
type BookingDetailsResponse struct {
	BookingResponse
	IsActive      bool                   `json:"is_active"`
	CanCancel     bool                   `json:"can_cancel"`
	CanReschedule bool                   `json:"can_reschedule"`
	History       []HistoryEntryResponse `json:"history"`
	Rating        *RatingResponse        `json:"rating,omitempty"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryListResponse полный журнал бронирования
type HistoryListResponse struct {
	BookingID uuid.UUID              `json:"booking_id"`
	History   []HistoryEntryResponse `json:"history"`
}

// StatsResponse статистика бронирований пользователя
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	TotalSpent int64          `json:"total_spent"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		UserID:             b.UserID,
		ResourceKind:       string(b.Resource.Kind),
		ResourceID:         b.Resource.ID,
		ServiceID:          b.ServiceID,
		ScheduledDate:      b.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:      b.ScheduledTime.String(),
		DurationMinutes:    b.DurationMinutes,
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		AdditionalCharges:  b.AdditionalCharges,
		Discount:           b.Discount,
		TotalAmount:        b.TotalAmount,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		PaymentMethod:      b.PaymentMethod,
		ServiceAddress:     b.ServiceAddress,
		Latitude:           b.Latitude,
		Longitude:          b.Longitude,
		CustomerNotes:      b.CustomerNotes,
		ArtistNotes:        b.ArtistNotes,
		CancellationReason: b.CancellationReason,
		RefundRequested:    b.RefundRequested,
		ConfirmedAt:        b.ConfirmedAt,
		CancelledAt:        b.CancelledAt,
		CompletedAt:        b.CompletedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainHistory конвертирует записи журнала в DTO
func FromDomainHistory(entries []*domain.HistoryEntry) []HistoryEntryResponse {
	resp := make([]HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, HistoryEntryResponse{
			ID:          e.ID,
			Action:      string(e.Action),
			Description: e.Description,
			PerformedBy: e.PerformedBy,
			CreatedAt:   e.CreatedAt,
		})
	}
	return resp
}

// FromDomainRating конвертирует отзыв в DTO
func FromDomainRating(r *domain.Rating) *RatingResponse {
	if r == nil {
		return nil
	}

	resp := &RatingResponse{
		ID:              r.ID,
		OverallRating:   r.OverallRating,
		ServiceQuality:  r.ServiceQuality,
		Punctuality:     r.Punctuality,
		Professionalism: r.Professionalism,
		ReviewText:      r.ReviewText,
		IsAnonymous:     r.IsAnonymous,
		CreatedAt:       r.CreatedAt,
	}
	if !r.IsAnonymous {
		userID := r.UserID
		resp.UserID = &userID
	}
	return resp
}

// FromDomainStats конвертирует статистику в DTO
func FromDomainStats(s *domain.BookingStats) *StatsResponse {
	resp := &StatsResponse{
		Total:      s.Total,
		ByStatus:   make(map[string]int, len(s.ByStatus)),
		TotalSpent: s.TotalSpent,
	}
	for status, count := range s.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	return resp
}
