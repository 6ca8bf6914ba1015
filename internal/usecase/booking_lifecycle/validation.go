package booking_lifecycle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

// validateCreateRequest валидирует запрос на создание бронирования
func validateCreateRequest(req *CreateRequest) error {
	if req.UserID == uuid.Nil {
		return fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if req.ServiceID == uuid.Nil || req.Resource.ID == uuid.Nil {
		return fmt.Errorf("%w: service_id and resource_id are required", ErrInvalidInput)
	}
	if _, err := domain.ParseResourceKind(string(req.Resource.Kind)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if req.Date.IsZero() || req.StartTime.IsZero() {
		return fmt.Errorf("%w: scheduled_date and scheduled_time are required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceAddress) == "" {
		return fmt.Errorf("%w: service_address is required", ErrInvalidInput)
	}
	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	if req.CustomerNotes != nil && utf8.RuneCountInString(*req.CustomerNotes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: customer_notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

// validateReason проверяет причину отмены
func validateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}

// validateRescheduleRequest валидирует запрос на перенос
func validateRescheduleRequest(req *RescheduleRequest) error {
	if req.NewDate.IsZero() || req.NewTime.IsZero() {
		return fmt.Errorf("%w: new_date and new_time are required", ErrInvalidInput)
	}
	if req.Reason != nil && utf8.RuneCountInString(*req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	return nil
}
