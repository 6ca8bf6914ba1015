package reschedule_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewDate string  `json:"new_date" validate:"required,datetime=2006-01-02"`
	NewTime string  `json:"new_time" validate:"required"`
	Reason  *string `json:"reason" validate:"omitempty,max=500"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleBookingRequest) ToUseCaseRequest(bookingID, userID uuid.UUID) (*lifecycle.RescheduleRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.NewDate)
	if err != nil {
		return nil, err
	}

	newTime, err := types.NewTimeStringFromString(r.NewTime)
	if err != nil {
		return nil, err
	}

	return &lifecycle.RescheduleRequest{
		BookingID: bookingID,
		Actor:     lifecycle.Actor{UserID: userID},
		NewDate:   date,
		NewTime:   newTime,
		Reason:    r.Reason,
	}, nil
}
