package update_booking_status

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status      string  `json:"status" validate:"required,oneof=CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	Reason      *string `json:"reason" validate:"omitempty,max=500"`
	ArtistNotes *string `json:"artist_notes" validate:"omitempty,max=1000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateStatusRequest) ToUseCaseRequest(bookingID, operatorID uuid.UUID) *lifecycle.StatusRequest {
	return &lifecycle.StatusRequest{
		BookingID:   bookingID,
		Actor:       lifecycle.Actor{UserID: operatorID, IsOperator: true},
		Status:      domain.BookingStatus(r.Status),
		Reason:      r.Reason,
		ArtistNotes: r.ArtistNotes,
	}
}
