package rate_booking

import (
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	rateBooking "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/rate_booking"
)

// RateBookingRequest HTTP request model.
// Диапазон оценок проверяет use case, чтобы вернуть invalid_rating_value.
type RateBookingRequest struct {
	BookingID       string  `json:"booking_id" validate:"required,uuid"`
	OverallRating   int     `json:"overall_rating"`
	ServiceQuality  *int    `json:"service_quality"`
	Punctuality     *int    `json:"punctuality"`
	Professionalism *int    `json:"professionalism"`
	ReviewText      *string `json:"review_text" validate:"omitempty,max=2000"`
	IsAnonymous     bool    `json:"is_anonymous"`
}

// RatingResponse HTTP response model
type RatingResponse struct {
	RatingID      uuid.UUID `json:"rating_id"`
	BookingID     uuid.UUID `json:"booking_id"`
	OverallRating int       `json:"overall_rating"`
	AverageRating float64   `json:"resource_average_rating"`
	TotalReviews  int       `json:"resource_total_reviews"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RateBookingRequest) ToUseCaseRequest(userID uuid.UUID) (*rateBooking.Request, error) {
	bookingID, err := uuid.Parse(r.BookingID)
	if err != nil {
		return nil, err
	}

	return &rateBooking.Request{
		BookingID:       bookingID,
		UserID:          userID,
		OverallRating:   r.OverallRating,
		ServiceQuality:  r.ServiceQuality,
		Punctuality:     r.Punctuality,
		Professionalism: r.Professionalism,
		ReviewText:      r.ReviewText,
		IsAnonymous:     r.IsAnonymous,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rateBooking.Response) *RatingResponse {
	return &RatingResponse{
		RatingID:      resp.RatingID,
		BookingID:     resp.BookingID,
		OverallRating: resp.OverallRating,
		AverageRating: domain.RoundRating(resp.AverageRating),
		TotalReviews:  resp.TotalReviews,
	}
}
