package rate_booking

import "github.com/google/uuid"

// Request запрос на оценку бронирования
type Request struct {
	BookingID       uuid.UUID
	UserID          uuid.UUID
	OverallRating   int
	ServiceQuality  *int
	Punctuality     *int
	Professionalism *int
	ReviewText      *string
	IsAnonymous     bool
}

// Response результат оценки вместе с обновленным агрегатом ресурса
type Response struct {
	RatingID      uuid.UUID
	BookingID     uuid.UUID
	OverallRating int
	AverageRating float64
	TotalReviews  int
}
