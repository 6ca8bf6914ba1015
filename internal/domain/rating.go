package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is the single post-completion review of a booking
type Rating struct {
	ID              uuid.UUID
	BookingID       uuid.UUID
	UserID          uuid.UUID
	OverallRating   int
	ServiceQuality  *int
	Punctuality     *int
	Professionalism *int
	ReviewText      *string
	IsAnonymous     bool
	CreatedAt       time.Time
}

// IsValidScore reports whether v is within the rating scale
func IsValidScore(v int) bool {
	return v >= MinRating && v <= MaxRating
}

// RatingAggregate is the recomputed rating summary of a resource
type RatingAggregate struct {
	AverageRating float64
	TotalReviews  int
}

// RoundRating rounds an average to two decimals for display
func RoundRating(avg float64) float64 {
	return math.Round(avg*100) / 100
}
