package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ResourceKind distinguishes the two bookable product lines.
// Each kind has its own conflict namespace.
type ResourceKind string

const (
	ResourceArtist        ResourceKind = "artist"
	ResourceServiceOption ResourceKind = "service_option"
)

// ErrUnknownResourceKind is returned for an unsupported resource kind
var ErrUnknownResourceKind = errors.New("domain: unknown resource kind")

// ParseResourceKind validates a resource kind string
func ParseResourceKind(s string) (ResourceKind, error) {
	switch ResourceKind(s) {
	case ResourceArtist, ResourceServiceOption:
		return ResourceKind(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownResourceKind, s)
	}
}

// ResourceRef identifies a bookable resource
type ResourceRef struct {
	Kind ResourceKind
	ID   uuid.UUID
}

func (r ResourceRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

// Resource is the bookable capacity unit with its aggregates
type Resource struct {
	Ref           ResourceRef
	Name          string
	IsAvailable   bool
	TotalBookings int
	AverageRating float64
	TotalReviews  int
}

// Service is the bookable offering as seen at booking time.
// For service options Price and DurationMinutes come from the option itself.
type Service struct {
	ID              uuid.UUID
	Name            string
	DurationMinutes int
	Price           int64
	IsActive        bool
}
