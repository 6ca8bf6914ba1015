package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// CreateBookingRequest HTTP request model.
// Для мастера достаточно artist_id, для опции услуги - resource_id и resource_kind=service_option.
type CreateBookingRequest struct {
	ServiceID      string   `json:"service_id" validate:"required,uuid"`
	ArtistID       string   `json:"artist_id" validate:"required_without=ResourceID,omitempty,uuid"`
	ResourceID     string   `json:"resource_id" validate:"required_without=ArtistID,omitempty,uuid"`
	ResourceKind   string   `json:"resource_kind" validate:"omitempty,oneof=artist service_option"`
	ScheduledDate  string   `json:"scheduled_date" validate:"required,datetime=2006-01-02"`
	ScheduledTime  string   `json:"scheduled_time" validate:"required"`
	ServiceAddress string   `json:"service_address" validate:"required,max=500"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	CustomerNotes  *string  `json:"customer_notes" validate:"omitempty,max=1000"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID uuid.UUID) (*lifecycle.CreateRequest, error) {
	serviceID, err := uuid.Parse(r.ServiceID)
	if err != nil {
		return nil, err
	}

	rawResourceID := r.ResourceID
	if rawResourceID == "" {
		rawResourceID = r.ArtistID
	}
	resourceID, err := uuid.Parse(rawResourceID)
	if err != nil {
		return nil, err
	}

	kind := domain.ResourceArtist
	if r.ResourceKind != "" {
		kind, err = domain.ParseResourceKind(r.ResourceKind)
		if err != nil {
			return nil, err
		}
	}

	date, err := time.Parse(domain.DateFormat, r.ScheduledDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.ScheduledTime)
	if err != nil {
		return nil, err
	}

	return &lifecycle.CreateRequest{
		UserID:         userID,
		Resource:       domain.ResourceRef{Kind: kind, ID: resourceID},
		ServiceID:      serviceID,
		Date:           date,
		StartTime:      startTime,
		ServiceAddress: r.ServiceAddress,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		CustomerNotes:  r.CustomerNotes,
	}, nil
}
