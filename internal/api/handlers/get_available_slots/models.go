package get_available_slots

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/usecase/availability"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ResourceKind    string        `json:"resource_kind"`
	ResourceID      uuid.UUID     `json:"resource_id"`
	Date            string        `json:"date"`
	IsAvailable     bool          `json:"is_available"`
	Opens           string        `json:"opens"`
	Closes          string        `json:"closes"`
	DurationMinutes int           `json:"duration_minutes"`
	AvailableSlots  []domain.Slot `json:"available_slots"`
	BookedSlots     []domain.Slot `json:"booked_slots"`
}

// ToUseCaseRequest формирует запрос к use case из параметров пути и query
func ToUseCaseRequest(kind domain.ResourceKind, resourceID uuid.UUID, dateStr, serviceIDStr string) (*availability.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &availability.Request{
		Resource: domain.ResourceRef{Kind: kind, ID: resourceID},
		Date:     date,
	}

	if serviceIDStr != "" {
		serviceID, err := uuid.Parse(serviceIDStr)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *availability.Response) *SlotsResponse {
	result := &SlotsResponse{
		ResourceKind:    string(resp.Resource.Kind),
		ResourceID:      resp.Resource.ID,
		Date:            resp.Date.Format(domain.DateFormat),
		IsAvailable:     resp.IsAvailable,
		Opens:           resp.Opens.String(),
		Closes:          resp.Closes.String(),
		DurationMinutes: resp.DurationMinutes,
		AvailableSlots:  resp.Available,
		BookedSlots:     resp.Booked,
	}
	if result.AvailableSlots == nil {
		result.AvailableSlots = []domain.Slot{}
	}
	if result.BookedSlots == nil {
		result.BookedSlots = []domain.Slot{}
	}
	return result
}
