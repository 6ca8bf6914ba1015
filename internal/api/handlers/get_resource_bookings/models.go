package get_resource_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из path и query параметров
func ToServiceRequest(
	kindStr string,
	resourceID uuid.UUID,
	startDateStr string,
	endDateStr string,
	statusStr string,
	includeInactiveStr string,
) (*models.GetResourceBookingsRequest, error) {
	kind, err := domain.ParseResourceKind(kindStr)
	if err != nil {
		return nil, err
	}

	req := &models.GetResourceBookingsRequest{
		Resource:        domain.ResourceRef{Kind: kind, ID: resourceID},
		IncludeInactive: false, // По умолчанию только активные
	}

	if startDateStr != "" {
		date, err := time.Parse(domain.DateFormat, startDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		req.StartDate = &date
	}

	if endDateStr != "" {
		date, err := time.Parse(domain.DateFormat, endDateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		req.EndDate = &date
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
