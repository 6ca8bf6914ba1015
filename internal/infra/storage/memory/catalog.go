package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/internal/infra/storage/catalog"
)

// CatalogRepository in-memory каталог услуг и ресурсов
type CatalogRepository struct {
	store *Store
}

// GetService возвращает услугу для вида ресурса
func (r *CatalogRepository) GetService(ctx context.Context, kind domain.ResourceKind, serviceID, resourceID uuid.UUID) (*domain.Service, error) {
	switch kind {
	case domain.ResourceArtist:
		resourceID = uuid.Nil
	case domain.ResourceServiceOption:
	default:
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnsupportedKind, kind)
	}

	var (
		svc domain.Service
		ok  bool
	)
	r.store.read(func(d *state) {
		svc, ok = d.services[serviceKey{kind: kind, serviceID: serviceID, resourceID: resourceID}]
	})
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return &svc, nil
}

// GetResource получает ресурс с агрегатами
func (r *CatalogRepository) GetResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error) {
	var (
		res domain.Resource
		ok  bool
	)
	r.store.read(func(d *state) { res, ok = d.resources[ref] })
	if !ok {
		return nil, catalog.ErrResourceNotFound
	}
	return &res, nil
}

// LockResource получает ресурс. Блокировку обеспечивает транзакция хранилища.
func (r *CatalogRepository) LockResource(ctx context.Context, ref domain.ResourceRef) (*domain.Resource, error) {
	return r.GetResource(ctx, ref)
}

// IncrementTotalBookings увеличивает счётчик бронирований ресурса
func (r *CatalogRepository) IncrementTotalBookings(ctx context.Context, ref domain.ResourceRef) error {
	return r.update(ref, func(res *domain.Resource) {
		res.TotalBookings++
	})
}

// UpdateRatingAggregate записывает среднюю оценку и количество отзывов
func (r *CatalogRepository) UpdateRatingAggregate(ctx context.Context, ref domain.ResourceRef, agg domain.RatingAggregate) error {
	return r.update(ref, func(res *domain.Resource) {
		res.AverageRating = agg.AverageRating
		res.TotalReviews = agg.TotalReviews
	})
}

func (r *CatalogRepository) update(ref domain.ResourceRef, fn func(res *domain.Resource)) error {
	var err error
	r.store.write(func(d *state) {
		res, ok := d.resources[ref]
		if !ok {
			err = catalog.ErrResourceNotFound
			return
		}
		fn(&res)
		d.resources[ref] = res
	})
	return err
}
