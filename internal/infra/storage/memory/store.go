// Package memory хранит данные бронирований в памяти процесса.
// Используется при database.driver = "memory" и в тестах usecase.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
)

type serviceKey struct {
	kind       domain.ResourceKind
	serviceID  uuid.UUID
	resourceID uuid.UUID // uuid.Nil для услуг мастеров
}

type scheduleKey struct {
	kind       domain.ResourceKind
	resourceID uuid.UUID // uuid.Nil для расписания вида ресурса
}

// state данные хранилища, копируются целиком для отката транзакции
type state struct {
	bookings  map[uuid.UUID]domain.Booking
	history   []domain.HistoryEntry
	ratings   map[uuid.UUID]domain.Rating // ключ - id бронирования
	services  map[serviceKey]domain.Service
	resources map[domain.ResourceRef]domain.Resource
	schedules map[scheduleKey]domain.ScheduleConfig
}

func newState() *state {
	return &state{
		bookings:  make(map[uuid.UUID]domain.Booking),
		ratings:   make(map[uuid.UUID]domain.Rating),
		services:  make(map[serviceKey]domain.Service),
		resources: make(map[domain.ResourceRef]domain.Resource),
		schedules: make(map[scheduleKey]domain.ScheduleConfig),
	}
}

func (s *state) clone() *state {
	c := &state{
		bookings:  make(map[uuid.UUID]domain.Booking, len(s.bookings)),
		history:   append([]domain.HistoryEntry(nil), s.history...),
		ratings:   make(map[uuid.UUID]domain.Rating, len(s.ratings)),
		services:  make(map[serviceKey]domain.Service, len(s.services)),
		resources: make(map[domain.ResourceRef]domain.Resource, len(s.resources)),
		schedules: make(map[scheduleKey]domain.ScheduleConfig, len(s.schedules)),
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.ratings {
		c.ratings[k] = v
	}
	for k, v := range s.services {
		c.services[k] = v
	}
	for k, v := range s.resources {
		c.resources[k] = v
	}
	for k, v := range s.schedules {
		c.schedules[k] = v
	}
	return c
}

// Store in-memory хранилище.
// Транзакции выполняются строго по одной (txMu), поэтому проверка конфликта
// и вставка бронирования не пересекаются с другими транзакциями.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{data: newState()}
}

// PutService добавляет услугу в каталог.
// Для опции услуги resourceID - id опции, цена и длительность берутся у опции.
// Для мастера resourceID = uuid.Nil.
func (s *Store) PutService(kind domain.ResourceKind, resourceID uuid.UUID, svc domain.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == domain.ResourceArtist {
		resourceID = uuid.Nil
	}
	s.data.services[serviceKey{kind: kind, serviceID: svc.ID, resourceID: resourceID}] = svc
}

// PutResource добавляет мастера или опцию услуги в каталог
func (s *Store) PutResource(res domain.Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.resources[res.Ref] = res
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// History возвращает репозиторий истории бронирований
func (s *Store) History() *HistoryRepository {
	return &HistoryRepository{store: s}
}

// Ratings возвращает репозиторий отзывов
func (s *Store) Ratings() *RatingRepository {
	return &RatingRepository{store: s}
}

// Catalog возвращает репозиторий каталога
func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

// Schedules возвращает репозиторий расписаний
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{store: s}
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

func (s *Store) write(fn func(d *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
