package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BeautyBookingService/internal/domain"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/types"
)

// Request модель запроса на получение слотов дня
type Request struct {
	Resource  domain.ResourceRef
	Date      time.Time  // Дата (без времени)
	ServiceID *uuid.UUID // Если указан, длительность слота равна длительности услуги
}

// Response модель ответа со слотами дня
type Response struct {
	Resource        domain.ResourceRef
	Date            time.Time
	IsAvailable     bool             // Флаг доступности ресурса в каталоге
	Opens           types.TimeString // Начало рабочего окна
	Closes          types.TimeString // Конец рабочего окна
	DurationMinutes int              // Длительность слота
	Available       []domain.Slot    // Свободные слоты, в которые еще можно записаться
	Booked          []domain.Slot    // Слоты, пересекающиеся с активными бронированиями
}
