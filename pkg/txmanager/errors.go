package txmanager

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrSerialization возвращается, когда транзакция проиграла конкурентной транзакции
	// (serialization_failure или deadlock_detected) и её можно повторить
	ErrSerialization = errors.New("txmanager: serialization failure")

	// ErrTransaction возвращается при ошибках открытия или фиксации транзакции
	ErrTransaction = errors.New("txmanager: transaction error")
)

const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsSerializationFailure проверяет, что ошибка вызвана конфликтом сериализации Postgres
func IsSerializationFailure(err error) bool {
	if errors.Is(err, ErrSerialization) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgSerializationFailure || pqErr.Code == pgDeadlockDetected
	}
	return false
}
