package handlers

import (
	"errors"
	"net/http"

	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

type lifecycleMapping struct {
	err     error
	status  int
	code    string
	message string
}

var lifecycleErrors = []lifecycleMapping{
	{lifecycle.ErrInvalidInput, http.StatusBadRequest, CodeValidation, ""},
	{lifecycle.ErrBookingNotFound, http.StatusNotFound, CodeNotFound, "бронирование не найдено"},
	{lifecycle.ErrServiceNotFound, http.StatusNotFound, CodeNotFound, "услуга не найдена"},
	{lifecycle.ErrResourceNotFound, http.StatusNotFound, CodeNotFound, "мастер или опция услуги не найдены"},
	{lifecycle.ErrServiceUnavailable, http.StatusUnprocessableEntity, CodeServiceUnavailable, "услуга недоступна для записи"},
	{lifecycle.ErrResourceUnavailable, http.StatusUnprocessableEntity, CodeResourceUnavailable, "мастер недоступен для записи"},
	{lifecycle.ErrLeadTimeViolation, http.StatusUnprocessableEntity, CodeLeadTimeViolation, ""},
	{lifecycle.ErrSlotConflict, http.StatusConflict, CodeSlotConflict, "выбранное время уже занято"},
	{lifecycle.ErrNotCancellable, http.StatusConflict, CodeNotCancellable, ""},
	{lifecycle.ErrNotReschedulable, http.StatusConflict, CodeNotReschedulable, ""},
	{lifecycle.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition, ""},
	{lifecycle.ErrPaymentState, http.StatusConflict, CodeInvalidTransition, ""},
	{lifecycle.ErrConflict, http.StatusConflict, CodeConflict, "бронирование изменено параллельно, повторите запрос"},
}

// RespondLifecycleError отправляет ответ для ошибки менеджера жизненного цикла.
// Пустое сообщение в таблице означает, что клиенту уходит текст самой ошибки.
// Возвращает false для внутренних ошибок, их вызывающий логирует как Error.
func RespondLifecycleError(w http.ResponseWriter, err error) bool {
	for _, m := range lifecycleErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		RespondError(w, m.status, m.code, message)
		return true
	}

	RespondInternalError(w)
	return false
}
