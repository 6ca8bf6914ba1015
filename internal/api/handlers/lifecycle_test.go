package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lifecycle "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/booking_lifecycle"
)

func TestRespondLifecycleError(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		code     string
		business bool
	}{
		{lifecycle.ErrInvalidInput, http.StatusBadRequest, CodeValidation, true},
		{lifecycle.ErrBookingNotFound, http.StatusNotFound, CodeNotFound, true},
		{lifecycle.ErrLeadTimeViolation, http.StatusUnprocessableEntity, CodeLeadTimeViolation, true},
		{lifecycle.ErrResourceUnavailable, http.StatusUnprocessableEntity, CodeResourceUnavailable, true},
		{lifecycle.ErrSlotConflict, http.StatusConflict, CodeSlotConflict, true},
		{lifecycle.ErrNotCancellable, http.StatusConflict, CodeNotCancellable, true},
		{lifecycle.ErrNotReschedulable, http.StatusConflict, CodeNotReschedulable, true},
		{lifecycle.ErrPaymentState, http.StatusConflict, CodeInvalidTransition, true},
		{lifecycle.ErrInternal, http.StatusInternalServerError, CodeInternal, false},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			wrapped := fmt.Errorf("%w: Op - detail", tt.err)

			assert.Equal(t, tt.business, RespondLifecycleError(rec, wrapped))
			assert.Equal(t, tt.status, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondLifecycleError_InternalHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondLifecycleError(rec, fmt.Errorf("%w: CreateBooking - repository error: pq: connection refused", lifecycle.ErrInternal))

	assert.NotContains(t, rec.Body.String(), "pq")
}
