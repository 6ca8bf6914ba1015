package rate_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BeautyBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-BeautyBookingService/internal/api/middleware"
	rateBooking "github.com/m04kA/SMC-BeautyBookingService/internal/usecase/rate_booking"
	"github.com/m04kA/SMC-BeautyBookingService/pkg/logger"
)

type fakeUseCase struct {
	got  *rateBooking.Request
	resp *rateBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(_ context.Context, req *rateBooking.Request) (*rateBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

func rateRequest(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/rate", strings.NewReader(body))
	return req.WithContext(middleware.WithUser(req.Context(), userID, middleware.RoleUser))
}

func TestHandle_Success(t *testing.T) {
	userID := uuid.New()
	bookingID := uuid.New()
	uc := &fakeUseCase{resp: &rateBooking.Response{
		RatingID:      uuid.New(),
		BookingID:     bookingID,
		OverallRating: 4,
		AverageRating: 13.0 / 3.0,
		TotalReviews:  3,
	}}
	rec := httptest.NewRecorder()

	body := fmt.Sprintf(`{"booking_id":%q,"overall_rating":4,"punctuality":5,"is_anonymous":true}`, bookingID)
	NewHandler(uc, logger.Nop()).Handle(rec, rateRequest(userID, body))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, userID, uc.got.UserID)
	assert.Equal(t, bookingID, uc.got.BookingID)
	require.NotNil(t, uc.got.Punctuality)
	assert.Equal(t, 5, *uc.got.Punctuality)
	assert.Nil(t, uc.got.ServiceQuality)
	assert.True(t, uc.got.IsAnonymous)

	var resp RatingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4.33, resp.AverageRating)
	assert.Equal(t, 3, resp.TotalReviews)
}

func TestHandle_Errors(t *testing.T) {
	bookingID := uuid.New()
	validBody := fmt.Sprintf(`{"booking_id":%q,"overall_rating":5}`, bookingID)

	tests := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"bad booking id", `{"booking_id":"1","overall_rating":5}`, nil, http.StatusBadRequest, handlers.CodeValidation},
		{"out of range", validBody, rateBooking.ErrInvalidRatingValue, http.StatusBadRequest, handlers.CodeInvalidRatingValue},
		{"not found", validBody, rateBooking.ErrBookingNotFound, http.StatusNotFound, handlers.CodeNotFound},
		{"not completed", validBody, rateBooking.ErrBookingNotCompleted, http.StatusConflict, handlers.CodeBookingNotCompleted},
		{"already rated", validBody, rateBooking.ErrAlreadyRated, http.StatusConflict, handlers.CodeAlreadyRated},
		{"internal", validBody, rateBooking.ErrInternal, http.StatusInternalServerError, handlers.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			NewHandler(&fakeUseCase{err: tt.err}, logger.Nop()).Handle(rec, rateRequest(uuid.New(), tt.body))

			assert.Equal(t, tt.status, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}
}
