package cancel_booking

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason          string `json:"reason" validate:"required,max=500"`
	RefundRequested *bool  `json:"refund_requested"` // По умолчанию true
}

// WantsRefund возвращает refund_requested с учетом значения по умолчанию
func (r *CancelBookingRequest) WantsRefund() bool {
	if r.RefundRequested == nil {
		return true
	}
	return *r.RefundRequested
}
