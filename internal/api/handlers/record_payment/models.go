package record_payment

// RecordPaymentRequest HTTP request model
type RecordPaymentRequest struct {
	PaymentMethod string  `json:"payment_method" validate:"required,max=50"`
	TransactionID *string `json:"transaction_id" validate:"omitempty,max=100"`
}
