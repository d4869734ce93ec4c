package payment

import (
	"fmt"
	"time"
)

type ConfirmPaymentRequest struct {
	ParcelID      string     `json:"parcel_id" validate:"required"`
	Email         string     `json:"email" validate:"required"`
	TransactionID string     `json:"transaction_id" validate:"required"`
	Amount        float64    `json:"amount" validate:"required"`
	PaymentMethod string     `json:"payment_method"`
	PaidAt        *time.Time `json:"paid_at"`
}

// Validate validates the ConfirmPaymentRequest fields
func (r *ConfirmPaymentRequest) Validate() error {
	if r.ParcelID == "" {
		return fmt.Errorf("parcel_id is required")
	}

	if r.Email == "" {
		return fmt.Errorf("email is required")
	}

	if r.TransactionID == "" {
		return fmt.Errorf("transaction_id is required")
	}

	if r.Amount <= 0 {
		return fmt.Errorf("amount must be greater than zero")
	}

	return nil
}

type CreateIntentRequest struct {
	AmountInCents int64 `json:"amountInCents" validate:"required"`
}

// Validate validates the CreateIntentRequest fields
func (r *CreateIntentRequest) Validate() error {
	if r.AmountInCents <= 0 {
		return fmt.Errorf("amountInCents must be greater than zero")
	}

	return nil
}
