package models

import (
	"pgme/src/types"

	"github.com/google/uuid"
)

type Payment struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	BookingID *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`

	Amount        float64                 `json:"amount"`
	PaymentMethod types.PaymentMethod     `json:"payment_method"`
	Status        types.TransactionStatus `json:"status"`

	// TransactionID holds the external processor reference, or a cash
	// receipt number. For processor payments it is set only once the
	// payment reached COMPLETED.
	TransactionID string `json:"transaction_id,omitempty"`

	PayerID    string `gorm:"index" json:"payer_id"`
	PayerEmail string `json:"payer_email,omitempty"`
	PayerName  string `json:"payer_name,omitempty"`

	Notes string `json:"notes,omitempty"`

	types.Timestamps
}
