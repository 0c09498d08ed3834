package models

import (
	"time"

	"pgme/src/types"

	"github.com/google/uuid"
)

type Booking struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	PropertyID uuid.UUID `gorm:"type:uuid;index" json:"property_id"`
	SeekerID   uuid.UUID `gorm:"type:uuid;index" json:"seeker_id"`

	CheckInDate    time.Time `json:"check_in_date"`
	CheckOutDate   time.Time `json:"check_out_date"`
	NumberOfGuests int       `json:"number_of_guests"`
	TotalAmount    float64   `json:"total_amount"`

	Status        types.BookingStatus `json:"status"`
	PaymentStatus types.PaymentStatus `json:"payment_status"`
	// PaymentMethod is fixed at creation and never changes afterwards.
	PaymentMethod types.PaymentMethod `json:"payment_method"`
	PaymentID     *uuid.UUID          `gorm:"type:uuid" json:"payment_id,omitempty"`

	Notes string `json:"notes,omitempty"`

	// Populated on read from the referenced records, never persisted here.
	Property *Property `gorm:"-" json:"property,omitempty"`
	Seeker   *Seeker   `gorm:"-" json:"seeker,omitempty"`

	types.Timestamps
}
