package models

import (
	"pgme/src/types"

	"github.com/google/uuid"
)

type Provider struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	FullName string `json:"full_name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Phone    string `gorm:"index" json:"phone"`
	Role     string `gorm:"default:provider" json:"role"`

	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	CurrentCity string `json:"current_city,omitempty"`

	GovtIDType   string `json:"govt_id_type,omitempty"`
	GovtIDNumber string `json:"govt_id_number,omitempty"`

	CurrentAddress string `json:"current_address,omitempty"`

	types.Timestamps
}
