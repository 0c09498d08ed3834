package models

import (
	"pgme/src/types"

	"github.com/google/uuid"
)

type Admin struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	FullName string `json:"full_name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"default:admin" json:"role"`

	types.Timestamps
}
