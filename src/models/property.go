package models

import (
	"time"

	"pgme/src/types"

	"github.com/google/uuid"
)

type Property struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	City        string `gorm:"index" json:"city"`
	Area        string `json:"area,omitempty"`

	Rent         float64          `json:"rent"`
	Rooms        int              `json:"rooms,omitempty"`
	RoomTypes    types.JSONBArray `gorm:"type:jsonb" json:"room_types,omitempty"`
	AreaInSqft   float64          `json:"area_in_sqft,omitempty"`
	Floor        int              `json:"floor,omitempty"`
	TotalFloors  int              `json:"total_floors,omitempty"`
	BuildingAge  int              `json:"building_age,omitempty"`
	BuildingType string           `json:"building_type,omitempty"`

	Deposit      float64 `json:"deposit,omitempty"`
	Maintenance  float64 `json:"maintenance,omitempty"`
	Electricity  float64 `json:"electricity,omitempty"`
	Water        float64 `json:"water,omitempty"`
	Internet     float64 `json:"internet,omitempty"`
	OtherCharges float64 `json:"other_charges,omitempty"`

	MinStay   int              `json:"min_stay,omitempty"`
	MaxStay   int              `json:"max_stay,omitempty"`
	Amenities types.JSONBArray `gorm:"type:jsonb" json:"amenities,omitempty"`
	Rules     types.JSONBArray `gorm:"type:jsonb" json:"rules,omitempty"`

	OwnerID              uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	OwnerName            string    `json:"owner_name"`
	OwnerPhone           string    `json:"owner_phone"`
	OwnerEmail           string    `json:"owner_email,omitempty"`
	PreferredContactTime string    `json:"preferred_contact_time,omitempty"`

	Images types.JSONBArray `gorm:"type:jsonb" json:"images,omitempty"`

	ApprovalStatus  types.ApprovalStatus `gorm:"index" json:"approval_status"`
	ApprovedBy      string               `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time           `json:"approved_at,omitempty"`
	ApprovalNote    string               `json:"approval_note,omitempty"`
	RejectionReason string               `json:"rejection_reason,omitempty"`

	LocationDetails string `json:"location_details,omitempty"`
	Category        string `json:"category,omitempty"`

	types.Timestamps
}
