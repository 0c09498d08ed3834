package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type JSONB map[string]any
type JSONBArray []any

func (a JSONB) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONB) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

func (a JSONBArray) Value() (driver.Value, error) {
	valueString, err := json.Marshal(a)
	return string(valueString), err
}
func (a *JSONBArray) Scan(value any) error {
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	return nil
}

type BookingStatus string

const (
	BOOKING_PENDING   BookingStatus = "PENDING"
	BOOKING_CONFIRMED BookingStatus = "CONFIRMED"
	BOOKING_CANCELLED BookingStatus = "CANCELLED"
	BOOKING_COMPLETED BookingStatus = "COMPLETED"
)

// PaymentStatus tracks settlement on the booking itself.
type PaymentStatus string

const (
	PAYMENT_PENDING  PaymentStatus = "PENDING"
	PAYMENT_PAID     PaymentStatus = "PAID"
	PAYMENT_FAILED   PaymentStatus = "FAILED"
	PAYMENT_REFUNDED PaymentStatus = "REFUNDED"
)

// TransactionStatus tracks an individual payment attempt record.
type TransactionStatus string

const (
	TRANSACTION_PENDING   TransactionStatus = "PENDING"
	TRANSACTION_COMPLETED TransactionStatus = "COMPLETED"
	TRANSACTION_FAILED    TransactionStatus = "FAILED"
	TRANSACTION_REFUNDED  TransactionStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PAYMENT_METHOD_CASH   PaymentMethod = "CASH"
	PAYMENT_METHOD_PAYPAL PaymentMethod = "PAYPAL"
)

type ApprovalStatus string

const (
	APPROVAL_PENDING  ApprovalStatus = "PENDING"
	APPROVAL_APPROVED ApprovalStatus = "APPROVED"
	APPROVAL_REJECTED ApprovalStatus = "REJECTED"
)

const (
	ROLE_ADMIN    string = "admin"
	ROLE_SEEKER   string = "seeker"
	ROLE_PROVIDER string = "provider"
)

type CreateBookingRequestBody struct {
	PropertyID     string  `json:"property_id" binding:"required,uuid"`
	SeekerID       string  `json:"seeker_id" binding:"required,uuid"`
	CheckInDate    string  `json:"check_in_date" binding:"required,staydate"`
	CheckOutDate   string  `json:"check_out_date" binding:"required,staydate,gtdate=CheckInDate"`
	NumberOfGuests int     `json:"number_of_guests" binding:"required"`
	TotalAmount    float64 `json:"total_amount" binding:"required"`
	PaymentMethod  string  `json:"payment_method" binding:"required,oneof=CASH PAYPAL"`
	Notes          string  `json:"notes,omitempty"`
}

type CreatePaymentRequestBody struct {
	BookingID     string  `json:"booking_id" binding:"required,uuid"`
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=CASH PAYPAL"`
	PayerID       string  `json:"payer_id" binding:"required,uuid"`
	PayerEmail    string  `json:"payer_email,omitempty"`
	PayerName     string  `json:"payer_name,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

type CreatePayPalPaymentRequestBody struct {
	BookingID   string `json:"booking_id,omitempty"`
	Amount      string `json:"amount" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
	Description string `json:"description" binding:"required"`
	ReturnURL   string `json:"return_url" binding:"required"`
	CancelURL   string `json:"cancel_url" binding:"required"`
}

type CreatePropertyRequestBody struct {
	Name                 string   `json:"name" binding:"required"`
	Description          string   `json:"description,omitempty"`
	City                 string   `json:"city" binding:"required"`
	Area                 string   `json:"area,omitempty"`
	Rent                 float64  `json:"rent" binding:"required"`
	Rooms                int      `json:"rooms,omitempty"`
	RoomTypes            []string `json:"room_types,omitempty"`
	AreaInSqft           float64  `json:"area_in_sqft,omitempty"`
	Floor                int      `json:"floor,omitempty"`
	TotalFloors          int      `json:"total_floors,omitempty"`
	BuildingType         string   `json:"building_type,omitempty"`
	Deposit              float64  `json:"deposit,omitempty"`
	Maintenance          float64  `json:"maintenance,omitempty"`
	OtherCharges         float64  `json:"other_charges,omitempty"`
	MinStay              int      `json:"min_stay,omitempty"`
	MaxStay              int      `json:"max_stay,omitempty"`
	Amenities            []string `json:"amenities,omitempty"`
	Rules                []string `json:"rules,omitempty"`
	OwnerID              string   `json:"owner_id" binding:"required,uuid"`
	OwnerName            string   `json:"owner_name" binding:"required"`
	OwnerPhone           string   `json:"owner_phone" binding:"required"`
	OwnerEmail           string   `json:"owner_email,omitempty"`
	PreferredContactTime string   `json:"preferred_contact_time,omitempty"`
	LocationDetails      string   `json:"location_details,omitempty"`
	Category             string   `json:"category,omitempty"`
}

type PropertyQueryFilters struct {
	City         string  `form:"city"`
	Area         string  `form:"area"`
	BuildingType string  `form:"building_type"`
	Category     string  `form:"category"`
	MinRent      float64 `form:"min_rent"`
	MaxRent      float64 `form:"max_rent"`
}

type RegisterSeekerRequestBody struct {
	FullName               string `json:"full_name" binding:"required"`
	Email                  string `json:"email" binding:"required,email"`
	Password               string `json:"password" binding:"required,min=6"`
	Phone                  string `json:"phone" binding:"required,len=10,numeric"`
	DateOfBirth            string `json:"date_of_birth,omitempty"`
	Gender                 string `json:"gender,omitempty"`
	CurrentCity            string `json:"current_city,omitempty"`
	GovtIDType             string `json:"govt_id_type,omitempty"`
	GovtIDNumber           string `json:"govt_id_number,omitempty"`
	EmergencyContactName   string `json:"emergency_contact_name,omitempty"`
	EmergencyContactNumber string `json:"emergency_contact_number,omitempty"`
	PreferredLocation      string `json:"preferred_location,omitempty"`
	OccupationType         string `json:"occupation_type,omitempty"`
	CollegeName            string `json:"college_name,omitempty"`
	CompanyName            string `json:"company_name,omitempty"`
}

type RegisterProviderRequestBody struct {
	FullName       string `json:"full_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Phone          string `json:"phone" binding:"required,len=10,numeric"`
	DateOfBirth    string `json:"date_of_birth,omitempty"`
	Gender         string `json:"gender,omitempty"`
	CurrentCity    string `json:"current_city,omitempty"`
	GovtIDType     string `json:"govt_id_type,omitempty"`
	GovtIDNumber   string `json:"govt_id_number,omitempty"`
	CurrentAddress string `json:"current_address,omitempty"`
}

type LoginRequestBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     string `json:"role"`
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

type ApprovePropertyRequestBody struct {
	ApprovalNote string `json:"approval_note,omitempty"`
}

type RejectPropertyRequestBody struct {
	RejectionReason string `json:"rejection_reason" binding:"required"`
}

type SimpleRequestParams struct {
	ID string `uri:"id" binding:"required,uuid"`
}

const DATE_PARSE_FORMAT = "2006-01-02"
