package models

import (
	"pgme/src/types"

	"github.com/google/uuid"
)

type Seeker struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	FullName string `json:"full_name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Phone    string `gorm:"index" json:"phone"`
	Role     string `gorm:"default:seeker" json:"role"`

	DateOfBirth string `json:"date_of_birth,omitempty"`
	Gender      string `json:"gender,omitempty"`
	CurrentCity string `json:"current_city,omitempty"`

	GovtIDType   string `json:"govt_id_type,omitempty"`
	GovtIDNumber string `json:"govt_id_number,omitempty"`

	EmergencyContactName   string `json:"emergency_contact_name,omitempty"`
	EmergencyContactNumber string `json:"emergency_contact_number,omitempty"`

	PreferredLocation string `json:"preferred_location,omitempty"`

	// Occupation block: students fill the college fields, working
	// professionals the company fields.
	OccupationType string `json:"occupation_type,omitempty"`
	CollegeName    string `json:"college_name,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	YearOfStudy    string `json:"year_of_study,omitempty"`
	StudentID      string `json:"student_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	JobRole        string `json:"job_role,omitempty"`
	WorkExperience string `json:"work_experience,omitempty"`

	types.Timestamps
}
