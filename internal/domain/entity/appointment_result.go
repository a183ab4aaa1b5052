package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentResult is the staff-written outcome of a completed visit.
// At most one result exists per appointment (unique appointment_id).
type AppointmentResult struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"appointment_id"`
	Diagnosis       string    `gorm:"type:text;not null" json:"diagnosis"`
	Recommendations string    `gorm:"type:text;not null" json:"recommendations"`
	Prescription    string    `gorm:"type:text" json:"prescription,omitempty"`
	FilePath        string    `gorm:"type:varchar(512)" json:"file_path,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"appointment,omitempty"`
}

func (AppointmentResult) TableName() string {
	return "appointment_results"
}
