package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	ServiceID    uuid.UUID `json:"service_id" validate:"required"`
	Date         string    `json:"date" validate:"required"`
	TimeSlot     string    `json:"time_slot" validate:"required"`
	PatientName  string    `json:"patient_name" validate:"max=255"`
	PatientPhone string    `json:"patient_phone" validate:"max=20"`
	PatientEmail string    `json:"patient_email" validate:"omitempty,email"`
	PatientAge   *int      `json:"patient_age" validate:"omitempty,gte=0,lte=150"`
	Comments     string    `json:"comments" validate:"max=2000"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"max=2000"`
}

type AppointmentFilterRequest struct {
	DateFrom    string `json:"date_from"`
	DateTo      string `json:"date_to"`
	Status      string `json:"status"`
	PatientName string `json:"patient_name"`
}

type AttachResultRequest struct {
	Diagnosis       string `json:"diagnosis" validate:"required"`
	Recommendations string `json:"recommendations" validate:"required"`
	Prescription    string `json:"prescription"`
	FilePath        string `json:"file_path" validate:"max=512"`
}

type UpdateResultRequest struct {
	Diagnosis       string `json:"diagnosis" validate:"required"`
	Recommendations string `json:"recommendations" validate:"required"`
	Prescription    string `json:"prescription"`
	FilePath        string `json:"file_path" validate:"max=512"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uuid.UUID        `json:"id"`
	UserID       *uuid.UUID       `json:"user_id,omitempty"`
	ServiceID    uuid.UUID        `json:"service_id"`
	Date         string           `json:"date"`
	TimeSlot     string           `json:"time_slot"`
	TimeRange    string           `json:"time_range"`
	Status       string           `json:"status"`
	StatusColor  string           `json:"status_color"`
	PatientName  string           `json:"patient_name"`
	PatientPhone string           `json:"patient_phone"`
	PatientEmail string           `json:"patient_email,omitempty"`
	PatientAge   *int             `json:"patient_age,omitempty"`
	Comments     string           `json:"comments,omitempty"`
	AdminNotes   string           `json:"admin_notes,omitempty"`
	Service      *ServiceResponse `json:"service,omitempty"`
	Result       *ResultResponse  `json:"result,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
	Upcoming     int                   `json:"upcoming"`
	Completed    int                   `json:"completed"`
}

type SlotResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AvailableSlotsResponse struct {
	Date           string         `json:"date"`
	AvailableSlots []SlotResponse `json:"available_slots"`
}

type ResultResponse struct {
	ID              uuid.UUID `json:"id"`
	AppointmentID   uuid.UUID `json:"appointment_id"`
	Diagnosis       string    `json:"diagnosis"`
	Recommendations string    `json:"recommendations"`
	Prescription    string    `json:"prescription,omitempty"`
	FilePath        string    `json:"file_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
