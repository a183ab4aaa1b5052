package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// ActiveStatuses are the statuses that occupy a slot for conflict purposes.
// Terminal statuses (completed, cancelled, no_show) free the slot.
var ActiveStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusConfirmed,
}

// allowedTransitions lists the accepted status changes. Terminal statuses
// have no outgoing transitions.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed,
		AppointmentStatusCancelled,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	},
}

// statusColors maps a status to its UI badge color.
var statusColors = map[AppointmentStatus]string{
	AppointmentStatusPending:   "warning",
	AppointmentStatusConfirmed: "success",
	AppointmentStatusCompleted: "info",
	AppointmentStatusCancelled: "danger",
	AppointmentStatusNoShow:    "secondary",
}

// IsTerminal reports whether no further transitions are accepted from s.
func (s AppointmentStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// IsValid reports whether s is a known appointment status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine accepts from -> to.
func (s AppointmentStatus) CanTransitionTo(to AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Appointment represents a booking of one slot on one date.
// UserID is nullable: the clinic accepts unauthenticated bookings, and a
// logged-in user may book on behalf of another patient, so patient contact
// fields are captured per appointment.
type Appointment struct {
	ID           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID       *uuid.UUID        `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ServiceID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"service_id"`
	Date         time.Time         `gorm:"type:date;not null;index" json:"date"`
	TimeSlot     TimeSlot          `gorm:"type:varchar(5);not null" json:"time_slot"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PatientName  string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	PatientPhone string            `gorm:"type:varchar(20);not null" json:"patient_phone"`
	PatientEmail string            `gorm:"type:varchar(255)" json:"patient_email,omitempty"`
	PatientAge   *int              `json:"patient_age,omitempty"`
	Comments     string            `gorm:"type:text" json:"comments,omitempty"`
	AdminNotes   string            `gorm:"type:text" json:"admin_notes,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User    *User              `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Service Service            `gorm:"foreignKey:ServiceID" json:"service,omitempty"`
	Result  *AppointmentResult `gorm:"foreignKey:AppointmentID" json:"result,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsActive checks whether the appointment occupies its slot
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// IsPastDue reports whether now is strictly after the appointment's start
// instant, evaluated in the clinic's timezone.
func (a *Appointment) IsPastDue(now time.Time, loc *time.Location) bool {
	start, err := a.TimeSlot.StartOn(a.Date, loc)
	if err != nil {
		return false
	}
	return now.After(start)
}

// CanBeCancelled reports whether a patient may still cancel: the appointment
// must be active and not yet past due.
func (a *Appointment) CanBeCancelled(now time.Time, loc *time.Location) bool {
	return a.IsActive() && !a.IsPastDue(now, loc)
}

// StatusColor returns the UI badge color for the current status
func (a *Appointment) StatusColor() string {
	if color, ok := statusColors[a.Status]; ok {
		return color
	}
	return "secondary"
}
