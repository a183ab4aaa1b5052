package entity

import (
	"fmt"
	"time"
)

// TimeSlot is one entry in the clinic's fixed half-hour booking grid,
// identified by its start time in 24h "HH:MM" form.
type TimeSlot string

// SlotDuration is the length of every bookable slot.
const SlotDuration = 30 * time.Minute

// timeSlots is the fixed daily grid: 24 half-hour slots from 08:00 to 19:30.
// Order matters - it is the display order of the booking picker.
var timeSlots = []TimeSlot{
	"08:00", "08:30",
	"09:00", "09:30",
	"10:00", "10:30",
	"11:00", "11:30",
	"12:00", "12:30",
	"13:00", "13:30",
	"14:00", "14:30",
	"15:00", "15:30",
	"16:00", "16:30",
	"17:00", "17:30",
	"18:00", "18:30",
	"19:00", "19:30",
}

// AllTimeSlots returns the fixed grid in display order.
// Callers get a copy so the grid itself stays immutable.
func AllTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, len(timeSlots))
	copy(slots, timeSlots)
	return slots
}

// IsValid reports whether s is one of the fixed grid entries.
func (s TimeSlot) IsValid() bool {
	for _, slot := range timeSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// FormattedLabel returns the display range for a slot, e.g. "10:00 - 10:30".
func (s TimeSlot) FormattedLabel() string {
	start, err := time.Parse("15:04", string(s))
	if err != nil {
		return string(s)
	}
	return fmt.Sprintf("%s - %s", start.Format("15:04"), start.Add(SlotDuration).Format("15:04"))
}

// StartOn combines a calendar date with the slot's start time in the given
// location, yielding the exact instant the appointment begins.
func (s TimeSlot) StartOn(date time.Time, loc *time.Location) (time.Time, error) {
	start, err := time.Parse("15:04", string(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, loc), nil
}
