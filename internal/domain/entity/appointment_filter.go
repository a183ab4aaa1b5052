package entity

// AppointmentFilter is a domain-level filter for staff appointment listings.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DateFrom    string // Format: YYYY-MM-DD
	DateTo      string // Format: YYYY-MM-DD
	Status      string // Filter by exact status
	PatientName string // Filter by patient name (ILIKE)
}
