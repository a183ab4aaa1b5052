package converter

import (
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:           appointment.ID,
		UserID:       appointment.UserID,
		ServiceID:    appointment.ServiceID,
		Date:         appointment.Date.Format("2006-01-02"),
		TimeSlot:     string(appointment.TimeSlot),
		TimeRange:    appointment.TimeSlot.FormattedLabel(),
		Status:       string(appointment.Status),
		StatusColor:  appointment.StatusColor(),
		PatientName:  appointment.PatientName,
		PatientPhone: appointment.PatientPhone,
		PatientEmail: appointment.PatientEmail,
		PatientAge:   appointment.PatientAge,
		Comments:     appointment.Comments,
		AdminNotes:   appointment.AdminNotes,
		CreatedAt:    appointment.CreatedAt,
		UpdatedAt:    appointment.UpdatedAt,
	}

	// Include service info if preloaded
	if appointment.Service.ID != uuid.Nil {
		response.Service = ServiceToResponse(&appointment.Service)
	}
	if appointment.Result != nil {
		response.Result = ResultToResponse(appointment.Result)
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to response DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i, appointment := range appointments {
		resp := AppointmentToResponse(&appointment)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// ResultToResponse converts an AppointmentResult entity to ResultResponse DTO
func ResultToResponse(result *entity.AppointmentResult) *dto.ResultResponse {
	if result == nil {
		return nil
	}

	return &dto.ResultResponse{
		ID:              result.ID,
		AppointmentID:   result.AppointmentID,
		Diagnosis:       result.Diagnosis,
		Recommendations: result.Recommendations,
		Prescription:    result.Prescription,
		FilePath:        result.FilePath,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}
}

// SlotsToResponses converts time slots to picker entries with display labels
func SlotsToResponses(slots []entity.TimeSlot) []dto.SlotResponse {
	responses := make([]dto.SlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.SlotResponse{
			Value: string(slot),
			Label: slot.FormattedLabel(),
		}
	}
	return responses
}
