package handler

import (
	"encoding/json"
	"net/http"

	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/usecase"
	"clinic-appointment-service/pkg/response"
	"clinic-appointment-service/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AdminAppointmentHandler struct {
	adminUsecase  usecase.AppointmentAdminUsecase
	resultUsecase usecase.AppointmentResultUsecase
	validator     *validator.CustomValidator
}

func NewAdminAppointmentHandler(
	adminUsecase usecase.AppointmentAdminUsecase,
	resultUsecase usecase.AppointmentResultUsecase,
	validator *validator.CustomValidator,
) *AdminAppointmentHandler {
	return &AdminAppointmentHandler{
		adminUsecase:  adminUsecase,
		resultUsecase: resultUsecase,
		validator:     validator,
	}
}

func (h *AdminAppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &dto.AppointmentFilterRequest{
		DateFrom:    query.Get("date_from"),
		DateTo:      query.Get("date_to"),
		Status:      query.Get("status"),
		PatientName: query.Get("patient_name"),
	}

	appointments, err := h.adminUsecase.ListAppointments(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AdminAppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.adminUsecase.Transition(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Unknown appointment status", nil)
		case usecase.ErrInvalidTransition:
			response.Error(w, http.StatusConflict, "Status transition not allowed", nil)
		case usecase.ErrAppointmentNotPastDue:
			response.Error(w, http.StatusConflict, "Appointment has not started yet", nil)
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AdminAppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.CancelAppointmentRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	err = h.adminUsecase.Cancel(r.Context(), appointmentID, req.Reason)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidTransition:
			response.Error(w, http.StatusConflict, "Appointment is no longer active", nil)
		default:
			response.InternalServerError(w, "Failed to cancel appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment cancelled successfully", nil)
}

func (h *AdminAppointmentHandler) AttachResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.AttachResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.resultUsecase.AttachResult(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrResultAlreadyExists:
			response.Error(w, http.StatusConflict, "Appointment already has a result", nil)
		default:
			response.InternalServerError(w, "Failed to attach result")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Result attached successfully", result)
}

func (h *AdminAppointmentHandler) UpdateResult(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.resultUsecase.UpdateResult(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrResultNotFound:
			response.NotFound(w, "Result not found")
		default:
			response.InternalServerError(w, "Failed to update result")
		}
		return
	}

	response.Success(w, http.StatusOK, "Result updated successfully", result)
}
