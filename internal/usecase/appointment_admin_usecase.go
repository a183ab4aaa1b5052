package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-appointment-service/internal/converter"
	"clinic-appointment-service/internal/delivery/dto"
	"clinic-appointment-service/internal/delivery/http/middleware"
	"clinic-appointment-service/internal/domain/entity"
	"clinic-appointment-service/internal/domain/repository"
	"clinic-appointment-service/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidStatus         = errors.New("unknown appointment status")
	ErrInvalidTransition     = errors.New("status transition not allowed")
	ErrAppointmentNotPastDue = errors.New("appointment has not started yet")
)

// auditActionForStatus maps a transition target to its audit action.
var auditActionForStatus = map[entity.AppointmentStatus]string{
	entity.AppointmentStatusConfirmed: entity.AuditActionAppointmentConfirm,
	entity.AppointmentStatusCompleted: entity.AuditActionAppointmentComplete,
	entity.AppointmentStatusCancelled: entity.AuditActionAppointmentCancel,
	entity.AppointmentStatusNoShow:    entity.AuditActionAppointmentNoShow,
}

type AppointmentAdminUsecase interface {
	ListAppointments(ctx context.Context, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error)
	Transition(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error
}

type appointmentAdminUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	availabilityCache *service.AvailabilityCache
	auditService      service.AuditService
	loc               *time.Location
	now               func() time.Time
}

func NewAppointmentAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	availabilityCache *service.AvailabilityCache,
	auditService service.AuditService,
	loc *time.Location,
) AppointmentAdminUsecase {
	return &appointmentAdminUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		availabilityCache: availabilityCache,
		auditService:      auditService,
		loc:               loc,
		now:               time.Now,
	}
}

func (u *appointmentAdminUsecase) ListAppointments(ctx context.Context, filter *dto.AppointmentFilterRequest) (*dto.AppointmentListResponse, error) {
	var domainFilter *entity.AppointmentFilter
	if filter != nil {
		domainFilter = &entity.AppointmentFilter{
			DateFrom:    filter.DateFrom,
			DateTo:      filter.DateTo,
			Status:      filter.Status,
			PatientName: filter.PatientName,
		}
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), domainFilter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// Transition applies a staff-driven status change:
// pending -> confirmed, confirmed -> completed, confirmed -> no_show (only
// once the appointment instant has passed). Terminal statuses accept no
// further transitions. Staff cancellation goes through Cancel.
func (u *appointmentAdminUsecase) Transition(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	target := entity.AppointmentStatus(req.Status)
	if !target.IsValid() {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	if !appointment.Status.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}
	if target == entity.AppointmentStatusNoShow && !appointment.IsPastDue(u.now(), u.loc) {
		return nil, ErrAppointmentNotPastDue
	}

	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID,
		[]entity.AppointmentStatus{appointment.Status}, target)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		// The appointment moved on concurrently; the transition no longer applies.
		return nil, ErrInvalidTransition
	}

	if req.Notes != "" {
		if err := u.appointmentRepo.AppendAdminNotes(u.db.WithContext(ctx), appointmentID, req.Notes); err != nil {
			u.log.Warnf("Failed to append notes for %s (non-fatal): %+v", appointmentID, err)
		}
	}

	u.availabilityCache.Invalidate(ctx, appointment.Date.Format("2006-01-02"))

	var actorID *uuid.UUID
	if staffID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actorID = &staffID
	}
	u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), actorID,
		auditActionForStatus[target], "appointment", appointmentID.String(),
		map[string]interface{}{"status": string(appointment.Status)},
		map[string]interface{}{"status": string(target)})

	u.log.Infof("Appointment status changed: id=%s, %s -> %s", appointmentID, appointment.Status, target)

	updated, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointmentID, err)
		appointment.Status = target
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(updated), nil
}

// Cancel is the staff cancellation: unlike the patient path it skips the
// past-due eligibility check, only requiring the appointment to still be
// active.
func (u *appointmentAdminUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID,
		entity.ActiveStatuses, entity.AppointmentStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}

	if reason == "" {
		reason = "not provided"
	}
	note := fmt.Sprintf("Cancelled by staff. Reason: %s", reason)
	if err := u.appointmentRepo.AppendAdminNotes(u.db.WithContext(ctx), appointmentID, note); err != nil {
		u.log.Warnf("Failed to record cancellation reason for %s (non-fatal): %+v", appointmentID, err)
	}

	u.availabilityCache.Invalidate(ctx, appointment.Date.Format("2006-01-02"))

	var actorID *uuid.UUID
	if staffID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actorID = &staffID
	}
	u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), actorID,
		entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(),
		map[string]interface{}{"status": string(appointment.Status)},
		map[string]interface{}{"status": string(entity.AppointmentStatusCancelled), "reason": reason})

	u.log.Infof("Appointment cancelled by staff: id=%s", appointmentID)
	return nil
}
