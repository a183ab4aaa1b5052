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
	ErrServiceNotFound        = errors.New("service not found")
	ErrInvalidDate            = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidSlot            = errors.New("time slot is not in the booking grid")
	ErrDateOutOfRange         = errors.New("date is in the past or beyond the booking horizon")
	ErrSlotTaken              = errors.New("time slot is already booked")
	ErrPatientInfoRequired    = errors.New("patient name and phone are required")
	ErrAppointmentNotFound    = errors.New("appointment not found")
	ErrCancellationNotAllowed = errors.New("appointment can no longer be cancelled")
)

type BookingUsecase interface {
	AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error
}

type bookingUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	serviceRepo       repository.ServiceRepository
	userRepo          repository.UserRepository
	availabilityCache *service.AvailabilityCache
	auditService      service.AuditService
	loc               *time.Location
	horizonDays       int
	now               func() time.Time
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	availabilityCache *service.AvailabilityCache,
	auditService service.AuditService,
	loc *time.Location,
	horizonDays int,
) BookingUsecase {
	return &bookingUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		serviceRepo:       serviceRepo,
		userRepo:          userRepo,
		availabilityCache: availabilityCache,
		auditService:      auditService,
		loc:               loc,
		horizonDays:       horizonDays,
		now:               time.Now,
	}
}

// AvailableSlots returns the free entries of the fixed grid for one date:
// the full grid minus slots held by pending or confirmed appointments.
func (u *bookingUsecase) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error) {
	day, err := time.ParseInLocation("2006-01-02", date, u.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), serviceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", serviceID, err)
		return nil, err
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}

	if cached, ok := u.availabilityCache.Get(ctx, date); ok {
		return &dto.AvailableSlotsResponse{
			Date:           date,
			AvailableSlots: converter.SlotsToResponses(cached),
		}, nil
	}

	booked, err := u.appointmentRepo.FindBookedSlots(u.db.WithContext(ctx), day, entity.ActiveStatuses)
	if err != nil {
		u.log.Warnf("Failed to load booked slots for %s: %+v", date, err)
		return nil, err
	}

	taken := make(map[entity.TimeSlot]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	free := make([]entity.TimeSlot, 0, len(entity.AllTimeSlots()))
	for _, slot := range entity.AllTimeSlots() {
		if !taken[slot] {
			free = append(free, slot)
		}
	}

	u.availabilityCache.Set(ctx, date, free)

	return &dto.AvailableSlotsResponse{
		Date:           date,
		AvailableSlots: converter.SlotsToResponses(free),
	}, nil
}

// Book admits a new appointment with status pending.
//
// The availability read is advisory only: admission rests on the partial
// unique index over active (date, time_slot) pairs, so of two concurrent
// requests for the same slot exactly one insert succeeds and the other
// comes back as ErrSlotTaken.
func (u *bookingUsecase) Book(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	slot := entity.TimeSlot(req.TimeSlot)
	if !slot.IsValid() {
		return nil, ErrInvalidSlot
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, u.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	now := u.now().In(u.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc)
	if day.Before(today) || day.After(today.AddDate(0, 0, u.horizonDays)) {
		return nil, ErrDateOutOfRange
	}

	svc, err := u.serviceRepo.FindByID(u.db.WithContext(ctx), req.ServiceID)
	if err != nil {
		u.log.Warnf("Failed to find service %s: %+v", req.ServiceID, err)
		return nil, err
	}
	if svc == nil || svc.IsActive == nil || !*svc.IsActive {
		return nil, ErrServiceNotFound
	}

	appointment := &entity.Appointment{
		ServiceID:    req.ServiceID,
		Date:         day,
		TimeSlot:     slot,
		Status:       entity.AppointmentStatusPending,
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		PatientAge:   req.PatientAge,
		Comments:     req.Comments,
	}

	// Anonymous bookings are allowed; when a user is authenticated their
	// profile fills any patient contact fields the request left blank.
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		appointment.UserID = &userID

		user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
		if err != nil {
			u.log.Warnf("Failed to find user %s: %+v", userID, err)
			return nil, err
		}
		if user != nil {
			if appointment.PatientName == "" {
				appointment.PatientName = user.FullName
			}
			if appointment.PatientPhone == "" {
				appointment.PatientPhone = user.Phone
			}
			if appointment.PatientEmail == "" {
				appointment.PatientEmail = user.Email
			}
		}
	}

	if appointment.PatientName == "" || appointment.PatientPhone == "" {
		return nil, ErrPatientInfoRequired
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotTaken
		}
		u.log.Errorf("Failed to insert appointment: %+v", err)
		return nil, err
	}

	u.availabilityCache.Invalidate(ctx, req.Date)

	u.auditService.LogCreate(ctx, u.db.WithContext(ctx), appointment.UserID,
		entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(),
		map[string]interface{}{
			"service_id": req.ServiceID.String(),
			"date":       req.Date,
			"time_slot":  req.TimeSlot,
		})

	// Reload with service info for the response
	full, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}

	u.log.Infof("Appointment booked: id=%s, date=%s, slot=%s", appointment.ID, req.Date, req.TimeSlot)
	return converter.AppointmentToResponse(full), nil
}

// GetMyAppointments returns all appointments for the logged-in user
func (u *bookingUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.appointmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	upcoming, completed := 0, 0
	for i := range appointments {
		switch {
		case appointments[i].IsActive():
			upcoming++
		case appointments[i].Status == entity.AppointmentStatusCompleted:
			completed++
		}
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
		Upcoming:     upcoming,
		Completed:    completed,
	}, nil
}

// GetAppointment returns one appointment owned by the logged-in user.
// Appointments of other users are reported as not found so their existence
// does not leak.
func (u *bookingUsecase) GetAppointment(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil || appointment.UserID == nil || *appointment.UserID != userID {
		return nil, ErrAppointmentNotFound
	}

	return converter.AppointmentToResponse(appointment), nil
}

// Cancel performs a patient self-service cancellation. Ownership is
// required and CanBeCancelled must hold; the reason lands in the admin
// notes as a free-text audit trail.
func (u *bookingUsecase) Cancel(ctx context.Context, appointmentID uuid.UUID, reason string) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil || appointment.UserID == nil || *appointment.UserID != userID {
		return ErrAppointmentNotFound
	}

	if !appointment.CanBeCancelled(u.now(), u.loc) {
		return ErrCancellationNotAllowed
	}

	// Guarded update: losing a race against another transition yields zero
	// affected rows, which still reads as no-longer-cancellable.
	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID,
		entity.ActiveStatuses, entity.AppointmentStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrCancellationNotAllowed
	}

	if reason == "" {
		reason = "not provided"
	}
	note := fmt.Sprintf("Cancelled by patient. Reason: %s", reason)
	if err := u.appointmentRepo.AppendAdminNotes(u.db.WithContext(ctx), appointmentID, note); err != nil {
		u.log.Warnf("Failed to record cancellation reason for %s (non-fatal): %+v", appointmentID, err)
	}

	u.availabilityCache.Invalidate(ctx, appointment.Date.Format("2006-01-02"))

	u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), &userID,
		entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(),
		map[string]interface{}{"status": string(appointment.Status)},
		map[string]interface{}{"status": string(entity.AppointmentStatusCancelled), "reason": reason})

	u.log.Infof("Appointment cancelled by patient: id=%s", appointmentID)
	return nil
}
