package usecase

import (
	"context"
	"errors"

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
	ErrResultAlreadyExists = errors.New("appointment already has a result")
	ErrResultNotFound      = errors.New("result not found")
)

type AppointmentResultUsecase interface {
	AttachResult(ctx context.Context, appointmentID uuid.UUID, req *dto.AttachResultRequest) (*dto.ResultResponse, error)
	UpdateResult(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateResultRequest) (*dto.ResultResponse, error)
}

type appointmentResultUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	resultRepo      repository.AppointmentResultRepository
	auditService    service.AuditService
}

func NewAppointmentResultUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	resultRepo repository.AppointmentResultRepository,
	auditService service.AuditService,
) AppointmentResultUsecase {
	return &appointmentResultUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		resultRepo:      resultRepo,
		auditService:    auditService,
	}
}

// AttachResult creates the one-and-only result record for an appointment.
// The unique index on appointment_id turns a concurrent second attach into
// a rejected insert, never an overwrite. Attaching a result does not change
// the appointment's status - completion stays an explicit transition.
func (u *appointmentResultUsecase) AttachResult(ctx context.Context, appointmentID uuid.UUID, req *dto.AttachResultRequest) (*dto.ResultResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	result := &entity.AppointmentResult{
		AppointmentID:   appointmentID,
		Diagnosis:       req.Diagnosis,
		Recommendations: req.Recommendations,
		Prescription:    req.Prescription,
		FilePath:        req.FilePath,
	}

	if err := u.resultRepo.Create(u.db.WithContext(ctx), result); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrResultAlreadyExists
		}
		u.log.Errorf("Failed to insert result for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	var actorID *uuid.UUID
	if staffID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actorID = &staffID
	}
	u.auditService.LogCreate(ctx, u.db.WithContext(ctx), actorID,
		entity.AuditActionResultAttach, "appointment_result", result.ID.String(),
		map[string]interface{}{"appointment_id": appointmentID.String()})

	u.log.Infof("Result attached: appointment=%s, result=%s", appointmentID, result.ID)
	return converter.ResultToResponse(result), nil
}

// UpdateResult lets staff revise an existing result record.
func (u *appointmentResultUsecase) UpdateResult(ctx context.Context, appointmentID uuid.UUID, req *dto.UpdateResultRequest) (*dto.ResultResponse, error) {
	result, err := u.resultRepo.FindByAppointmentID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find result for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if result == nil {
		return nil, ErrResultNotFound
	}

	result.Diagnosis = req.Diagnosis
	result.Recommendations = req.Recommendations
	result.Prescription = req.Prescription
	result.FilePath = req.FilePath

	if err := u.resultRepo.Update(u.db.WithContext(ctx), result); err != nil {
		u.log.Warnf("Failed to update result for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	var actorID *uuid.UUID
	if staffID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actorID = &staffID
	}
	u.auditService.LogUpdate(ctx, u.db.WithContext(ctx), actorID,
		entity.AuditActionResultUpdate, "appointment_result", result.ID.String(),
		nil, map[string]interface{}{"appointment_id": appointmentID.String()})

	return converter.ResultToResponse(result), nil
}
