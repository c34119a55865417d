package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CreateAppointmentInput struct {
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	ReasonForVisit  string
	AppointmentDate string
	AppointmentTime string
	Status          Status // optional, defaults to confirmed
}

// CreateAppointment books a new appointment and records the matching
// schedule slot.
type CreateAppointment struct {
	appts    AppointmentRepository
	patients PatientRepository
	domain   *DomainService
	slots    *scheduleSync
	locker   SlotLocker
	log      *zap.Logger
}

// Execute validates the booking, persists the appointment and creates one
// schedule slot for its tuple. Validation failures happen before any
// persistence. A slot insert failing after the appointment insert leaves the
// appointment without a calendar row; there is no compensating rollback.
func (uc *CreateAppointment) Execute(ctx context.Context, in CreateAppointmentInput) (*Appointment, error) {
	patientName := lookupPatientName(ctx, uc.patients, in.PatientID, uc.log)

	status := in.Status
	if status == "" {
		status = StatusConfirmed
	}

	a := &Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		ReasonForVisit:  in.ReasonForVisit,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Status:          status,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	err := uc.locker.WithSlotLock(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime, func(lockCtx context.Context) error {
		if err := uc.domain.ValidateCreation(lockCtx, a, patientName); err != nil {
			return err
		}

		id, err := uc.appts.Create(lockCtx, a)
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		a.ID = id

		return uc.slots.occupy(lockCtx, a.SlotKey())
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	uc.log.Info("appointment created",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("patient_id", a.PatientID.String()),
		zap.String("date", a.AppointmentDate),
		zap.String("time", a.AppointmentTime),
	)

	return a, nil
}
