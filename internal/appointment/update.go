package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UpdateAppointmentInput struct {
	ID uuid.UUID
	UpdateAppointmentCommand
}

// UpdateAppointment merges a partial change over an existing appointment.
//
// When the change moves the appointment to a different (doctor, date, time)
// tuple, a slot row is created at the new tuple but the row at the old tuple
// is left in place. That orphan silently inflates apparent occupancy at the
// old tuple. RescheduleAppointment is the path that cleans up after itself;
// this one reproduces the legacy behavior and the test suite pins it.
type UpdateAppointment struct {
	appts    AppointmentRepository
	patients PatientRepository
	domain   *DomainService
	slots    *scheduleSync
	locker   SlotLocker
	log      *zap.Logger
}

func (uc *UpdateAppointment) Execute(ctx context.Context, in UpdateAppointmentInput) (*Appointment, error) {
	a, err := uc.appts.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	currentKey := a.SlotKey()
	patientName := lookupPatientName(ctx, uc.patients, a.PatientID, uc.log)

	in.Apply(a)

	if err := a.Validate(); err != nil {
		return nil, err
	}

	newKey := a.SlotKey()
	tupleChanged := newKey != currentKey

	err = uc.locker.WithSlotLock(ctx, newKey.DoctorID, newKey.Date, newKey.Time, func(lockCtx context.Context) error {
		// Availability is checked on every update, excluding this
		// appointment's own occupancy. A status flip back to confirmed at an
		// unchanged tuple still has to clear capacity held by others.
		if err := uc.domain.ValidateUpdate(lockCtx, a, patientName); err != nil {
			return err
		}

		if err := uc.appts.Update(lockCtx, a.ID, a); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		if !tupleChanged {
			return nil
		}

		// Occupy the new tuple. The old tuple's row is intentionally not
		// released here; see the type comment.
		return uc.slots.occupy(lockCtx, newKey)
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	uc.log.Info("appointment updated",
		zap.String("appointment_id", a.ID.String()),
		zap.String("date", a.AppointmentDate),
		zap.String("time", a.AppointmentTime),
	)

	return a, nil
}
