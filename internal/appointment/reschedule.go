package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RescheduleAppointmentInput struct {
	ID      uuid.UUID
	NewDate string
	NewTime string
}

// RescheduleAppointment moves a booking to a new date and time. Unlike
// UpdateAppointment, it releases the slot rows at the old tuple before
// occupying the new one, so no orphan is left behind.
type RescheduleAppointment struct {
	appts    AppointmentRepository
	patients PatientRepository
	domain   *DomainService
	slots    *scheduleSync
	locker   SlotLocker
	log      *zap.Logger
}

func (uc *RescheduleAppointment) Execute(ctx context.Context, in RescheduleAppointmentInput) (*Appointment, error) {
	a, err := uc.appts.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	oldKey := a.SlotKey()
	patientName := lookupPatientName(ctx, uc.patients, a.PatientID, uc.log)

	a.Reschedule(in.NewDate, in.NewTime)

	if err := a.Validate(); err != nil {
		return nil, err
	}

	newKey := a.SlotKey()

	err = uc.locker.WithSlotLock(ctx, newKey.DoctorID, newKey.Date, newKey.Time, func(lockCtx context.Context) error {
		if err := uc.domain.ValidateUpdate(lockCtx, a, patientName); err != nil {
			return err
		}

		if err := uc.appts.Update(lockCtx, a.ID, a); err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}

		// Release the old tuple's rows, then occupy the new tuple. Release
		// is tuple-matched, so rows from other appointments at the old tuple
		// go too.
		if err := uc.slots.release(lockCtx, oldKey); err != nil {
			return err
		}
		return uc.slots.occupy(lockCtx, newKey)
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		return nil, err
	}

	uc.log.Info("appointment rescheduled",
		zap.String("appointment_id", a.ID.String()),
		zap.String("from_date", oldKey.Date),
		zap.String("from_time", oldKey.Time),
		zap.String("to_date", newKey.Date),
		zap.String("to_time", newKey.Time),
	)

	return a, nil
}
