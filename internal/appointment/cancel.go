package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CancelAppointment cancels a booking and releases its calendar slot.
//
// Release is tuple-matched: every slot row at the appointment's
// (doctor, date, time) is deleted, including rows created by other
// still-active appointments sharing the tuple. The test suite asserts this
// collision explicitly so it stays a documented behavior rather than a
// silent one.
type CancelAppointment struct {
	appts AppointmentRepository
	slots *scheduleSync
	log   *zap.Logger
}

func (uc *CancelAppointment) Execute(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := uc.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Cancel()

	if err := uc.appts.Update(ctx, a.ID, a); err != nil {
		return nil, fmt.Errorf("persist cancellation: %w", err)
	}

	if err := uc.slots.release(ctx, a.SlotKey()); err != nil {
		return nil, err
	}

	uc.log.Info("appointment cancelled",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
		zap.String("date", a.AppointmentDate),
		zap.String("time", a.AppointmentTime),
	)

	return a, nil
}
