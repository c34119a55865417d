package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteAppointment hard-deletes a booking and releases its calendar slot.
// There is no archival. Slot release is tuple-matched and carries the same
// cross-appointment collision hazard as cancellation.
type DeleteAppointment struct {
	appts AppointmentRepository
	slots *scheduleSync
	log   *zap.Logger
}

func (uc *DeleteAppointment) Execute(ctx context.Context, id uuid.UUID) error {
	// Load first to capture the tuple before the row disappears.
	a, err := uc.appts.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.appts.Delete(ctx, a.ID); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if err := uc.slots.release(ctx, a.SlotKey()); err != nil {
		return err
	}

	uc.log.Info("appointment deleted",
		zap.String("appointment_id", a.ID.String()),
		zap.String("doctor_id", a.DoctorID.String()),
	)

	return nil
}
