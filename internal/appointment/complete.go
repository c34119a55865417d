package appointment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CompleteAppointment marks a booking completed. The schedule slot is left
// untouched: a completed appointment keeps its calendar row indefinitely.
type CompleteAppointment struct {
	appts AppointmentRepository
	log   *zap.Logger
}

func (uc *CompleteAppointment) Execute(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := uc.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Complete()

	if err := uc.appts.Update(ctx, a.ID, a); err != nil {
		return nil, fmt.Errorf("persist completion: %w", err)
	}

	uc.log.Info("appointment completed", zap.String("appointment_id", a.ID.String()))

	return a, nil
}
