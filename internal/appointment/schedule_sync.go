package appointment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// scheduleSync applies calendar-projection side effects for the use cases.
// The projection is tuple-matched: release deletes every slot row at the
// tuple, regardless of which appointment originally created each row. When
// several appointments share a tuple this wipes the rows of all of them.
type scheduleSync struct {
	schedules ScheduleRepository
	log       *zap.Logger
}

// occupy inserts one slot row for the tuple.
func (ss *scheduleSync) occupy(ctx context.Context, key SlotKey) error {
	slot := &ScheduleSlot{
		DoctorID: key.DoctorID,
		Date:     key.Date,
		Time:     key.Time,
	}
	id, err := ss.schedules.Create(ctx, slot)
	if err != nil {
		return fmt.Errorf("create schedule slot: %w", err)
	}

	ss.log.Debug("schedule slot created",
		zap.String("slot_id", id.String()),
		zap.String("doctor_id", key.DoctorID.String()),
		zap.String("date", key.Date),
		zap.String("time", key.Time),
	)
	return nil
}

// release deletes every slot row matching the tuple.
func (ss *scheduleSync) release(ctx context.Context, key SlotKey) error {
	slots, err := ss.schedules.GetByDoctorID(ctx, key.DoctorID)
	if err != nil {
		return fmt.Errorf("load doctor schedule: %w", err)
	}

	for _, slot := range slots {
		if slot.Date != key.Date || slot.Time != key.Time {
			continue
		}
		if err := ss.schedules.Delete(ctx, slot.ID); err != nil {
			return fmt.Errorf("delete schedule slot %s: %w", slot.ID, err)
		}
		ss.log.Debug("schedule slot released",
			zap.String("slot_id", slot.ID.String()),
			zap.String("doctor_id", key.DoctorID.String()),
			zap.String("date", key.Date),
			zap.String("time", key.Time),
		)
	}
	return nil
}
