package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SlotLocker guards the availability-check-then-persist sequence per
// (doctor, date, time) tuple so concurrent bookings of the same slot cannot
// both observe "available".
type SlotLocker interface {
	WithSlotLock(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, fn func(ctx context.Context) error) error
}

// ErrLockNotAcquired must be returned (or wrapped) by SlotLocker
// implementations when the tuple is already locked.
var ErrLockNotAcquired = errors.New("slot lock not acquired")

// UseCases bundles the six appointment orchestrators behind one constructor.
type UseCases struct {
	Create     *CreateAppointment
	Update     *UpdateAppointment
	Cancel     *CancelAppointment
	Complete   *CompleteAppointment
	Delete     *DeleteAppointment
	Reschedule *RescheduleAppointment
}

func NewUseCases(
	appts AppointmentRepository,
	schedules ScheduleRepository,
	patients PatientRepository,
	domain *DomainService,
	locker SlotLocker,
	log *zap.Logger,
) *UseCases {
	sync := &scheduleSync{schedules: schedules, log: log}

	return &UseCases{
		Create:     &CreateAppointment{appts: appts, patients: patients, domain: domain, slots: sync, locker: locker, log: log},
		Update:     &UpdateAppointment{appts: appts, patients: patients, domain: domain, slots: sync, locker: locker, log: log},
		Cancel:     &CancelAppointment{appts: appts, slots: sync, log: log},
		Complete:   &CompleteAppointment{appts: appts, log: log},
		Delete:     &DeleteAppointment{appts: appts, slots: sync, log: log},
		Reschedule: &RescheduleAppointment{appts: appts, patients: patients, domain: domain, slots: sync, locker: locker, log: log},
	}
}

// lookupPatientName resolves a patient's display name for error messages.
// A missing patient, or any repository failure, yields an empty name and
// never blocks the calling operation.
func lookupPatientName(ctx context.Context, patients PatientRepository, id uuid.UUID, log *zap.Logger) string {
	p, err := patients.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrPatientNotFound) {
			log.Warn("patient lookup failed", zap.String("patient_id", id.String()), zap.Error(err))
		}
		return ""
	}
	return p.FullName
}
