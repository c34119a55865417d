package appointment

import (
	"context"

	"github.com/google/uuid"
)

// AppointmentRepository persists booking records. Create assigns and returns
// the generated id.
type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) (uuid.UUID, error)
	Update(ctx context.Context, id uuid.UUID, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// CheckTimeSlotAvailability reports whether the tuple still has capacity
	// for one more confirmed appointment.
	CheckTimeSlotAvailability(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error)

	// CheckTimeSlotAvailabilityExcluding is the update-path variant: it leaves
	// the appointment's own confirmed occupancy out of the count, so an
	// appointment keeping its tuple is never blocked by itself while occupancy
	// held by others still counts.
	CheckTimeSlotAvailabilityExcluding(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID uuid.UUID) (bool, error)

	// CheckPatientDuplicateAppointment reports whether the patient already has
	// an appointment on the given date. Present for completeness; no use case
	// calls it — same-day bookings at different times are allowed.
	CheckPatientDuplicateAppointment(ctx context.Context, patientID uuid.UUID, date string) (bool, error)

	CountAll(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	CountOnDate(ctx context.Context, date string) (int, error)
}

// ScheduleRepository persists the doctor-calendar projection. Slot rows are
// never mutated in place: they are created and deleted only.
type ScheduleRepository interface {
	Create(ctx context.Context, s *ScheduleSlot) (uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]ScheduleSlot, error)
}

// PatientRepository is consumed only to enrich error messages; a missing
// patient never blocks a booking.
type PatientRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
}
