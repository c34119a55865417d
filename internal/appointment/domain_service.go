package appointment

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DomainService holds the booking rules that need repository state but have
// no side effects of their own.
type DomainService struct {
	appts AppointmentRepository
	log   *zap.Logger
}

func NewDomainService(appts AppointmentRepository, log *zap.Logger) *DomainService {
	return &DomainService{appts: appts, log: log}
}

// ValidateCreation gates a new booking on slot availability. It deliberately
// performs no duplicate-booking check: a patient may hold several
// appointments on the same day as long as the times differ.
func (s *DomainService) ValidateCreation(ctx context.Context, a *Appointment, patientName string) error {
	available, err := s.appts.CheckTimeSlotAvailability(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime)
	if err != nil {
		return fmt.Errorf("check slot availability: %w", err)
	}
	if !available {
		return &SlotUnavailableError{
			DoctorID:    a.DoctorID.String(),
			Date:        a.AppointmentDate,
			Time:        a.AppointmentTime,
			PatientName: patientName,
		}
	}
	return nil
}

// ValidateUpdate gates a changed booking on slot availability at its target
// tuple. The check runs on every update and excludes the appointment's own
// confirmed occupancy from the count: keeping the same tuple never
// self-blocks, while occupancy held by other appointments still counts. A
// cancelled appointment being re-confirmed into a tuple that filled up in the
// meantime is rejected here.
func (s *DomainService) ValidateUpdate(ctx context.Context, a *Appointment, patientName string) error {
	available, err := s.appts.CheckTimeSlotAvailabilityExcluding(ctx, a.DoctorID, a.AppointmentDate, a.AppointmentTime, a.ID)
	if err != nil {
		return fmt.Errorf("check slot availability: %w", err)
	}
	if !available {
		return &SlotUnavailableError{
			DoctorID:    a.DoctorID.String(),
			Date:        a.AppointmentDate,
			Time:        a.AppointmentTime,
			PatientName: patientName,
		}
	}
	return nil
}

// Stats is an aggregate snapshot of the appointment book.
type Stats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Today     int `json:"today"`
}

// CalculateAppointmentStats aggregates counts for reporting dashboards.
func (s *DomainService) CalculateAppointmentStats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error

	if st.Total, err = s.appts.CountAll(ctx); err != nil {
		return Stats{}, fmt.Errorf("count appointments: %w", err)
	}
	if st.Confirmed, err = s.appts.CountByStatus(ctx, StatusConfirmed); err != nil {
		return Stats{}, fmt.Errorf("count confirmed: %w", err)
	}
	if st.Cancelled, err = s.appts.CountByStatus(ctx, StatusCancelled); err != nil {
		return Stats{}, fmt.Errorf("count cancelled: %w", err)
	}
	if st.Completed, err = s.appts.CountByStatus(ctx, StatusCompleted); err != nil {
		return Stats{}, fmt.Errorf("count completed: %w", err)
	}
	today := time.Now().Format(dateLayout)
	if st.Today, err = s.appts.CountOnDate(ctx, today); err != nil {
		return Stats{}, fmt.Errorf("count today: %w", err)
	}

	return st, nil
}
