package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Appointment is the booking record. Dates and times are clinic-local
// strings (YYYY-MM-DD, HH:MM); no timezone is attached.
type Appointment struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	ReasonForVisit  string
	AppointmentDate string
	AppointmentTime string
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ScheduleSlot marks a doctor as occupied at (doctor, date, time). It carries
// no reference back to the appointment that created it; slot rows are matched
// purely by tuple. Multiple rows may exist for the same tuple when capacity
// allows more than one booking per slot.
type ScheduleSlot struct {
	ID        uuid.UUID
	DoctorID  uuid.UUID
	Date      string
	Time      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Patient struct {
	ID        uuid.UUID
	FullName  string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Doctor struct {
	ID        uuid.UUID
	FullName  string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotKey is the (doctor, date, time) tuple that ties an appointment to its
// calendar projection.
type SlotKey struct {
	DoctorID uuid.UUID
	Date     string
	Time     string
}

func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{DoctorID: a.DoctorID, Date: a.AppointmentDate, Time: a.AppointmentTime}
}

// Validate checks the structural invariants of the record. It collects every
// violation instead of stopping at the first one.
func (a *Appointment) Validate() error {
	var fields []string

	if a.PatientID == uuid.Nil {
		fields = append(fields, "patientId is required")
	}
	if a.DoctorID == uuid.Nil {
		fields = append(fields, "doctorId is required")
	}
	if a.ReasonForVisit == "" {
		fields = append(fields, "reasonForVisit is required")
	}
	switch {
	case a.AppointmentDate == "":
		fields = append(fields, "appointmentDate is required")
	default:
		if _, err := time.Parse(dateLayout, a.AppointmentDate); err != nil {
			fields = append(fields, "appointmentDate must be YYYY-MM-DD")
		}
	}
	switch {
	case a.AppointmentTime == "":
		fields = append(fields, "appointmentTime is required")
	default:
		if _, err := time.Parse(timeLayout, a.AppointmentTime); err != nil {
			fields = append(fields, "appointmentTime must be HH:MM")
		}
	}
	if !a.Status.IsValid() {
		fields = append(fields, "status must be confirmed, cancelled or completed")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Cancel marks the appointment cancelled. No guard exists against cancelling
// an already terminal appointment; callers get last-write-wins semantics.
func (a *Appointment) Cancel() {
	a.Status = StatusCancelled
	a.UpdatedAt = time.Now()
}

// Complete marks the appointment completed. Like Cancel, re-completing or
// completing a cancelled appointment is not rejected.
func (a *Appointment) Complete() {
	a.Status = StatusCompleted
	a.UpdatedAt = time.Now()
}

// Reschedule moves the appointment to a new date and time. The status is
// always confirmed afterwards.
func (a *Appointment) Reschedule(date, timeOfDay string) {
	a.AppointmentDate = date
	a.AppointmentTime = timeOfDay
	a.Status = StatusConfirmed
	a.UpdatedAt = time.Now()
}

// UpdateAppointmentCommand carries the mutable fields of an update request.
// Nil pointers mean "keep the existing value".
type UpdateAppointmentCommand struct {
	DoctorID        *uuid.UUID
	ReasonForVisit  *string
	AppointmentDate *string
	AppointmentTime *string
	Status          *Status
}

// Apply merges the provided fields over the existing record.
func (cmd *UpdateAppointmentCommand) Apply(a *Appointment) {
	if cmd.DoctorID != nil {
		a.DoctorID = *cmd.DoctorID
	}
	if cmd.ReasonForVisit != nil {
		a.ReasonForVisit = *cmd.ReasonForVisit
	}
	if cmd.AppointmentDate != nil {
		a.AppointmentDate = *cmd.AppointmentDate
	}
	if cmd.AppointmentTime != nil {
		a.AppointmentTime = *cmd.AppointmentTime
	}
	if cmd.Status != nil {
		a.Status = *cmd.Status
	}
	a.UpdatedAt = time.Now()
}

// formatTimeOfDay renders an HH:MM value as e.g. "2:30 PM" for user-facing
// error messages. Unparseable input is returned unchanged.
func formatTimeOfDay(hhmm string) string {
	t, err := time.Parse(timeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}
