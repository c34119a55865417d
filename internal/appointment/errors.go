package appointment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrDoctorNotFound      = errors.New("doctor not found")

	// ErrSlotBeingBooked is returned when another request holds the lock for
	// the same (doctor, date, time) tuple. Safe to retry.
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
)

// ValidationError reports structural invariant violations on an entity,
// one message per offending field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// SlotUnavailableError is returned when the requested (doctor, date, time)
// tuple has no remaining capacity. The message is user-facing: it names the
// requested time and, when the patient record resolved, the patient.
type SlotUnavailableError struct {
	DoctorID    string
	Date        string
	Time        string
	PatientName string
}

func (e *SlotUnavailableError) Error() string {
	msg := fmt.Sprintf("the %s time slot on %s is not available", formatTimeOfDay(e.Time), e.Date)
	if e.PatientName != "" {
		msg += fmt.Sprintf(" for %s", e.PatientName)
	}
	return msg
}
