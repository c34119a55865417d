package appointment

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestValidate_CollectsAllViolations(t *testing.T) {
	a := &Appointment{} // everything missing

	err := a.Validate()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// patientId, doctorId, reason, date, time, status
	if len(validationErr.Fields) != 6 {
		t.Errorf("expected 6 violations, got %d: %v", len(validationErr.Fields), validationErr.Fields)
	}
}

func TestValidate_RejectsMalformedDateAndTime(t *testing.T) {
	a := &Appointment{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		ReasonForVisit:  "Checkup",
		AppointmentDate: "15/09/2026",
		AppointmentTime: "9 o'clock",
		Status:          StatusConfirmed,
	}

	err := a.Validate()

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Fields) != 2 {
		t.Errorf("expected 2 violations, got %v", validationErr.Fields)
	}
}

func TestValidate_AcceptsWellFormedAppointment(t *testing.T) {
	a := &Appointment{
		PatientID:       uuid.New(),
		DoctorID:        uuid.New(),
		ReasonForVisit:  "Checkup",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "09:00",
		Status:          StatusConfirmed,
	}

	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReschedule_KeepsStatusConfirmed(t *testing.T) {
	a := &Appointment{
		Status:          StatusConfirmed,
		AppointmentDate: "2026-09-15",
		AppointmentTime: "09:00",
	}

	a.Reschedule("2026-09-20", "10:30")

	if a.Status != StatusConfirmed {
		t.Errorf("status = %q, want confirmed", a.Status)
	}
	if a.AppointmentDate != "2026-09-20" || a.AppointmentTime != "10:30" {
		t.Errorf("tuple not moved: %s %s", a.AppointmentDate, a.AppointmentTime)
	}
}

func TestApply_MergesOnlyProvidedFields(t *testing.T) {
	doctorID := uuid.New()
	a := &Appointment{
		DoctorID:        doctorID,
		ReasonForVisit:  "Checkup",
		AppointmentDate: "2026-09-15",
		AppointmentTime: "09:00",
		Status:          StatusConfirmed,
	}

	reason := "Follow-up"
	cmd := &UpdateAppointmentCommand{ReasonForVisit: &reason}
	cmd.Apply(a)

	if a.ReasonForVisit != "Follow-up" {
		t.Errorf("reason = %q, want Follow-up", a.ReasonForVisit)
	}
	if a.DoctorID != doctorID || a.AppointmentDate != "2026-09-15" || a.AppointmentTime != "09:00" {
		t.Error("untouched fields must keep their values")
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	cases := map[string]string{
		"09:00": "9:00 AM",
		"14:30": "2:30 PM",
		"00:15": "12:15 AM",
		"bogus": "bogus",
	}
	for in, want := range cases {
		if got := formatTimeOfDay(in); got != want {
			t.Errorf("formatTimeOfDay(%q) = %q, want %q", in, got, want)
		}
	}
}
