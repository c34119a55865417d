package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinic-scheduling/internal/appointment"
	"github.com/clinicdesk/clinic-scheduling/internal/metrics"
)

// Collector registers against the default prometheus registry, so build it
// exactly once for the whole test binary.
var testCollector = metrics.NewCollector("clinic_scheduling_test")

type memAppointmentRepo struct {
	store map[uuid.UUID]appointment.Appointment
}

func (r *memAppointmentRepo) Create(_ context.Context, a *appointment.Appointment) (uuid.UUID, error) {
	id := uuid.New()
	stored := *a
	stored.ID = id
	r.store[id] = stored
	return id, nil
}

func (r *memAppointmentRepo) Update(_ context.Context, id uuid.UUID, a *appointment.Appointment) error {
	if _, ok := r.store[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	stored := *a
	stored.ID = id
	r.store[id] = stored
	return nil
}

func (r *memAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store[id]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *memAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	a, ok := r.store[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	copied := a
	return &copied, nil
}

func (r *memAppointmentRepo) CheckTimeSlotAvailability(_ context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	for _, a := range r.store {
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.AppointmentTime == timeOfDay && a.Status == appointment.StatusConfirmed {
			return false, nil
		}
	}
	return true, nil
}

func (r *memAppointmentRepo) CheckTimeSlotAvailabilityExcluding(_ context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID uuid.UUID) (bool, error) {
	for id, a := range r.store {
		if id == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.AppointmentTime == timeOfDay && a.Status == appointment.StatusConfirmed {
			return false, nil
		}
	}
	return true, nil
}

func (r *memAppointmentRepo) CheckPatientDuplicateAppointment(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *memAppointmentRepo) CountAll(context.Context) (int, error) { return len(r.store), nil }

func (r *memAppointmentRepo) CountByStatus(_ context.Context, status appointment.Status) (int, error) {
	n := 0
	for _, a := range r.store {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *memAppointmentRepo) CountOnDate(_ context.Context, date string) (int, error) {
	n := 0
	for _, a := range r.store {
		if a.AppointmentDate == date {
			n++
		}
	}
	return n, nil
}

type memScheduleRepo struct {
	slots []appointment.ScheduleSlot
}

func (r *memScheduleRepo) Create(_ context.Context, s *appointment.ScheduleSlot) (uuid.UUID, error) {
	stored := *s
	stored.ID = uuid.New()
	r.slots = append(r.slots, stored)
	return stored.ID, nil
}

func (r *memScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range r.slots {
		if s.ID == id {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memScheduleRepo) GetByDoctorID(_ context.Context, doctorID uuid.UUID) ([]appointment.ScheduleSlot, error) {
	var result []appointment.ScheduleSlot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			result = append(result, s)
		}
	}
	return result, nil
}

type memPatientRepo struct{}

func (memPatientRepo) GetByID(context.Context, uuid.UUID) (*appointment.Patient, error) {
	return nil, appointment.ErrPatientNotFound
}

type directLocker struct{}

func (directLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestRouter() http.Handler {
	appts := &memAppointmentRepo{store: make(map[uuid.UUID]appointment.Appointment)}
	schedules := &memScheduleRepo{}
	log := zap.NewNop()
	domain := appointment.NewDomainService(appts, log)
	uc := appointment.NewUseCases(appts, schedules, memPatientRepo{}, domain, directLocker{}, log)
	h := NewAppointmentHandler(uc, appts, domain, testCollector)

	r := chi.NewRouter()
	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/cancel", h.Cancel)
		r.Post("/{id}/complete", h.Complete)
		r.Post("/{id}/reschedule", h.Reschedule)
	})
	return r
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createBody(patientID, doctorID uuid.UUID, timeOfDay string) string {
	return `{"patient_id":"` + patientID.String() + `","doctor_id":"` + doctorID.String() +
		`","reason_for_visit":"Checkup","appointment_date":"2026-09-15","appointment_time":"` + timeOfDay + `"}`
}

func TestHandler_CreateReturns201(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/appointments", createBody(uuid.New(), uuid.New(), "09:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body: %s", rec.Code, rec.Body.String())
	}

	var resp AppointmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == uuid.Nil {
		t.Error("expected assigned id in response")
	}
	if resp.Status != "confirmed" {
		t.Errorf("status = %q, want confirmed", resp.Status)
	}
}

func TestHandler_CreateRejectsBadBody(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/appointments", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_CreateMapsValidationErrorTo400(t *testing.T) {
	router := newTestRouter()

	body := `{"patient_id":"` + uuid.NewString() + `","doctor_id":"` + uuid.NewString() +
		`","reason_for_visit":"","appointment_date":"2026-09-15","appointment_time":"09:00"}`
	rec := doRequest(t, router, http.MethodPost, "/appointments", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "validation_error" {
		t.Errorf("error code = %q, want validation_error", resp.Error)
	}
}

func TestHandler_CreateMapsSlotUnavailableTo409(t *testing.T) {
	router := newTestRouter()
	doctorID := uuid.New()

	if rec := doRequest(t, router, http.MethodPost, "/appointments", createBody(uuid.New(), doctorID, "09:00")); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: status = %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodPost, "/appointments", createBody(uuid.New(), doctorID, "09:00"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409; body: %s", rec.Code, rec.Body.String())
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error != "slot_unavailable" {
		t.Errorf("error code = %q, want slot_unavailable", resp.Error)
	}
}

func TestHandler_CancelUnknownAppointmentReturns404(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/appointments/"+uuid.NewString()+"/cancel", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHandler_RejectsMalformedID(t *testing.T) {
	router := newTestRouter()

	rec := doRequest(t, router, http.MethodPost, "/appointments/not-a-uuid/cancel", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHandler_StatsReturnsAggregates(t *testing.T) {
	router := newTestRouter()

	if rec := doRequest(t, router, http.MethodPost, "/appointments", createBody(uuid.New(), uuid.New(), "09:00")); rec.Code != http.StatusCreated {
		t.Fatalf("booking: status = %d", rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/appointments/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var stats appointment.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Total != 1 || stats.Confirmed != 1 {
		t.Errorf("stats = %+v, want total=1 confirmed=1", stats)
	}
}
