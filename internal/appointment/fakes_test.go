package appointment

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeAppointmentRepo is an in-memory AppointmentRepository that mirrors the
// Postgres implementation's availability semantics (confirmed count at tuple
// versus maxPerSlot) and records how often each check was invoked.
type fakeAppointmentRepo struct {
	mu    sync.Mutex
	store map[uuid.UUID]Appointment

	maxPerSlot       int
	forceUnavailable bool

	createCalls       int
	availabilityCalls int
	duplicateCalls    int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		store:      make(map[uuid.UUID]Appointment),
		maxPerSlot: 1,
	}
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *Appointment) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.createCalls++
	id := uuid.New()
	stored := *a
	stored.ID = id
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.store[id] = stored
	return id, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, id uuid.UUID, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return ErrAppointmentNotFound
	}
	stored := *a
	stored.ID = id
	r.store[id] = stored
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return ErrAppointmentNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.store[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	copied := a
	return &copied, nil
}

func (r *fakeAppointmentRepo) CheckTimeSlotAvailability(_ context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.availabilityCalls++
	if r.forceUnavailable {
		return false, nil
	}

	occupied := 0
	for _, a := range r.store {
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.AppointmentTime == timeOfDay && a.Status == StatusConfirmed {
			occupied++
		}
	}
	return occupied < r.maxPerSlot, nil
}

func (r *fakeAppointmentRepo) CheckTimeSlotAvailabilityExcluding(_ context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.availabilityCalls++
	if r.forceUnavailable {
		return false, nil
	}

	occupied := 0
	for _, a := range r.store {
		if a.ID == excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.AppointmentDate == date && a.AppointmentTime == timeOfDay && a.Status == StatusConfirmed {
			occupied++
		}
	}
	return occupied < r.maxPerSlot, nil
}

func (r *fakeAppointmentRepo) CheckPatientDuplicateAppointment(_ context.Context, patientID uuid.UUID, date string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.duplicateCalls++
	for _, a := range r.store {
		if a.PatientID == patientID && a.AppointmentDate == date && a.Status == StatusConfirmed {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAppointmentRepo) CountAll(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store), nil
}

func (r *fakeAppointmentRepo) CountByStatus(_ context.Context, status Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.store {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) CountOnDate(_ context.Context, date string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.store {
		if a.AppointmentDate == date {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.store)
}

// fakeScheduleRepo is an in-memory ScheduleRepository.
type fakeScheduleRepo struct {
	mu    sync.Mutex
	slots []ScheduleSlot
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *ScheduleSlot) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *s
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.slots = append(r.slots, stored)
	return stored.ID, nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.slots {
		if s.ID == id {
			r.slots = append(r.slots[:i], r.slots[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeScheduleRepo) GetByDoctorID(_ context.Context, doctorID uuid.UUID) ([]ScheduleSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []ScheduleSlot
	for _, s := range r.slots {
		if s.DoctorID == doctorID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) countAt(key SlotKey) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.slots {
		if s.DoctorID == key.DoctorID && s.Date == key.Date && s.Time == key.Time {
			n++
		}
	}
	return n
}

func (r *fakeScheduleRepo) total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// fakePatientRepo is an in-memory PatientRepository.
type fakePatientRepo struct {
	patients map[uuid.UUID]Patient
}

func newFakePatientRepo() *fakePatientRepo {
	return &fakePatientRepo{patients: make(map[uuid.UUID]Patient)}
}

func (r *fakePatientRepo) add(id uuid.UUID, name string) {
	r.patients[id] = Patient{ID: id, FullName: name}
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	copied := p
	return &copied, nil
}

// passLocker runs the critical section directly; tests exercise sequential
// semantics, not lock contention.
type passLocker struct{}

func (passLocker) WithSlotLock(ctx context.Context, _ uuid.UUID, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// contendedLocker simulates another request holding the tuple lock.
type contendedLocker struct{}

func (contendedLocker) WithSlotLock(context.Context, uuid.UUID, string, string, func(ctx context.Context) error) error {
	return ErrLockNotAcquired
}

// testEnv bundles fakes and use cases for one test.
type testEnv struct {
	appts     *fakeAppointmentRepo
	schedules *fakeScheduleRepo
	patients  *fakePatientRepo
	domain    *DomainService
	uc        *UseCases
}

func newTestEnv() *testEnv {
	appts := newFakeAppointmentRepo()
	schedules := &fakeScheduleRepo{}
	patients := newFakePatientRepo()
	log := zap.NewNop()
	domain := NewDomainService(appts, log)

	return &testEnv{
		appts:     appts,
		schedules: schedules,
		patients:  patients,
		domain:    domain,
		uc:        NewUseCases(appts, schedules, patients, domain, passLocker{}, log),
	}
}
