package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgAppointmentRepository implements AppointmentRepository on Postgres.
// maxPerSlot is the number of confirmed appointments a single
// (doctor, date, time) tuple may hold; availability is computed against it.
type PgAppointmentRepository struct {
	pool       *pgxpool.Pool
	maxPerSlot int
}

func NewPgAppointmentRepository(pool *pgxpool.Pool, maxPerSlot int) *PgAppointmentRepository {
	if maxPerSlot < 1 {
		maxPerSlot = 1
	}
	return &PgAppointmentRepository{pool: pool, maxPerSlot: maxPerSlot}
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.ReasonForVisit,
		&a.AppointmentDate,
		&a.AppointmentTime,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgAppointmentRepository) Create(ctx context.Context, a *Appointment) (uuid.UUID, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, reason_for_visit, appointment_date, appointment_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`, id, a.PatientID, a.DoctorID, a.ReasonForVisit, a.AppointmentDate, a.AppointmentTime, a.Status)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *PgAppointmentRepository) Update(ctx context.Context, id uuid.UUID, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET patient_id = $2,
		    doctor_id = $3,
		    reason_for_visit = $4,
		    appointment_date = $5,
		    appointment_time = $6,
		    status = $7,
		    updated_at = now()
		WHERE id = $1
	`, id, a.PatientID, a.DoctorID, a.ReasonForVisit, a.AppointmentDate, a.AppointmentTime, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *PgAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

func (r *PgAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, reason_for_visit, appointment_date, appointment_time, status, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgAppointmentRepository) CheckTimeSlotAvailability(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	var occupied int

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND appointment_time = $3
		  AND status = 'confirmed'
	`, doctorID, date, timeOfDay).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("count confirmed at slot: %w", err)
	}

	return occupied < r.maxPerSlot, nil
}

func (r *PgAppointmentRepository) CheckTimeSlotAvailabilityExcluding(ctx context.Context, doctorID uuid.UUID, date, timeOfDay string, excludeID uuid.UUID) (bool, error) {
	var occupied int

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND appointment_time = $3
		  AND status = 'confirmed'
		  AND id <> $4
	`, doctorID, date, timeOfDay, excludeID).Scan(&occupied)
	if err != nil {
		return false, fmt.Errorf("count confirmed at slot: %w", err)
	}

	return occupied < r.maxPerSlot, nil
}

func (r *PgAppointmentRepository) CheckPatientDuplicateAppointment(ctx context.Context, patientID uuid.UUID, date string) (bool, error) {
	var n int

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments
		WHERE patient_id = $1
		  AND appointment_date = $2
		  AND status = 'confirmed'
	`, patientID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count patient appointments: %w", err)
	}

	return n > 0, nil
}

func (r *PgAppointmentRepository) CountAll(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&n)
	return n, err
}

func (r *PgAppointmentRepository) CountByStatus(ctx context.Context, status Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status).Scan(&n)
	return n, err
}

func (r *PgAppointmentRepository) CountOnDate(ctx context.Context, date string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE appointment_date = $1`, date).Scan(&n)
	return n, err
}

// PgScheduleRepository implements ScheduleRepository on Postgres.
type PgScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewPgScheduleRepository(pool *pgxpool.Pool) *PgScheduleRepository {
	return &PgScheduleRepository{pool: pool}
}

func (r *PgScheduleRepository) Create(ctx context.Context, s *ScheduleSlot) (uuid.UUID, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO schedule_slots (id, doctor_id, slot_date, slot_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`, id, s.DoctorID, s.Date, s.Time)
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *PgScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedule_slots WHERE id = $1`, id)
	return err
}

func (r *PgScheduleRepository) GetByDoctorID(ctx context.Context, doctorID uuid.UUID) ([]ScheduleSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, doctor_id, slot_date, slot_time, created_at, updated_at
		FROM schedule_slots
		WHERE doctor_id = $1
		ORDER BY slot_date, slot_time
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ScheduleSlot
	for rows.Next() {
		var s ScheduleSlot
		if err := rows.Scan(&s.ID, &s.DoctorID, &s.Date, &s.Time, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// PgPatientRepository implements PatientRepository on Postgres.
type PgPatientRepository struct {
	pool *pgxpool.Pool
}

func NewPgPatientRepository(pool *pgxpool.Pool) *PgPatientRepository {
	return &PgPatientRepository{pool: pool}
}

func (r *PgPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	var p Patient

	err := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id).Scan(&p.ID, &p.FullName, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}
