package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-scheduling/internal/appointment"
	"github.com/clinicdesk/clinic-scheduling/internal/metrics"
)

type AppointmentHandler struct {
	uc      *appointment.UseCases
	appts   appointment.AppointmentRepository
	domain  *appointment.DomainService
	metrics *metrics.Collector
}

func NewAppointmentHandler(
	uc *appointment.UseCases,
	appts appointment.AppointmentRepository,
	domain *appointment.DomainService,
	m *metrics.Collector,
) *AppointmentHandler {
	return &AppointmentHandler{uc: uc, appts: appts, domain: domain, metrics: m}
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
		return
	}

	appt, err := h.uc.Create.Execute(r.Context(), appointment.CreateAppointmentInput{
		PatientID:       patientID,
		DoctorID:        doctorID,
		ReasonForVisit:  req.ReasonForVisit,
		AppointmentDate: req.AppointmentDate,
		AppointmentTime: req.AppointmentTime,
		Status:          appointment.Status(req.Status),
	})
	if err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("create", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("create", "ok").Inc()
	writeJSON(w, http.StatusCreated, toResponse(appt))
}

func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	appt, err := h.appts.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(appt))
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	in := appointment.UpdateAppointmentInput{ID: id}
	if req.DoctorID != nil {
		doctorID, err := uuid.Parse(*req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		in.DoctorID = &doctorID
	}
	in.ReasonForVisit = req.ReasonForVisit
	in.AppointmentDate = req.AppointmentDate
	in.AppointmentTime = req.AppointmentTime
	if req.Status != nil {
		status := appointment.Status(*req.Status)
		in.Status = &status
	}

	appt, err := h.uc.Update.Execute(r.Context(), in)
	if err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("update", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("update", "ok").Inc()
	writeJSON(w, http.StatusOK, toResponse(appt))
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	appt, err := h.uc.Cancel.Execute(r.Context(), id)
	if err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("cancel", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("cancel", "ok").Inc()
	writeJSON(w, http.StatusOK, toResponse(appt))
}

func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	appt, err := h.uc.Complete.Execute(r.Context(), id)
	if err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("complete", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("complete", "ok").Inc()
	writeJSON(w, http.StatusOK, toResponse(appt))
}

func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.uc.Delete.Execute(r.Context(), id); err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("delete", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("delete", "ok").Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req RescheduleAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	appt, err := h.uc.Reschedule.Execute(r.Context(), appointment.RescheduleAppointmentInput{
		ID:      id,
		NewDate: req.NewDate,
		NewTime: req.NewTime,
	})
	if err != nil {
		h.metrics.AppointmentsTotal.WithLabelValues("reschedule", "error").Inc()
		handleDomainError(w, err)
		return
	}

	h.metrics.AppointmentsTotal.WithLabelValues("reschedule", "ok").Inc()
	writeJSON(w, http.StatusOK, toResponse(appt))
}

func (h *AppointmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.domain.CalculateAppointmentStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func handleDomainError(w http.ResponseWriter, err error) {
	var validationErr *appointment.ValidationError
	var slotErr *appointment.SlotUnavailableError

	switch {
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_error", validationErr.Error())
	case errors.As(err, &slotErr):
		writeError(w, http.StatusConflict, "slot_unavailable", slotErr.Error())
	case errors.Is(err, appointment.ErrSlotBeingBooked):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func toResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		ReasonForVisit:  a.ReasonForVisit,
		AppointmentDate: a.AppointmentDate,
		AppointmentTime: a.AppointmentTime,
		Status:          string(a.Status),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
