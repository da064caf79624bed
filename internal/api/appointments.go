package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/smileworks/dental-receptionist/internal/appointment"
)

// Scheduler is the slice of appointment.Service the handlers need.
type Scheduler interface {
	Schedule(ctx context.Context, n appointment.NewAppointment) (*appointment.Appointment, error)
	List(ctx context.Context, f appointment.ListFilter, limit int) ([]appointment.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, u appointment.Update) (*appointment.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error)
}

func createAppointmentHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if fields := req.Validate(); fields != nil {
			writeValidationError(w, fields)
			return
		}

		appt, err := svc.Schedule(r.Context(), req.ToNewAppointment())
		if err != nil {
			handleScheduleError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"appointment": appt})
	}
}

func listAppointmentsHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter appointment.ListFilter
		if v := q.Get("patient_id"); v != "" {
			filter.PatientID = &v
		}
		if v := q.Get("provider"); v != "" {
			filter.Provider = &v
		}
		if v := q.Get("status"); v != "" {
			filter.Status = &v
		}

		limit, _ := strconv.Atoi(q.Get("limit"))

		appointments, err := svc.List(r.Context(), filter, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"appointments": appointments})
	}
}

func updateAppointmentHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
			return
		}

		var req UpdateAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if fields := req.Validate(); fields != nil {
			writeValidationError(w, fields)
			return
		}

		appt, err := svc.Update(r.Context(), id, req.ToUpdate())
		if err != nil {
			handleUpdateError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"appointment": appt})
	}
}

func cancelAppointmentHandler(svc Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "appointment_not_found", "appointment not found")
			return
		}

		if _, err := svc.Cancel(r.Context(), id); err != nil {
			handleUpdateError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

func handleScheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrTimeSlotTaken):
		writeError(w, http.StatusConflict, "time_slot_taken", "Time slot not available")
	case errors.Is(err, appointment.ErrProviderBusy):
		writeError(w, http.StatusConflict, "provider_busy", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleUpdateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, appointment.ErrNoFieldsToUpdate):
		writeError(w, http.StatusBadRequest, "no_fields_to_update", "No fields to update")
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", "Appointment not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
