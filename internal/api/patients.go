package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/smileworks/dental-receptionist/internal/directory"
)

// Directory is the slice of directory.Service the patient and feedback
// handlers need.
type Directory interface {
	CreatePatient(ctx context.Context, n directory.NewPatient) (*directory.Patient, error)
	SearchPatients(ctx context.Context, q string, limit int) ([]directory.Patient, error)
	SubmitFeedback(ctx context.Context, n directory.NewFeedback) (*directory.Feedback, error)
	ListFeedback(ctx context.Context, limit int) ([]directory.Feedback, error)
}

func createPatientHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePatientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if fields := req.Validate(); fields != nil {
			writeValidationError(w, fields)
			return
		}

		p, err := svc.CreatePatient(r.Context(), req.ToNewPatient())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"patient": p})
	}
}

func searchPatientsHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		patients, err := svc.SearchPatients(r.Context(), q, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"patients": patients})
	}
}

func createFeedbackHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateFeedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if fields := req.Validate(); fields != nil {
			writeValidationError(w, fields)
			return
		}

		f, err := svc.SubmitFeedback(r.Context(), req.ToNewFeedback())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{"feedback": f})
	}
}

func listFeedbackHandler(svc Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

		feedback, err := svc.ListFeedback(r.Context(), limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"feedback": feedback})
	}
}
