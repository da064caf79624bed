package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smileworks/dental-receptionist/internal/billing"
)

// ChatResponder answers a front-desk question from the keyword table.
type ChatResponder interface {
	Reply(ctx context.Context, message string) string
}

func chatHandler(responder ChatResponder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.Message == "" {
			writeValidationError(w, map[string]string{"message": "required"})
			return
		}

		reply := responder.Reply(r.Context(), req.Message)

		writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
	}
}

func estimateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EstimateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		code, cost, err := billing.EstimateCost(req.ProcedureCode)
		if err != nil {
			if errors.Is(err, billing.ErrUnknownProcedure) {
				writeError(w, http.StatusNotFound, "procedure_not_found", "Procedure not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"procedure_code": code,
			"estimated_cost": cost,
		})
	}
}

func insuranceCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req InsuranceCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		eligible, benefits := billing.CheckEligibility(req.MemberID)

		writeJSON(w, http.StatusOK, map[string]any{
			"eligible": eligible,
			"benefits": benefits,
		})
	}
}
