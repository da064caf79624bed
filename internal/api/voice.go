package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smileworks/dental-receptionist/internal/voice"
)

// VoiceFlow is the slice of voice.Service the telephony handlers need.
type VoiceFlow interface {
	StartCall(ctx context.Context, req voice.CallRequest) (*voice.CallResult, error)
	AnswerDocument(message string) string
	MenuDocument(digit string) string
	RecordStatus(ctx context.Context, callSID, callStatus, to, from string)
}

func startCallHandler(svc VoiceFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartCallRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if req.To == "" {
			writeValidationError(w, map[string]string{"to": "required"})
			return
		}

		result, err := svc.StartCall(r.Context(), voice.CallRequest{
			To:        req.To,
			Message:   req.Message,
			PatientID: req.PatientID,
		})
		if err != nil {
			handleStartCallError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func handleStartCallError(w http.ResponseWriter, err error) {
	var providerErr *voice.ProviderError
	switch {
	case errors.Is(err, voice.ErrNotConfigured):
		writeError(w, http.StatusBadRequest, "telephony_not_configured", err.Error())
	case errors.Is(err, voice.ErrClientUnavailable):
		writeError(w, http.StatusInternalServerError, "telephony_unavailable", err.Error())
	case errors.As(err, &providerErr):
		writeError(w, http.StatusInternalServerError, "telephony_provider_error", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// answerWebhookHandler renders the instructions fetched when the call is
// picked up. The spoken message rides in the query string; there is no
// server-side call session.
func answerWebhookHandler(svc VoiceFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		message := r.URL.Query().Get("message")
		writeTwiML(w, svc.AnswerDocument(message))
	}
}

// menuWebhookHandler renders the follow-up after digit collection.
func menuWebhookHandler(svc VoiceFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		digit := r.PostFormValue("Digits")
		writeTwiML(w, svc.MenuDocument(digit))
	}
}

// statusWebhookHandler records call progress callbacks. The provider always
// gets a success response regardless of logging outcome.
func statusWebhookHandler(svc VoiceFlow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		svc.RecordStatus(r.Context(),
			r.PostFormValue("CallSid"),
			r.PostFormValue("CallStatus"),
			r.PostFormValue("To"),
			r.PostFormValue("From"),
		)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
