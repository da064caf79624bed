package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileworks/dental-receptionist/internal/appointment"
	"github.com/smileworks/dental-receptionist/internal/directory"
	"github.com/smileworks/dental-receptionist/internal/voice"
)

// stubScheduler returns canned results for the appointment handlers.
type stubScheduler struct {
	scheduleErr  error
	updateErr    error
	cancelErr    error
	lastFilter   appointment.ListFilter
	lastLimit    int
	appointments []appointment.Appointment
}

func (s *stubScheduler) Schedule(_ context.Context, n appointment.NewAppointment) (*appointment.Appointment, error) {
	if s.scheduleErr != nil {
		return nil, s.scheduleErr
	}
	status := n.Status
	if status == "" {
		status = appointment.StatusScheduled
	}
	now := time.Now().UTC()
	return &appointment.Appointment{
		ID:        uuid.New(),
		PatientID: n.PatientID,
		Reason:    n.Reason,
		StartTime: n.StartTime,
		EndTime:   n.EndTime,
		Provider:  n.Provider,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *stubScheduler) List(_ context.Context, f appointment.ListFilter, limit int) ([]appointment.Appointment, error) {
	s.lastFilter = f
	s.lastLimit = limit
	return s.appointments, nil
}

func (s *stubScheduler) Update(_ context.Context, id uuid.UUID, u appointment.Update) (*appointment.Appointment, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	appt := appointment.Appointment{ID: id, Status: appointment.StatusScheduled}
	if u.Status != nil {
		appt.Status = *u.Status
	}
	return &appt, nil
}

func (s *stubScheduler) Cancel(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &appointment.Appointment{ID: id, Status: appointment.StatusCancelled}, nil
}

type stubDirectory struct {
	patients []directory.Patient
	feedback []directory.Feedback
	lastQ    string
}

func (s *stubDirectory) CreatePatient(_ context.Context, n directory.NewPatient) (*directory.Patient, error) {
	return &directory.Patient{ID: uuid.New(), FirstName: n.FirstName, LastName: n.LastName}, nil
}

func (s *stubDirectory) SearchPatients(_ context.Context, q string, _ int) ([]directory.Patient, error) {
	s.lastQ = q
	return s.patients, nil
}

func (s *stubDirectory) SubmitFeedback(_ context.Context, n directory.NewFeedback) (*directory.Feedback, error) {
	return &directory.Feedback{ID: uuid.New(), Rating: n.Rating}, nil
}

func (s *stubDirectory) ListFeedback(_ context.Context, _ int) ([]directory.Feedback, error) {
	return s.feedback, nil
}

type stubChat struct {
	reply string
}

func (s *stubChat) Reply(_ context.Context, _ string) string { return s.reply }

type stubVoice struct {
	startErr    error
	result      *voice.CallResult
	statusCalls []string
}

func (s *stubVoice) StartCall(_ context.Context, req voice.CallRequest) (*voice.CallResult, error) {
	if s.startErr != nil {
		return nil, s.startErr
	}
	return s.result, nil
}

func (s *stubVoice) AnswerDocument(message string) string {
	return "<Response><Say>" + message + "</Say></Response>"
}

func (s *stubVoice) MenuDocument(digit string) string {
	return "<Response><Say>digit " + digit + "</Say></Response>"
}

func (s *stubVoice) RecordStatus(_ context.Context, callSID, callStatus, _, _ string) {
	s.statusCalls = append(s.statusCalls, callSID+":"+callStatus)
}

type testDeps struct {
	scheduler *stubScheduler
	directory *stubDirectory
	chat      *stubChat
	voice     *stubVoice
}

func newTestRouter(t *testing.T) (http.Handler, *testDeps) {
	t.Helper()

	deps := &testDeps{
		scheduler: &stubScheduler{},
		directory: &stubDirectory{},
		chat:      &stubChat{reply: "We are open Mon-Fri 8am-6pm and Sat 9am-2pm."},
		voice:     &stubVoice{result: &voice.CallResult{CallSID: "CA1", To: "+15550123"}},
	}

	router := NewRouter(RouterConfig{
		Appointments:   deps.scheduler,
		Directory:      deps.directory,
		Chat:           deps.chat,
		Voice:          deps.voice,
		Logger:         zerolog.Nop(),
		Env:            "test",
		Version:        "test",
		AllowedOrigins: []string{"*"},
	})
	return router, deps
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCreateAppointment(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]any{
		"patient_id": "patient-1",
		"reason":     "Cleaning",
		"start_time": "2026-09-01T09:00:00Z",
		"end_time":   "2026-09-01T09:30:00Z",
		"provider":   "Dr. A",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	appt, ok := body["appointment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "patient-1", appt["patient_id"])
	assert.Equal(t, "scheduled", appt["status"])
}

func TestCreateAppointmentValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]any{
		"patient_id": "patient-1",
		"status":     "bogus",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "validation_failed", body["error"])

	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "reason")
	assert.Contains(t, fields, "start_time")
	assert.Contains(t, fields, "end_time")
	assert.Contains(t, fields, "status")
}

func TestCreateAppointmentBadJSON(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request_body", decodeBody(t, rec)["error"])
}

func TestCreateAppointmentConflict(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.scheduler.scheduleErr = appointment.ErrTimeSlotTaken

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]any{
		"patient_id": "patient-1",
		"reason":     "Cleaning",
		"start_time": "2026-09-01T09:00:00Z",
		"end_time":   "2026-09-01T09:30:00Z",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "time_slot_taken", body["error"])
	assert.Equal(t, "Time slot not available", body["details"])
}

func TestCreateAppointmentLockBusy(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.scheduler.scheduleErr = appointment.ErrProviderBusy

	rec := doJSON(t, router, http.MethodPost, "/appointments", map[string]any{
		"patient_id": "patient-1",
		"reason":     "Cleaning",
		"start_time": "2026-09-01T09:00:00Z",
		"end_time":   "2026-09-01T09:30:00Z",
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "provider_busy", decodeBody(t, rec)["error"])
}

func TestListAppointmentsFilters(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.scheduler.appointments = []appointment.Appointment{}

	rec := doJSON(t, router, http.MethodGet,
		"/appointments?patient_id=patient-1&provider=Dr.+A&status=scheduled&limit=5", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "appointments")

	require.NotNil(t, deps.scheduler.lastFilter.PatientID)
	assert.Equal(t, "patient-1", *deps.scheduler.lastFilter.PatientID)
	require.NotNil(t, deps.scheduler.lastFilter.Provider)
	assert.Equal(t, "Dr. A", *deps.scheduler.lastFilter.Provider)
	require.NotNil(t, deps.scheduler.lastFilter.Status)
	assert.Equal(t, "scheduled", *deps.scheduler.lastFilter.Status)
	assert.Equal(t, 5, deps.scheduler.lastLimit)
}

func TestUpdateAppointment(t *testing.T) {
	router, _ := newTestRouter(t)

	id := uuid.New()
	rec := doJSON(t, router, http.MethodPatch, "/appointments/"+id.String(), map[string]any{
		"status": "completed",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	appt := decodeBody(t, rec)["appointment"].(map[string]any)
	assert.Equal(t, "completed", appt["status"])
}

func TestUpdateAppointmentInvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPatch, "/appointments/not-a-uuid", map[string]any{
		"status": "completed",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment_not_found", decodeBody(t, rec)["error"])
}

func TestUpdateAppointmentNoFields(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.scheduler.updateErr = appointment.ErrNoFieldsToUpdate

	rec := doJSON(t, router, http.MethodPatch, "/appointments/"+uuid.NewString(), map[string]any{})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no_fields_to_update", decodeBody(t, rec)["error"])
}

func TestCancelAppointment(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodDelete, "/appointments/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
}

func TestCancelAppointmentNotFound(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.scheduler.cancelErr = appointment.ErrAppointmentNotFound

	rec := doJSON(t, router, http.MethodDelete, "/appointments/"+uuid.NewString(), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment_not_found", decodeBody(t, rec)["error"])
}

func TestCreatePatient(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/patients", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	patient := decodeBody(t, rec)["patient"].(map[string]any)
	assert.Equal(t, "Jane", patient["first_name"])
}

func TestCreatePatientValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/patients", map[string]any{"first_name": "Jane"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	fields := decodeBody(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "last_name")
}

func TestSearchPatients(t *testing.T) {
	router, deps := newTestRouter(t)
	deps.directory.patients = []directory.Patient{}

	rec := doJSON(t, router, http.MethodGet, "/patients?q=jane", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "patients")
	assert.Equal(t, "jane", deps.directory.lastQ)
}

func TestCreateFeedback(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/feedback", map[string]any{"rating": 5})

	require.Equal(t, http.StatusCreated, rec.Code)
	fb := decodeBody(t, rec)["feedback"].(map[string]any)
	assert.Equal(t, float64(5), fb["rating"])
}

func TestCreateFeedbackRatingValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	for _, rating := range []int{0, 6, -1} {
		rec := doJSON(t, router, http.MethodPost, "/feedback", map[string]any{"rating": rating})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "rating %d", rating)
	}
}

func TestChat(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat", map[string]any{"message": "what are your hours"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "We are open Mon-Fri 8am-6pm and Sat 9am-2pm.", decodeBody(t, rec)["reply"])
}

func TestChatEmptyMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat", map[string]any{"message": ""})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestEstimate(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/estimate", map[string]any{"procedure_code": "d1110"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "D1110", body["procedure_code"])
	assert.Equal(t, float64(120), body["estimated_cost"])
}

func TestEstimateUnknownProcedure(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/estimate", map[string]any{"procedure_code": "D9999"})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "procedure_not_found", decodeBody(t, rec)["error"])
}

func TestInsuranceCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/insurance/check", map[string]any{
		"provider":  "Delta",
		"member_id": "MEM1234",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["eligible"])
	benefits := body["benefits"].(map[string]any)
	assert.Equal(t, "80%", benefits["preventive"])
}

func TestInsuranceCheckIneligible(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/insurance/check", map[string]any{
		"member_id": "MEM1235",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["eligible"])
	assert.Empty(t, body["benefits"])
}

func TestStartCall(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/voice/call", map[string]any{
		"to":      "+15550123",
		"message": "Reminder",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "CA1", body["call_sid"])
	assert.Equal(t, "+15550123", body["to"])
}

func TestStartCallMissingTo(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/voice/call", map[string]any{"message": "Reminder"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestStartCallErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not configured", voice.ErrNotConfigured, http.StatusBadRequest, "telephony_not_configured"},
		{"no client", voice.ErrClientUnavailable, http.StatusInternalServerError, "telephony_unavailable"},
		{"provider failure", &voice.ProviderError{Err: assert.AnError}, http.StatusInternalServerError, "telephony_provider_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, deps := newTestRouter(t)
			deps.voice.startErr = tc.err

			rec := doJSON(t, router, http.MethodPost, "/voice/call", map[string]any{"to": "+15550123"})

			require.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeBody(t, rec)["error"])
		})
	}
}

func TestAnswerWebhook(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/voice/answer?message=Hi+there", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Hi there")
}

func TestMenuWebhook(t *testing.T) {
	router, _ := newTestRouter(t)

	form := url.Values{"Digits": {"0"}}
	req := httptest.NewRequest(http.MethodPost, "/voice/menu", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "digit 0")
}

func TestStatusWebhook(t *testing.T) {
	router, deps := newTestRouter(t)

	form := url.Values{
		"CallSid":    {"CA9"},
		"CallStatus": {"completed"},
		"To":         {"+15550123"},
		"From":       {"+15550100"},
	}
	req := httptest.NewRequest(http.MethodPost, "/voice/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])
	assert.Equal(t, []string{"CA9:completed"}, deps.voice.statusCalls)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
