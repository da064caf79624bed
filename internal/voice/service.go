// Package voice drives the outbound call flow: place a call whose answer
// instructions are fetched from our answer webhook, collect one menu digit,
// and record status callbacks. The flow is stateless on the server side; the
// spoken message and patient reference ride in the webhook URL query string.
package voice

import (
	"context"
	"errors"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/smileworks/dental-receptionist/internal/config"
	"github.com/smileworks/dental-receptionist/internal/messagelog"
	"github.com/smileworks/dental-receptionist/internal/observability/metrics"
)

var (
	ErrNotConfigured     = errors.New("telephony credentials are not configured")
	ErrClientUnavailable = errors.New("telephony client is unavailable")
)

// ProviderError wraps a failure returned by the telephony provider when
// placing a call.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return "telephony provider: " + e.Err.Error() }
func (e *ProviderError) Unwrap() error { return e.Err }

// Placer abstracts the provider call placement API.
type Placer interface {
	PlaceCall(ctx context.Context, to, from, answerURL, statusURL string) (callSID string, err error)
}

type CallRequest struct {
	To        string
	Message   string
	PatientID string
}

type CallResult struct {
	CallSID string `json:"call_sid"`
	To      string `json:"to"`
}

type Service struct {
	twilio  config.TwilioConfig
	baseURL string
	placer  Placer
	log     messagelog.Recorder
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(twilio config.TwilioConfig, baseURL string, placer Placer, recorder messagelog.Recorder, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		twilio:  twilio,
		baseURL: baseURL,
		placer:  placer,
		log:     recorder,
		metrics: m,
		logger:  logger,
	}
}

// StartCall asks the provider to dial out. The answer webhook URL carries the
// message and patient reference so the later webhook invocations need no
// server-side session.
func (s *Service) StartCall(ctx context.Context, req CallRequest) (*CallResult, error) {
	if !s.twilio.Configured() {
		return nil, ErrNotConfigured
	}
	if s.placer == nil {
		return nil, ErrClientUnavailable
	}

	message := req.Message
	if message == "" {
		message = DefaultGreeting
	}

	q := url.Values{}
	q.Set("message", message)
	if req.PatientID != "" {
		q.Set("patient_id", req.PatientID)
	}
	answerURL := s.baseURL + "/voice/answer?" + q.Encode()
	statusURL := s.baseURL + "/voice/status"

	sid, err := s.placer.PlaceCall(ctx, req.To, s.twilio.FromNumber, answerURL, statusURL)
	if err != nil {
		s.metrics.VoiceCall("failed")
		return nil, &ProviderError{Err: err}
	}

	s.metrics.VoiceCall("placed")
	s.record(ctx, messagelog.DirectionOutbound, message, map[string]any{
		"call_sid":   sid,
		"to":         req.To,
		"patient_id": req.PatientID,
	})

	s.logger.Info().Str("call_sid", sid).Str("to", req.To).Msg("outbound call placed")

	return &CallResult{CallSID: sid, To: req.To}, nil
}

// AnswerDocument renders the instructions served when the callee picks up.
func (s *Service) AnswerDocument(message string) string {
	if message == "" {
		message = DefaultGreeting
	}
	return answerDocument(message, s.baseURL+"/voice/menu")
}

// MenuDocument renders the instructions served after digit collection.
func (s *Service) MenuDocument(digit string) string {
	return menuDocument(digit, s.twilio.OnCallNumber, s.twilio.FromNumber)
}

// RecordStatus appends a status callback to the message log. The provider is
// always acknowledged, so failures here are logged and dropped.
func (s *Service) RecordStatus(ctx context.Context, callSID, callStatus, to, from string) {
	s.record(ctx, messagelog.DirectionInbound, "call status: "+callStatus, map[string]any{
		"call_sid": callSID,
		"status":   callStatus,
		"to":       to,
		"from":     from,
	})
}

func (s *Service) record(ctx context.Context, direction, content string, callContext map[string]any) {
	if s.log == nil {
		return
	}
	err := s.log.Record(ctx, messagelog.Entry{
		Channel:   messagelog.ChannelCall,
		Direction: direction,
		Content:   content,
		Context:   callContext,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("direction", direction).Msg("call message log write failed")
	}
}
