package directory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	defaultPatientLimit  = 50
	defaultFeedbackLimit = 100
	maxLimit             = 500
)

// Service is a thin passthrough to the store; field validation happens at the
// API edge.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePatient(ctx context.Context, n NewPatient) (*Patient, error) {
	p, err := s.repo.InsertPatient(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("insert patient: %w", err)
	}

	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient created")
	return p, nil
}

func (s *Service) SearchPatients(ctx context.Context, q string, limit int) ([]Patient, error) {
	if limit <= 0 {
		limit = defaultPatientLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	patients, err := s.repo.SearchPatients(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("search patients: %w", err)
	}
	return patients, nil
}

func (s *Service) SubmitFeedback(ctx context.Context, n NewFeedback) (*Feedback, error) {
	f, err := s.repo.InsertFeedback(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return f, nil
}

func (s *Service) ListFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	if limit <= 0 {
		limit = defaultFeedbackLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	feedback, err := s.repo.ListFeedback(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return feedback, nil
}
