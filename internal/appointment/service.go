package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smileworks/dental-receptionist/internal/observability/metrics"
	redisclient "github.com/smileworks/dental-receptionist/internal/redis"
)

var (
	ErrTimeSlotTaken    = errors.New("time slot not available")
	ErrNoFieldsToUpdate = errors.New("no fields to update")
	ErrProviderBusy     = errors.New("provider schedule is being updated, please retry")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo    Repository
	locker  redisclient.Locker
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, m *metrics.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		locker:  locker,
		metrics: m,
		logger:  logger,
	}
}

// Schedule persists a new appointment unless it overlaps an active one for
// the same provider. The check-then-write sequence runs inside a per-provider
// lock so concurrent bookings cannot both pass the overlap check.
func (s *Service) Schedule(ctx context.Context, n NewAppointment) (*Appointment, error) {
	if n.Status == "" {
		n.Status = StatusScheduled
	}

	var created *Appointment

	err := s.locker.WithProviderLock(ctx, n.Provider, func(lockCtx context.Context) error {
		active, err := s.repo.ListActiveForProvider(lockCtx, n.Provider)
		if err != nil {
			return fmt.Errorf("load active appointments: %w", err)
		}

		for _, existing := range active {
			if Overlaps(n.StartTime, n.EndTime, existing.StartTime, existing.EndTime) {
				return ErrTimeSlotTaken
			}
		}

		appt, err := s.repo.Insert(lockCtx, n)
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrProviderBusy
		}
		if errors.Is(err, ErrTimeSlotTaken) {
			s.metrics.AppointmentConflict()
			return nil, ErrTimeSlotTaken
		}
		return nil, err
	}

	s.metrics.AppointmentCreated()
	s.logger.Info().
		Str("appointment_id", created.ID.String()).
		Str("patient_id", created.PatientID).
		Str("start_time", created.StartTime).
		Str("end_time", created.EndTime).
		Msg("appointment scheduled")

	return created, nil
}

func (s *Service) List(ctx context.Context, f ListFilter, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	appointments, err := s.repo.List(ctx, f, limit)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, nil
}

// Update applies a partial update. Rescheduled times are not re-checked for
// overlap; callers that need a guaranteed slot should cancel and rebook.
func (s *Service) Update(ctx context.Context, id uuid.UUID, u Update) (*Appointment, error) {
	if u.Empty() {
		return nil, ErrNoFieldsToUpdate
	}

	appt, err := s.repo.Update(ctx, id, u)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update appointment: %w", err)
	}
	return appt, nil
}

// Cancel is a logical delete: the row stays, status becomes cancelled.
// Cancelling an already cancelled appointment succeeds and restamps
// updated_at.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	status := StatusCancelled
	appt, err := s.repo.Update(ctx, id, Update{Status: &status})
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	return appt, nil
}
