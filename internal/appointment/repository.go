package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// ListActiveForProvider returns appointments for the given provider
	// (nil matches only appointments that also have no provider) whose
	// status is scheduled or rescheduled. Used by the conflict check.
	ListActiveForProvider(ctx context.Context, provider *string) ([]Appointment, error)

	Insert(ctx context.Context, n NewAppointment) (*Appointment, error)
	List(ctx context.Context, f ListFilter, limit int) ([]Appointment, error)

	// Update applies the non-nil fields and stamps updated_at. Returns
	// ErrAppointmentNotFound when no row matches.
	Update(ctx context.Context, id uuid.UUID, u Update) (*Appointment, error)
}
