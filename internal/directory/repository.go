package directory

import "context"

// Repository contains all DB interactions needed by the service.
type Repository interface {
	InsertPatient(ctx context.Context, n NewPatient) (*Patient, error)

	// SearchPatients matches q as a case-insensitive substring of first
	// name, last name, email or phone. Empty q returns everything up to
	// limit.
	SearchPatients(ctx context.Context, q string, limit int) ([]Patient, error)

	InsertFeedback(ctx context.Context, n NewFeedback) (*Feedback, error)
	ListFeedback(ctx context.Context, limit int) ([]Feedback, error)
}
