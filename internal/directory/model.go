package directory

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       *string   `json:"email,omitempty"`
	Phone       *string   `json:"phone,omitempty"` // E.164 if available
	DateOfBirth *string   `json:"date_of_birth,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewPatient struct {
	FirstName   string
	LastName    string
	Email       *string
	Phone       *string
	DateOfBirth *string
	Address     *string
	Notes       *string
}

// Feedback is append-only; there is no update or delete path.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	PatientID *string   `json:"patient_id,omitempty"`
	Rating    int       `json:"rating"`
	Comments  *string   `json:"comments,omitempty"`
	VisitDate *string   `json:"visit_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type NewFeedback struct {
	PatientID *string
	Rating    int
	Comments  *string
	VisitDate *string
}
