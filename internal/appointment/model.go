package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusNoShow      Status = "no_show"
	StatusRescheduled Status = "rescheduled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// Appointment references a patient by an unvalidated string identifier and
// keeps start/end exactly as submitted: ISO-8601 strings, never parsed or
// normalized. Overlap comparisons rely on ISO-8601 ordering lexically.
type Appointment struct {
	ID        uuid.UUID `json:"id"`
	PatientID string    `json:"patient_id"`
	Reason    string    `json:"reason"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Provider  *string   `json:"provider,omitempty"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NewAppointment struct {
	PatientID string
	Reason    string
	StartTime string
	EndTime   string
	Provider  *string
	Status    Status
}

// Overlaps reports whether [aStart, aEnd) intersects [bStart, bEnd) under the
// half-open interval rule: a.start < b.end AND a.end > b.start.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// ListFilter holds optional exact-match criteria for listing appointments.
type ListFilter struct {
	PatientID *string
	Provider  *string
	Status    *string
}

// Update is a partial update; nil fields are left untouched.
type Update struct {
	Status    *Status
	StartTime *string
	EndTime   *string
}

func (u Update) Empty() bool {
	return u.Status == nil && u.StartTime == nil && u.EndTime == nil
}
