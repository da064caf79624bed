package directory

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	db DB
}

func NewPgRepository(db DB) *PgRepository {
	return &PgRepository{db: db}
}

const patientColumns = "id, first_name, last_name, email, phone, date_of_birth, address, notes, created_at, updated_at"

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.Email,
		&p.Phone,
		&p.DateOfBirth,
		&p.Address,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) InsertPatient(ctx context.Context, n NewPatient) (*Patient, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO patients (id, first_name, last_name, email, phone, date_of_birth, address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+patientColumns+`
	`, id, n.FirstName, n.LastName, n.Email, n.Phone, n.DateOfBirth, n.Address, n.Notes)

	return scanPatient(row)
}

func (r *PgRepository) SearchPatients(ctx context.Context, q string, limit int) ([]Patient, error) {
	var rows pgx.Rows
	var err error

	if q != "" {
		pattern := "%" + q + "%"
		rows, err = r.db.Query(ctx, `
			SELECT `+patientColumns+`
			FROM patients
			WHERE first_name ILIKE $1
			   OR last_name ILIKE $1
			   OR email ILIKE $1
			   OR phone ILIKE $1
			LIMIT $2
		`, pattern, limit)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT `+patientColumns+`
			FROM patients
			LIMIT $1
		`, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Patient{}
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

const feedbackColumns = "id, patient_id, rating, comments, visit_date, created_at"

func scanFeedback(row pgx.Row) (*Feedback, error) {
	var f Feedback

	err := row.Scan(
		&f.ID,
		&f.PatientID,
		&f.Rating,
		&f.Comments,
		&f.VisitDate,
		&f.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

func (r *PgRepository) InsertFeedback(ctx context.Context, n NewFeedback) (*Feedback, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO feedback (id, patient_id, rating, comments, visit_date, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING `+feedbackColumns+`
	`, id, n.PatientID, n.Rating, n.Comments, n.VisitDate)

	return scanFeedback(row)
}

func (r *PgRepository) ListFeedback(ctx context.Context, limit int) ([]Feedback, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+feedbackColumns+`
		FROM feedback
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
