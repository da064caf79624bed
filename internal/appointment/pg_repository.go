package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repository uses, narrowed so tests can
// substitute a pgxmock pool.
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

const appointmentColumns = "id, patient_id, reason, start_time, end_time, provider, status, created_at, updated_at"

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var provider *string

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.Reason,
		&a.StartTime,
		&a.EndTime,
		&provider,
		&a.Status,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Provider = provider
	return &a, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	defer rows.Close()

	out := []Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *PgRepository) ListActiveForProvider(ctx context.Context, provider *string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE provider IS NOT DISTINCT FROM $1
		  AND status IN ('scheduled', 'rescheduled')
	`, provider)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) Insert(ctx context.Context, n NewAppointment) (*Appointment, error) {
	id := uuid.New()

	row := r.db.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, reason, start_time, end_time, provider, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+appointmentColumns+`
	`, id, n.PatientID, n.Reason, n.StartTime, n.EndTime, n.Provider, n.Status)

	return scanAppointment(row)
}

func (r *PgRepository) List(ctx context.Context, f ListFilter, limit int) ([]Appointment, error) {
	where := []string{}
	args := []any{}

	if f.PatientID != nil {
		args = append(args, *f.PatientID)
		where = append(where, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if f.Provider != nil {
		args = append(args, *f.Provider)
		where = append(where, fmt.Sprintf("provider = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT " + appointmentColumns + " FROM appointments"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectAppointments(rows)
}

func (r *PgRepository) Update(ctx context.Context, id uuid.UUID, u Update) (*Appointment, error) {
	set := []string{}
	args := []any{id}

	if u.Status != nil {
		args = append(args, *u.Status)
		set = append(set, fmt.Sprintf("status = $%d", len(args)))
	}
	if u.StartTime != nil {
		args = append(args, *u.StartTime)
		set = append(set, fmt.Sprintf("start_time = $%d", len(args)))
	}
	if u.EndTime != nil {
		args = append(args, *u.EndTime)
		set = append(set, fmt.Sprintf("end_time = $%d", len(args)))
	}
	set = append(set, "updated_at = now()")

	row := r.db.QueryRow(ctx, `
		UPDATE appointments
		SET `+strings.Join(set, ", ")+`
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, args...)

	return scanAppointment(row)
}
