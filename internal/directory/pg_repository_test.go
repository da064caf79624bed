package directory

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patientRows(patients ...Patient) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone",
		"date_of_birth", "address", "notes", "created_at", "updated_at",
	})
	for _, p := range patients {
		rows.AddRow(p.ID, p.FirstName, p.LastName, p.Email, p.Phone,
			p.DateOfBirth, p.Address, p.Notes, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

func TestPgInsertPatient(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	email := "jane@example.com"
	now := time.Now().UTC()
	stored := Patient{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     &email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WithArgs(pgxmock.AnyArg(), "Jane", "Doe", &email,
			(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnRows(patientRows(stored))

	repo := NewPgRepository(mock)
	got, err := repo.InsertPatient(context.Background(), NewPatient{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     &email,
	})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, "jane@example.com", *got.Email)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgSearchPatientsWithQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	stored := Patient{ID: uuid.New(), FirstName: "Jane", LastName: "Doe", CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery("ILIKE").
		WithArgs("%jan%", 50).
		WillReturnRows(patientRows(stored))

	repo := NewPgRepository(mock)
	got, err := repo.SearchPatients(context.Background(), "jan", 50)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Jane", got[0].FirstName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgSearchPatientsEmptyQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM patients")).
		WithArgs(10).
		WillReturnRows(patientRows())

	repo := NewPgRepository(mock)
	got, err := repo.SearchPatients(context.Background(), "", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgInsertFeedback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	comments := "Great visit"
	stored := Feedback{
		ID:        uuid.New(),
		Rating:    5,
		Comments:  &comments,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO feedback")).
		WithArgs(pgxmock.AnyArg(), (*string)(nil), 5, &comments, (*string)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "patient_id", "rating", "comments", "visit_date", "created_at",
		}).AddRow(stored.ID, stored.PatientID, stored.Rating, stored.Comments, stored.VisitDate, stored.CreatedAt))

	repo := NewPgRepository(mock)
	got, err := repo.InsertFeedback(context.Background(), NewFeedback{
		Rating:   5,
		Comments: &comments,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)
	assert.Equal(t, "Great visit", *got.Comments)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgListFeedback(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM feedback")).
		WithArgs(100).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "patient_id", "rating", "comments", "visit_date", "created_at",
		}).AddRow(uuid.New(), (*string)(nil), 4, (*string)(nil), (*string)(nil), time.Now().UTC()))

	repo := NewPgRepository(mock)
	got, err := repo.ListFeedback(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Rating)

	assert.NoError(t, mock.ExpectationsWereMet())
}
