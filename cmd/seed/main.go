package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smileworks/dental-receptionist/internal/db"
)

var providers = []string{
	"Dr. Patel",
	"Dr. Gomez",
	"Dr. Okafor",
	"Hygienist Lee",
	"Hygienist Ramos",
}

var visitReasons = []string{
	"Cleaning",
	"Checkup",
	"Filling",
	"Crown prep",
	"Whitening consult",
	"Toothache",
	"X-rays",
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	patientIDs, err := seedPatients(context.Background(), pool, 500)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, patientIDs, 14); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d patients", count)

	const batchSize = 100
	ids := make([]uuid.UUID, 0, count)

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return nil, err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			dob := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2015, 12, 31, 0, 0, 0, 0, time.UTC),
			).Format("2006-01-02")

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, first_name, last_name, email, phone, date_of_birth, address, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			`, id, gofakeit.FirstName(), gofakeit.LastName(), gofakeit.Email(),
				"+1"+gofakeit.Numerify("##########"), dob, gofakeit.Address().Address)
			if err != nil {
				_ = tx.Rollback(ctx)
				return nil, err
			}

			ids = append(ids, id)
		}

		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	return ids, nil
}

// seedAppointments fills a 30-minute grid per provider over the coming days,
// so the seeded data never violates the overlap invariant.
func seedAppointments(ctx context.Context, pool *pgxpool.Pool, patientIDs []uuid.UUID, days int) error {
	log.Printf("seeding appointments for %d providers over %d days", len(providers), days)

	dayStart := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	total := 0
	for day := 0; day < days; day++ {
		for _, provider := range providers {
			// Morning block: 8:00 to 12:00, every other slot booked.
			slot := dayStart.Add(time.Duration(day)*24*time.Hour + 8*time.Hour)
			for i := 0; i < 8; i += 2 {
				start := slot.Add(time.Duration(i) * 30 * time.Minute)
				endT := start.Add(30 * time.Minute)
				patient := patientIDs[gofakeit.Number(0, len(patientIDs)-1)]
				reason := visitReasons[gofakeit.Number(0, len(visitReasons)-1)]

				_, err := tx.Exec(ctx, `
					INSERT INTO appointments (id, patient_id, reason, start_time, end_time, provider, status, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, 'scheduled', now(), now())
				`, uuid.New(), patient.String(), reason,
					start.Format(time.RFC3339), endT.Format(time.RFC3339), provider)
				if err != nil {
					return err
				}
				total++
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Printf("appointments seeded: %d", total)
	return nil
}
