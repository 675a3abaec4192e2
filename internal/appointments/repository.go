// Package appointments loads the booked intervals that occupy provider time.
package appointments

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinopsis/agensalud/internal/availability"
)

// Statuses that occupy provider time. Cancelled and completed appointments
// never block new slots.
var blockingStatuses = []string{"confirmed", "pending"}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads booked appointment intervals from Postgres.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

// ListBookedIntervals returns the confirmed/pending intervals for an
// organization on a date, optionally narrowed to a single doctor. Rows with
// inverted or unparsable times are excluded and reported as diagnostics so
// one corrupt appointment cannot sink the whole availability query.
func (r *Repository) ListBookedIntervals(ctx context.Context, orgID, doctorID, date string) ([]availability.BookedInterval, []availability.Diagnostic, error) {
	query := `
		SELECT doctor_id, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM appointments
		WHERE organization_id = $1 AND appointment_date = $2 AND status = ANY($3)`
	args := []any{orgID, date, blockingStatuses}
	if doctorID != "" {
		query += ` AND doctor_id = $4`
		args = append(args, doctorID)
	}
	query += ` ORDER BY doctor_id, start_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("appointments: list booked intervals: %w", err)
	}
	defer rows.Close()

	var (
		booked      []availability.BookedInterval
		diagnostics []availability.Diagnostic
	)
	for rows.Next() {
		var providerID, start, end string
		if err := rows.Scan(&providerID, &start, &end); err != nil {
			return nil, nil, fmt.Errorf("appointments: scan interval: %w", err)
		}
		interval, err := availability.ParseBookedInterval(providerID, start, end)
		if err != nil {
			diagnostics = append(diagnostics, availability.Diagnostic{
				ProviderID: providerID,
				Reason:     fmt.Sprintf("appointment skipped: %v", err),
			})
			continue
		}
		booked = append(booked, interval)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("appointments: iterate intervals: %w", err)
	}
	return booked, diagnostics, nil
}
