// Package schedules loads doctors' recurring weekly availability blocks.
package schedules

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kinopsis/agensalud/internal/availability"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository reads weekly availability blocks from Postgres.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("schedules: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting mocks for tests.
func NewRepositoryWithDB(db DB) *Repository {
	return &Repository{db: db}
}

// ListActiveBlocks returns the active blocks for an organization on one
// weekday, optionally narrowed to a single doctor. Times come back as
// "HH:MM" strings; the availability engine owns further validation.
func (r *Repository) ListActiveBlocks(ctx context.Context, orgID, doctorID string, weekday time.Weekday) ([]availability.WeeklyBlock, error) {
	query := `
		SELECT doctor_id, day_of_week, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
		FROM doctor_schedules
		WHERE organization_id = $1 AND day_of_week = $2 AND is_active`
	args := []any{orgID, int(weekday)}
	if doctorID != "" {
		query += ` AND doctor_id = $3`
		args = append(args, doctorID)
	}
	query += ` ORDER BY doctor_id, start_time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("schedules: list active blocks: %w", err)
	}
	defer rows.Close()

	var blocks []availability.WeeklyBlock
	for rows.Next() {
		var (
			b   availability.WeeklyBlock
			dow int
		)
		if err := rows.Scan(&b.ProviderID, &dow, &b.StartTime, &b.EndTime); err != nil {
			return nil, fmt.Errorf("schedules: scan block: %w", err)
		}
		b.DayOfWeek = time.Weekday(dow)
		b.IsActive = true
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedules: iterate blocks: %w", err)
	}
	return blocks, nil
}
