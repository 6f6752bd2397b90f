package exclusions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles exclusion period database operations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new exclusion period repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create creates a new exclusion period
func (r *Repository) Create(ctx context.Context, period *ExclusionPeriod) error {
	query := `
		INSERT INTO exclusion_periods (
			id, name, description, start_date, end_date,
			is_recurring, recurring_type, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		period.ID, period.Name, period.Description, period.StartDate, period.EndDate,
		period.IsRecurring, period.RecurringType, period.CreatedAt, period.UpdatedAt,
	)
	return err
}

// GetByID gets an exclusion period by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*ExclusionPeriod, error) {
	query := `
		SELECT id, name, description, start_date, end_date,
			is_recurring, recurring_type, created_at, updated_at
		FROM exclusion_periods
		WHERE id = $1
	`

	var period ExclusionPeriod
	err := r.db.QueryRow(ctx, query, id).Scan(
		&period.ID, &period.Name, &period.Description, &period.StartDate, &period.EndDate,
		&period.IsRecurring, &period.RecurringType, &period.CreatedAt, &period.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &period, nil
}

// List lists all exclusion periods ordered by start date. The table is small
// (staff-managed holiday windows), so overlap checks read it in full.
func (r *Repository) List(ctx context.Context) ([]ExclusionPeriod, error) {
	query := `
		SELECT id, name, description, start_date, end_date,
			is_recurring, recurring_type, created_at, updated_at
		FROM exclusion_periods
		ORDER BY start_date ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []ExclusionPeriod
	for rows.Next() {
		var period ExclusionPeriod
		err := rows.Scan(
			&period.ID, &period.Name, &period.Description, &period.StartDate, &period.EndDate,
			&period.IsRecurring, &period.RecurringType, &period.CreatedAt, &period.UpdatedAt,
		)
		if err != nil {
			continue
		}
		periods = append(periods, period)
	}

	return periods, nil
}

// Update updates an exclusion period
func (r *Repository) Update(ctx context.Context, period *ExclusionPeriod) error {
	query := `
		UPDATE exclusion_periods
		SET name = $1, description = $2, start_date = $3, end_date = $4,
			is_recurring = $5, recurring_type = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err := r.db.Exec(ctx, query,
		period.Name, period.Description, period.StartDate, period.EndDate,
		period.IsRecurring, period.RecurringType, period.ID,
	)
	return err
}

// Delete deletes an exclusion period
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM exclusion_periods WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
