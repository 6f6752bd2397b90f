package menutypes

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles menu type database operations
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new menu type repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create creates a new menu type
func (r *Repository) Create(ctx context.Context, menuType *MenuType) error {
	query := `
		INSERT INTO menu_types (id, name, amount, template_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		menuType.ID, menuType.Name, menuType.Amount, menuType.TemplateID,
		menuType.CreatedAt, menuType.UpdatedAt,
	)
	return err
}

// GetByID gets a menu type by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*MenuType, error) {
	query := `
		SELECT id, name, amount, template_id, created_at, updated_at
		FROM menu_types
		WHERE id = $1
	`

	var menuType MenuType
	err := r.db.QueryRow(ctx, query, id).Scan(
		&menuType.ID, &menuType.Name, &menuType.Amount, &menuType.TemplateID,
		&menuType.CreatedAt, &menuType.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &menuType, nil
}

// GetByName gets a menu type by its unique name
func (r *Repository) GetByName(ctx context.Context, name string) (*MenuType, error) {
	query := `
		SELECT id, name, amount, template_id, created_at, updated_at
		FROM menu_types
		WHERE name = $1
	`

	var menuType MenuType
	err := r.db.QueryRow(ctx, query, name).Scan(
		&menuType.ID, &menuType.Name, &menuType.Amount, &menuType.TemplateID,
		&menuType.CreatedAt, &menuType.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &menuType, nil
}

// List lists all menu types ordered by name
func (r *Repository) List(ctx context.Context) ([]MenuType, error) {
	query := `
		SELECT id, name, amount, template_id, created_at, updated_at
		FROM menu_types
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menuTypes []MenuType
	for rows.Next() {
		var menuType MenuType
		err := rows.Scan(
			&menuType.ID, &menuType.Name, &menuType.Amount, &menuType.TemplateID,
			&menuType.CreatedAt, &menuType.UpdatedAt,
		)
		if err != nil {
			continue
		}
		menuTypes = append(menuTypes, menuType)
	}

	return menuTypes, nil
}

// Update updates a menu type
func (r *Repository) Update(ctx context.Context, menuType *MenuType) error {
	query := `
		UPDATE menu_types
		SET name = $1, amount = $2, template_id = $3, updated_at = NOW()
		WHERE id = $4
	`

	_, err := r.db.Exec(ctx, query,
		menuType.Name, menuType.Amount, menuType.TemplateID, menuType.ID,
	)
	return err
}

// Delete deletes a menu type
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM menu_types WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// CountGiftCards counts gift cards referencing a menu type
func (r *Repository) CountGiftCards(ctx context.Context, menuTypeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gift_cards WHERE menu_type_id = $1`, menuTypeID).Scan(&count)
	return count, err
}
