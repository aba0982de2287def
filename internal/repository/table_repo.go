package repository

import (
	"context"

	"github.com/community-records-api/internal/database"
)

// tableRepo is the concrete implementation of TableRepository
type tableRepo struct {
	db *database.DB
}

// NewTableRepo creates a new table registry repository
func NewTableRepo(db *database.DB) TableRepository {
	return &tableRepo{db: db}
}

// Exists checks if a table with the given name is registered
func (r *tableRepo) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM record_tables WHERE name = $1)", name).Scan(&exists)
	return exists, err
}

// List returns all registered table names
func (r *tableRepo) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM record_tables ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
