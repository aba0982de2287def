package repository

import (
	"context"

	"github.com/community-records-api/internal/database"
	"github.com/community-records-api/internal/records"
	"github.com/rs/zerolog"
)

// TableRepository defines the interface for the registry of platform tables
type TableRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Records records.Client
	Tables  TableRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB, log zerolog.Logger) *Repositories {
	tables := NewTableRepo(db)
	return &Repositories{
		Records: NewRecordRepo(db, tables, log),
		Tables:  tables,
	}
}
