package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Patient model related methods.
	CreatePatient(ctx context.Context, create *Patient) (*Patient, error)
	ListPatients(ctx context.Context, find *FindPatient) ([]*Patient, error)
	CountPatients(ctx context.Context, find *FindPatient) (int, error)
	UpdatePatient(ctx context.Context, update *UpdatePatient) (*Patient, error)
	DeletePatient(ctx context.Context, delete *DeletePatient) (*Patient, error)

	// Note model related methods.
	CreateNote(ctx context.Context, create *Note) (*Note, error)
	ListNotes(ctx context.Context, find *FindNote) ([]*Note, error)
	CountNotes(ctx context.Context, find *FindNote) (int, error)
	UpdateNote(ctx context.Context, update *UpdateNote) (*Note, error)
	DeleteNote(ctx context.Context, delete *DeleteNote) (*Note, error)
}
