package store

import (
	"context"
	"embed"
	"log/slog"
	"path"

	"github.com/pkg/errors"
)

// Migration Files:
// - Location: store/migration/{driver}/LATEST.sql
// - LATEST.sql holds the full schema and is applied to fresh installations.
//
// The schema is small enough that incremental migrations are not kept;
// upgrades ship a new LATEST.sql and existing installations are expected to
// be recreated or migrated by hand.

//go:embed migration
var migrationFS embed.FS

// Migrate initializes the database schema if it is not present yet.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := path.Join("migration", s.profile.Driver, "LATEST.sql")
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	slog.Info("database schema initialized", "driver", s.profile.Driver)
	return nil
}
