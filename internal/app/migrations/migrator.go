package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Migrator manages database migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger.With().Str("component", "migrator").Logger(),
	}
}

// migrationFile is one SQL file and the version taken from its name
type migrationFile struct {
	Name    string
	Version string
}

// versionOf extracts the version prefix ("001_init.sql" => "001")
func versionOf(filename string) string {
	return strings.SplitN(path.Base(filename), "_", 2)[0]
}

// listMigrations returns the .sql files at the root of fsys in name order.
// Two files sharing a version are rejected.
func listMigrations(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []migrationFile
	seen := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		version := versionOf(entry.Name())
		if other, ok := seen[version]; ok {
			return nil, fmt.Errorf("migrations %s and %s share version %s", other, entry.Name(), version)
		}
		seen[version] = entry.Name()
		files = append(files, migrationFile{Name: entry.Name(), Version: version})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ensureMigrationTableExists creates the migration tracking table if it doesn't exist
func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := m.db.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

// isMigrationApplied checks if a specific migration has already been applied
func (m *Migrator) isMigrationApplied(ctx context.Context, version string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1);`
	if err := m.db.QueryRow(ctx, query, version).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return exists, nil
}

// apply runs one migration and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, fsys fs.FS, file migrationFile) error {
	applied, err := m.isMigrationApplied(ctx, file.Version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug().Str("file", file.Name).Msg("Migration already applied, skipping")
		return nil
	}

	content, err := fs.ReadFile(fsys, file.Name)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("error occurred during SQL migration %s: %w", file.Name, err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)`,
		file.Version, time.Now()); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	m.logger.Info().Str("file", file.Name).Msg("Migration applied")
	return nil
}

// MigrateFS applies every pending migration found in fsys, in name order
func (m *Migrator) MigrateFS(ctx context.Context, fsys fs.FS) error {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return err
	}

	files, err := listMigrations(fsys)
	if err != nil {
		return err
	}

	for _, file := range files {
		if err := m.apply(ctx, fsys, file); err != nil {
			return err
		}
	}
	return nil
}

// MigrateFromDirectory finds and executes all SQL files in a directory
func (m *Migrator) MigrateFromDirectory(ctx context.Context, dirPath string) error {
	if _, err := os.Stat(dirPath); err != nil {
		return fmt.Errorf("migrations directory not found at %s: %w", dirPath, err)
	}
	return m.MigrateFS(ctx, os.DirFS(dirPath))
}
