package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/julianstephens/moments/internal/logger"
)

// Status summarises the schema state of a database
type Status struct {
	Current int
	Latest  int
	Dirty   bool
	Pending int
}

// Runner manages database schema migrations
type Runner struct {
	db *sql.DB
	fs fs.FS
}

// NewRunner creates a new migration runner over a directory of
// NNN_name.up.sql / NNN_name.down.sql files
func NewRunner(db *sql.DB, migrationFS fs.FS) *Runner {
	return &Runner{
		db: db,
		fs: migrationFS,
	}
}

// newMigrate builds a migrate instance bound to the runner's database.
// The instance is never closed because that would close the shared *sql.DB.
func (r *Runner) newMigrate() (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(r.fs, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open migrations source: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{}

	return m, src, nil
}

// versions lists every migration version available in the source, ascending
func versions(src source.Driver) ([]int, error) {
	var out []int
	v, err := src.First()
	for err == nil {
		out = append(out, int(v))
		v, err = src.Next(v)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	return out, nil
}

// Status reports current, latest and pending migration counts
func (r *Runner) Status() (Status, error) {
	m, src, err := r.newMigrate()
	if err != nil {
		return Status{}, err
	}

	var st Status
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("failed to get current version: %w", err)
	}
	st.Current = int(version)
	st.Dirty = dirty

	all, err := versions(src)
	if err != nil {
		return Status{}, err
	}
	for _, v := range all {
		if v > st.Current {
			st.Pending++
		}
		st.Latest = v
	}
	return st, nil
}

// ApplyMigrations applies all pending migrations up to the latest version
// Returns the number of migrations applied
func (r *Runner) ApplyMigrations(logFn func(string)) (int, error) {
	if logFn == nil {
		logFn = func(s string) {} // no-op logger
	}

	st, err := r.Status()
	if err != nil {
		return 0, err
	}
	if st.Dirty {
		return 0, fmt.Errorf("database schema version %d is dirty - restore a backup or run 'moments migrate down'", st.Current)
	}
	if st.Latest == 0 {
		logFn("No migration files found")
		return 0, nil
	}
	if st.Current > st.Latest {
		return 0, fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", st.Current, st.Latest)
	}
	if st.Pending == 0 {
		logFn(fmt.Sprintf("Database schema is up to date (version %d)", st.Current))
		return 0, nil
	}

	logFn(fmt.Sprintf("Current schema version: %d", st.Current))
	logFn(fmt.Sprintf("Target schema version: %d", st.Latest))
	logFn(fmt.Sprintf("Applying %d migration(s)...", st.Pending))

	m, _, err := r.newMigrate()
	if err != nil {
		return 0, err
	}

	startTime := time.Now()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migration up failed: %w", err)
	}

	logFn(fmt.Sprintf("Applied %d migration(s) in %v", st.Pending, time.Since(startTime)))
	return st.Pending, nil
}

// Rollback reverts the most recently applied migration
func (r *Runner) Rollback(logFn func(string)) error {
	if logFn == nil {
		logFn = func(s string) {}
	}

	m, _, err := r.newMigrate()
	if err != nil {
		return err
	}
	if err := m.Steps(-1); err != nil {
		if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, fs.ErrNotExist) {
			logFn("Nothing to roll back")
			return nil
		}
		return fmt.Errorf("migration down failed: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	logFn(fmt.Sprintf("Rolled back to schema version %d", version))
	return nil
}

// ValidateVersion checks if the database version is compatible with the application
func (r *Runner) ValidateVersion() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if st.Dirty {
		return fmt.Errorf("database schema version %d is dirty", st.Current)
	}
	if st.Current > st.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d) - please upgrade the application", st.Current, st.Latest)
	}
	return nil
}

// migrateLogger forwards golang-migrate output to the application logger
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	logger.Debug(fmt.Sprintf("[migrate] "+format, v...))
}

func (l *migrateLogger) Verbose() bool {
	return false
}
