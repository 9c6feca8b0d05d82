package backup

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/logger"
)

const stampFormat = "20060102-150405"

// Info describes a snapshot file
type Info struct {
	Path      string
	Name      string
	Timestamp time.Time
	// Seq is the collision counter of snapshots taken in the same second
	Seq       int
	Size      int64
}

// Manager creates, lists, rotates and restores snapshots of the database file
type Manager struct {
	dbPath    string
	backupDir string
	keep      int
	now       func() time.Time
}

type Option func(*Manager)

// WithClock overrides the clock used to name snapshots
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithKeep sets how many snapshots survive rotation
func WithKeep(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.keep = n
		}
	}
}

// NewManager creates a manager whose snapshots live next to dbPath
func NewManager(dbPath string, opts ...Option) *Manager {
	m := &Manager{
		dbPath:    dbPath,
		backupDir: filepath.Join(filepath.Dir(dbPath), constants.BackupDirName),
		keep:      constants.MaxBackups,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the snapshot directory
func (m *Manager) Dir() string {
	return m.backupDir
}

// Create snapshots the database and rotates old snapshots
func (m *Manager) Create() (Info, error) {
	return m.create(true)
}

func (m *Manager) create(rotate bool) (Info, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return Info{}, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("database does not exist: %s", m.dbPath)
	}

	path, err := m.nextPath()
	if err != nil {
		return Info{}, err
	}
	if err := m.snapshot(path); err != nil {
		return Info{}, fmt.Errorf("failed to backup database: %w", err)
	}

	if rotate {
		if err := m.rotate(); err != nil {
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	return stat(path)
}

// nextPath picks a file name for the current second. Later snapshots in the
// same second get a counter above every existing one, so rotation never frees
// a name that would sort older than its neighbours.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(stampFormat)
	existing, err := m.List()
	if err != nil {
		return "", err
	}

	seq := -1
	for _, b := range existing {
		if b.Timestamp.Format(stampFormat) == stamp && b.Seq > seq {
			seq = b.Seq
		}
	}
	name := constants.BackupFilePrefix + stamp + constants.BackupFileSuffix
	if seq >= 0 {
		name = fmt.Sprintf("%s%s-%d%s", constants.BackupFilePrefix, stamp, seq+1, constants.BackupFileSuffix)
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("failed to generate unique backup filename")
	}
	return path, nil
}

func (m *Manager) snapshot(dest string) error {
	src, err := sql.Open("sqlite", m.dbPath+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	var count int
	if err := src.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	if _, err := src.Exec("VACUUM INTO ?", dest); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "error", err)
		src.Close()
		return copyFile(m.dbPath, dest)
	}
	return nil
}

// List returns every snapshot, newest first
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := stat(filepath.Join(m.backupDir, entry.Name()))
		if err != nil {
			continue
		}
		backups = append(backups, info)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		if backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Seq > backups[j].Seq
		}
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})
	return backups, nil
}

// Resolve accepts a snapshot path or a bare file name from List
func (m *Manager) Resolve(ref string) (string, error) {
	candidates := []string{ref}
	if !filepath.IsAbs(ref) && !strings.ContainsRune(ref, filepath.Separator) {
		candidates = append([]string{filepath.Join(m.backupDir, ref)}, candidates...)
	}
	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("backup file does not exist: %s", ref)
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := m.keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
		logger.Debug("removed old backup", "path", backups[i].Path)
	}
	return nil
}

// Restore replaces the database with the snapshot at path. The current
// database, if any, is snapshotted first; its Info is returned (zero when
// there was nothing to save). The store must be closed by the caller.
func (m *Manager) Restore(path string) (Info, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Info{}, fmt.Errorf("backup file does not exist: %s", path)
	}
	if err := verify(path); err != nil {
		return Info{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var saved Info
	if _, err := os.Stat(m.dbPath); err == nil {
		saved, err = m.create(false)
		if err != nil {
			return Info{}, fmt.Errorf("failed to backup current database before restore: %w", err)
		}
		logger.Info("saved current database before restore", "path", saved.Path)
	}

	tmp := m.dbPath + ".restore.tmp"
	if err := copyFile(path, tmp); err != nil {
		return saved, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tmp, m.dbPath); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			logger.Warn("failed to remove temporary file", "path", tmp, "error", rmErr)
		}
		return saved, fmt.Errorf("failed to restore database: %w", err)
	}
	return saved, nil
}

// verify checks that path is a SQLite database carrying the entries table
func verify(path string) error {
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return err
	}
	defer db.Close()

	var n int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='entries'").Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no entries table")
	}
	return nil
}

// stat parses a snapshot file name. Files not named like snapshots are rejected.
func stat(path string) (Info, error) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
		return Info{}, fmt.Errorf("not a backup file: %s", name)
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupFilePrefix), constants.BackupFileSuffix)
	seq := 0
	if len(stamp) > len(stampFormat) && stamp[len(stampFormat)] == '-' {
		n, err := strconv.Atoi(stamp[len(stampFormat)+1:])
		if err != nil || n < 1 {
			return Info{}, fmt.Errorf("invalid backup counter in %s", name)
		}
		seq = n
		stamp = stamp[:len(stampFormat)]
	}
	ts, err := time.ParseInLocation(stampFormat, stamp, time.Local)
	if err != nil {
		return Info{}, fmt.Errorf("invalid backup timestamp in %s: %w", name, err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	return Info{Path: path, Name: name, Timestamp: ts, Seq: seq, Size: fi.Size()}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
