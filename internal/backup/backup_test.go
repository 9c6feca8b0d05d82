package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/repository"
	"github.com/julianstephens/moments/internal/storage/sqlite"
)

// stepClock returns a clock that advances one second per call
func stepClock(start time.Time) func() time.Time {
	t := start.Add(-time.Second)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func setupDB(t *testing.T) (string, *repository.Repository, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "moments.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	return dbPath, repository.New(store), store
}

func TestNewManagerPlacesBackupsNextToDatabase(t *testing.T) {
	m := NewManager("/tmp/x/moments.db")
	assert.Equal(t, filepath.Join("/tmp/x", "backups"), m.Dir())
}

func TestCreateBackup(t *testing.T) {
	dbPath, repo, _ := setupDB(t)
	_, err := repo.AddEntry("Tea", "Slow cup of tea", models.CategoryRelaxation, models.DefaultIcon)
	require.NoError(t, err)

	start := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	m := NewManager(dbPath, WithClock(stepClock(start)))

	info, err := m.Create()
	require.NoError(t, err)
	assert.Equal(t, "moments-20250301-093000.db", info.Name)
	assert.True(t, info.Timestamp.Equal(start))
	assert.Positive(t, info.Size)
	assert.FileExists(t, info.Path)
}

func TestCreateBackupMissingDatabase(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	_, err := m.Create()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database does not exist")
}

func TestCreateBackupSameSecondAddsCounter(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	m := NewManager(dbPath, WithClock(func() time.Time { return fixed }))

	first, err := m.Create()
	require.NoError(t, err)
	second, err := m.Create()
	require.NoError(t, err)

	assert.Equal(t, "moments-20250301-093000.db", first.Name)
	assert.Equal(t, "moments-20250301-093000-1.db", second.Name)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.Name, list[0].Name)
}

func TestSameSecondOrderingUsesCounter(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)
	m := NewManager(dbPath, WithClock(func() time.Time { return fixed }), WithKeep(3))

	var last Info
	for i := 0; i < 12; i++ {
		info, err := m.Create()
		require.NoError(t, err)
		last = info
	}
	assert.Equal(t, "moments-20250301-093000-11.db", last.Name)
	assert.Equal(t, 11, last.Seq)

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "moments-20250301-093000-11.db", list[0].Name)
	assert.Equal(t, "moments-20250301-093000-10.db", list[1].Name)
	assert.Equal(t, "moments-20250301-093000-9.db", list[2].Name)
	assert.FileExists(t, last.Path, "rotation keeps the newest snapshot")
}

func TestListBackupsEmptyAndIgnoresStrangers(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	m := NewManager(dbPath)

	list, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, os.MkdirAll(m.Dir(), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "notes.txt"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(m.Dir(), "moments-garbage.db"), []byte("x"), 0600))

	list, err = m.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRotationKeepsNewest(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	m := NewManager(dbPath, WithClock(stepClock(start)), WithKeep(3))

	var names []string
	for i := 0; i < 5; i++ {
		info, err := m.Create()
		require.NoError(t, err)
		names = append(names, info.Name)
	}

	list, err := m.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, names[4], list[0].Name)
	assert.Equal(t, names[2], list[2].Name)
	assert.NoFileExists(t, filepath.Join(m.Dir(), names[0]))
}

func TestResolve(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	m := NewManager(dbPath)
	info, err := m.Create()
	require.NoError(t, err)

	path, err := m.Resolve(info.Name)
	require.NoError(t, err)
	assert.Equal(t, info.Path, path)

	path, err = m.Resolve(info.Path)
	require.NoError(t, err)
	assert.Equal(t, info.Path, path)

	_, err = m.Resolve("moments-nope.db")
	assert.Error(t, err)
}

func TestRestoreRejectsInvalidFile(t *testing.T) {
	dbPath, _, _ := setupDB(t)
	m := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	require.NoError(t, os.WriteFile(bogus, []byte("not a database"), 0600))

	_, err := m.Restore(bogus)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupted or invalid")

	_, err = m.Restore(filepath.Join(t.TempDir(), "absent.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestBackupRestoreWorkflow(t *testing.T) {
	dbPath, repo, store := setupDB(t)
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)
	m := NewManager(dbPath, WithClock(stepClock(start)))

	_, err := repo.AddEntry("Tea", "Slow cup of tea", models.CategoryRelaxation, models.DefaultIcon)
	require.NoError(t, err)

	snap, err := m.Create()
	require.NoError(t, err)

	_, err = repo.AddEntry("Run", "Evening run", models.CategoryMovement, models.IconExercise)
	require.NoError(t, err)
	entries, err := repo.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, store.Close())

	saved, err := m.Restore(snap.Path)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.Path)
	assert.FileExists(t, saved.Path)

	restored := sqlite.NewStore(dbPath)
	require.NoError(t, restored.Load())
	defer restored.Close()

	entries, err = restored.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tea", entries[0].Title)

	list, err := m.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
