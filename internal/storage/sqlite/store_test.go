package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/storage"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewStore(dbPath)
	require.NoError(t, store.Init(), "failed to init store")

	return store, func() { store.Close() }
}

func newEntry(title string, category models.Category, createdAt time.Time) models.Entry {
	return models.Entry{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "description of " + title,
		Category:    category,
		Icon:        models.DefaultIcon,
		CreatedAt:   createdAt,
	}
}

func newLog(entryID string, ts time.Time) models.Log {
	return models.Log{ID: uuid.NewString(), EntryID: entryID, Timestamp: ts}
}

var base = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestInitCreatesSchemaAndDefaults(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	for _, table := range []string{"entries", "activity_logs", "settings"} {
		var n int
		require.NoError(t, store.GetDB().QueryRow(
			"SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n))
		assert.Equal(t, 1, n, "table %s should exist", table)
	}

	rows, err := store.GetDB().Query(
		"SELECT name FROM sqlite_master WHERE type='index' AND name LIKE 'idx_%' ORDER BY name")
	require.NoError(t, err)
	var indexes []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		indexes = append(indexes, name)
	}
	require.NoError(t, rows.Err())
	rows.Close()
	assert.Equal(t, []string{"idx_activity_logs_entry_id", "idx_activity_logs_timestamp"}, indexes,
		"logs are looked up by moment and by time window")

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "Local", settings.Timezone)
	assert.True(t, settings.SeedDemo)
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	require.NoError(t, store.SaveSettings(models.Settings{Timezone: "Europe/Berlin", SeedDemo: false}))
	require.NoError(t, store.Init())

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", settings.Timezone, "re-init must not reset settings")
	assert.False(t, settings.SeedDemo)
}

func TestLoadRequiresInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moments init")
}

func TestLoadExistingDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(dbPath)
	require.NoError(t, first.Init())
	require.NoError(t, first.InsertEntry(newEntry("Walk", models.CategoryMovement, base)))
	require.NoError(t, first.Close())

	second := NewStore(dbPath)
	require.NoError(t, second.Load())
	defer second.Close()

	entries, err := second.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Walk", entries[0].Title)
}

func TestEntriesNewestFirst(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	older := newEntry("Older", models.CategoryRelaxation, base)
	newer := newEntry("Newer", models.CategoryCreativity, base.Add(time.Hour))
	require.NoError(t, store.InsertEntry(older))
	require.NoError(t, store.InsertEntry(newer))

	entries, err := store.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Newer", entries[0].Title)
	assert.Equal(t, "Older", entries[1].Title)
	assert.Equal(t, newer.CreatedAt.UnixMilli(), entries[0].CreatedAt.UnixMilli())
	assert.Equal(t, models.CategoryCreativity, entries[0].Category)
	assert.Equal(t, models.DefaultIcon, entries[0].Icon)
}

func TestEntriesSameTimestampKeepInsertOrder(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	require.NoError(t, store.InsertEntries([]models.Entry{
		newEntry("First", models.CategoryRelaxation, base),
		newEntry("Second", models.CategoryRelaxation, base),
	}))

	entries, err := store.ListEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Second", entries[0].Title)
}

func TestListEntriesByCategory(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	require.NoError(t, store.InsertEntries([]models.Entry{
		newEntry("Breathe", models.CategoryRelaxation, base),
		newEntry("Sketch", models.CategoryCreativity, base.Add(time.Minute)),
		newEntry("Walk", models.CategoryMovement, base.Add(2*time.Minute)),
		newEntry("Stretch", models.CategoryMovement, base.Add(3*time.Minute)),
	}))

	movement, err := store.ListEntriesByCategory(models.CategoryMovement)
	require.NoError(t, err)
	require.Len(t, movement, 2)
	for _, e := range movement {
		assert.Equal(t, models.CategoryMovement, e.Category)
	}
	assert.Equal(t, "Stretch", movement[0].Title)

	none, err := store.ListEntriesByCategory(models.Category("sleep"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestInsertEntriesIsAtomic(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	dup := newEntry("Dup", models.CategoryRelaxation, base)
	err := store.InsertEntries([]models.Entry{
		newEntry("Fine", models.CategoryRelaxation, base),
		dup,
		dup,
	})
	require.Error(t, err)

	entries, err := store.ListEntries()
	require.NoError(t, err)
	assert.Empty(t, entries, "failed batch must not leave partial rows")
}

func TestGetEntryAndFindByTitle(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	e := newEntry("Sketch", models.CategoryCreativity, base)
	require.NoError(t, store.InsertEntry(e))

	got, err := store.GetEntry(e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Title, got.Title)
	assert.Equal(t, e.Description, got.Description)

	_, err = store.GetEntry("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	found, err := store.FindEntriesByTitle("Sketch")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, e.ID, found[0].ID)

	found, err = store.FindEntriesByTitle("sketch")
	require.NoError(t, err)
	assert.Empty(t, found, "title lookup is exact")
}

func TestDeleteEntryByID(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	e := newEntry("Walk", models.CategoryMovement, base)
	require.NoError(t, store.InsertEntry(e))
	require.NoError(t, store.DeleteEntryByID(e.ID))

	_, err := store.GetEntry(e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.DeleteEntryByID(e.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLogsNewestFirstAndBetween(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	e := newEntry("Walk", models.CategoryMovement, base)
	require.NoError(t, store.InsertEntry(e))

	for i := 0; i < 3; i++ {
		require.NoError(t, store.InsertLog(newLog(e.ID, base.Add(time.Duration(i)*time.Hour))))
	}

	logs, err := store.ListLogs()
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].Timestamp.After(logs[1].Timestamp))
	assert.True(t, logs[1].Timestamp.After(logs[2].Timestamp))

	between, err := store.ListLogsBetween(base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, between, 1, "end bound is exclusive")
	assert.Equal(t, base.Add(time.Hour).UnixMilli(), between[0].Timestamp.UnixMilli())
}

func TestDeleteLogsForEntryAndOrphans(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	keep := newEntry("Keep", models.CategoryRelaxation, base)
	drop := newEntry("Drop", models.CategoryMovement, base)
	require.NoError(t, store.InsertEntries([]models.Entry{keep, drop}))
	require.NoError(t, store.InsertLog(newLog(keep.ID, base)))
	require.NoError(t, store.InsertLog(newLog(drop.ID, base)))
	require.NoError(t, store.InsertLog(newLog(drop.ID, base.Add(time.Minute))))

	require.NoError(t, store.DeleteEntryByID(drop.ID))
	orphans, err := store.CountOrphanLogs()
	require.NoError(t, err)
	assert.Equal(t, 2, orphans, "schema has no cascade")

	n, err := store.DeleteLogsForEntry(drop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	orphans, err = store.CountOrphanLogs()
	require.NoError(t, err)
	assert.Zero(t, orphans)

	logs, err := store.ListLogs()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, keep.ID, logs[0].EntryID)
}

func TestSubscribeReceivesWrites(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	ch, cancel := store.Subscribe()

	e := newEntry("Walk", models.CategoryMovement, base)
	require.NoError(t, store.InsertEntry(e))
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected a change notification after insert")
	}

	// Two writes without a read coalesce into one pending notification
	require.NoError(t, store.InsertLog(newLog(e.ID, base)))
	require.NoError(t, store.InsertLog(newLog(e.ID, base)))
	<-ch
	select {
	case <-ch:
		t.Fatal("notifications should coalesce")
	default:
	}

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel closes the channel")
	cancel()
}

func TestFailedWriteDoesNotNotify(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	ch, cancel := store.Subscribe()
	defer cancel()

	assert.ErrorIs(t, store.DeleteEntryByID("missing"), storage.ErrNotFound)
	n, err := store.DeleteLogsForEntry("missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	select {
	case <-ch:
		t.Fatal("no notification expected")
	default:
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	want := models.Settings{Timezone: "America/New_York", SeedDemo: false}
	require.NoError(t, store.SaveSettings(want))

	got, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMigrationsStatusAndRollback(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	runner, err := store.Migrations()
	require.NoError(t, err)

	st, err := runner.Status()
	require.NoError(t, err)
	assert.Equal(t, st.Latest, st.Current)
	assert.Zero(t, st.Pending)

	require.NoError(t, runner.Rollback(nil))
	st, err = runner.Status()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Pending)

	applied, err := runner.ApplyMigrations(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestIntegrityCheck(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	result, err := store.IntegrityCheck()
	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}
