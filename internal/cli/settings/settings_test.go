package settings

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moments/internal/cli"
	"github.com/julianstephens/moments/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "moments.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	ctx := cli.NewContext(store, "")
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out
}

func TestSettingsShowsDefaults(t *testing.T) {
	ctx, out := setupTestContext(t)
	require.NoError(t, (&SettingsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Timezone:  Local")
	assert.Contains(t, out.String(), "Seed demo: true")
	assert.NotContains(t, out.String(), "updated")
}

func TestSettingsUpdate(t *testing.T) {
	ctx, _ := setupTestContext(t)
	off := false
	require.NoError(t, (&SettingsCmd{Timezone: "Europe/Berlin", SeedDemo: &off}).Run(ctx))

	settings, err := ctx.Store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", settings.Timezone)
	assert.False(t, settings.SeedDemo)
}

func TestSettingsRejectsBadTimezone(t *testing.T) {
	ctx, _ := setupTestContext(t)
	err := (&SettingsCmd{Timezone: "Mars/Olympus"}).Run(ctx)
	require.Error(t, err)

	settings, err := ctx.Store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, "Local", settings.Timezone)
}
