package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moments/internal/models"
)

func testData(t *testing.T) Data {
	t.Helper()
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{ID: "r", Title: "Breathe", Category: models.CategoryRelaxation},
		{ID: "m", Title: "Walk", Category: models.CategoryMovement},
	}
	logs := []models.Log{
		{ID: "1", EntryID: "m", Timestamp: now.Add(-time.Hour)},
		{ID: "2", EntryID: "m", Timestamp: now.Add(-2 * time.Hour)},
		{ID: "3", EntryID: "r", Timestamp: now.AddDate(0, 0, -2)},
	}
	return Build(logs, entries, now, time.UTC)
}

func TestBuild(t *testing.T) {
	data := testData(t)
	require.Len(t, data.Week, 7)
	assert.Equal(t, 2, data.Today[models.CategoryMovement])
	assert.Equal(t, []int{0, 0, 0, 0, 1, 0, 0}, data.Series(models.CategoryRelaxation))
	assert.Equal(t, []string{"Wed", "Thu", "Fri", "Sat", "Sun", "Mon", "Tue"}, data.Labels())
	assert.Equal(t, "2026-03-04 to 2026-03-10", data.subtitle())
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, testData(t)))

	out := buf.String()
	assert.Contains(t, out, "Last 7 days")
	assert.Contains(t, out, "Today")
	for _, c := range models.Categories() {
		assert.Contains(t, out, c.Label())
	}
	assert.Contains(t, out, models.CategoryMovement.Palette().Chart)
}

func TestPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "week.png")
	require.NoError(t, PNG(path, testData(t)))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), raw[:8])
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#5AC0EF")
	require.NoError(t, err)
	assert.Equal(t, uint8(0x5a), c.R)
	assert.Equal(t, uint8(0xc0), c.G)
	assert.Equal(t, uint8(0xef), c.B)
	assert.Equal(t, uint8(0xff), c.A)

	_, err = parseHex("blue")
	assert.Error(t, err)
}
