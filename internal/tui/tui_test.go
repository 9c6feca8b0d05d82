package tui

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/repository"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/storage/sqlite"
	"github.com/julianstephens/moments/internal/viewmodel"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// setupTestModel builds a model over a fresh store. seed runs before the
// view model loads so its rows are part of the first snapshot.
func setupTestModel(t *testing.T, seed func(*repository.Repository)) (Model, *repository.Repository) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())

	repo := repository.New(store, repository.WithClock(func() time.Time { return fixedNow }))
	if seed != nil {
		seed(repo)
	}
	vm, err := viewmodel.New(context.Background(), repo)
	require.NoError(t, err)
	t.Cleanup(func() {
		vm.Close()
		store.Close()
	})

	m := NewModel(vm, time.UTC, func() time.Time { return fixedNow })
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 200})
	return next.(Model), repo
}

// runCmd executes cmd with a deadline and returns its message
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for command")
		return nil
	}
}

var cmdType = reflect.TypeOf((*tea.Cmd)(nil)).Elem()

// collect runs cmd and flattens batches and sequences into their messages.
// Commands that do not finish quickly, such as cursor blinks and subscription
// waits, are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}
	if msg == nil {
		return nil
	}

	v := reflect.ValueOf(msg)
	if v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			sub, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, collect(sub)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// drive sends each message to m and feeds back the messages its commands
// produce before moving on to the next one
func drive(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		queue := []tea.Msg{msg}
		for i := 0; len(queue) > 0; i++ {
			require.Less(t, i, 200, "model never settled")
			next, cmd := m.Update(queue[0])
			m = next.(Model)
			queue = append(queue[1:], collect(cmd)...)
		}
	}
	return m
}

func typed(s string) []tea.Msg {
	var msgs []tea.Msg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

// pumpEntries feeds entry updates into m until pred holds
func pumpEntries(t *testing.T, m Model, pred func(Model) bool) Model {
	t.Helper()
	for i := 0; i < 20; i++ {
		if pred(m) {
			return m
		}
		next, _ := m.Update(runCmd(t, m.waitForEntries()))
		m = next.(Model)
	}
	t.Fatal("condition never held")
	return m
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m Model, s string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

func TestEmptyStateHint(t *testing.T) {
	m, _ := setupTestModel(t, nil)
	m = pumpEntries(t, m, func(m Model) bool { return true })

	view := m.View()
	assert.Contains(t, view, "Activities")
	assert.Contains(t, view, "No moments yet.")
}

func TestTabsCycle(t *testing.T) {
	m, _ := setupTestModel(t, nil)

	m, _ = press(m, "tab")
	assert.Equal(t, constants.StateStatistics, m.state)
	assert.Contains(t, m.View(), "Last 7 days")
	assert.Contains(t, m.View(), "Recorded activities")

	m, _ = press(m, "tab")
	assert.Equal(t, constants.StateAbout, m.state)
	assert.Contains(t, m.View(), constants.Version)

	m, _ = press(m, "tab")
	assert.Equal(t, constants.StateActivities, m.state)
}

func TestFilterChips(t *testing.T) {
	m, _ := setupTestModel(t, func(repo *repository.Repository) {
		_, err := repo.AddEntry("Tea", "Slow cup of tea", models.CategoryRelaxation, models.IconRelax)
		require.NoError(t, err)
		_, err = repo.AddEntry("Run", "Evening run", models.CategoryMovement, models.IconExercise)
		require.NoError(t, err)
	})
	m = pumpEntries(t, m, func(m Model) bool { return len(m.entries) == 2 })
	assert.Equal(t, 2, m.entryList.Len())

	m, _ = press(m, "4")
	assert.Equal(t, stats.Filter(models.CategoryMovement), m.filter)
	assert.Equal(t, 1, m.entryList.Len())

	m, _ = press(m, "left")
	assert.Equal(t, stats.Filter(models.CategoryCreativity), m.filter)
	assert.Equal(t, 0, m.entryList.Len())
	assert.Contains(t, m.View(), "No Creativity moments.")

	m, _ = press(m, "right")
	m, _ = press(m, "right")
	assert.Equal(t, stats.FilterAll, m.filter, "filters wrap around")
	assert.Equal(t, 2, m.entryList.Len())
}

func TestRecordAndDelete(t *testing.T) {
	m, repo := setupTestModel(t, func(repo *repository.Repository) {
		_, err := repo.AddEntry("Tea", "Slow cup of tea", models.CategoryRelaxation, models.IconRelax)
		require.NoError(t, err)
	})
	m = pumpEntries(t, m, func(m Model) bool { return len(m.entries) == 1 })

	// enter emits a record message which the model turns into a log
	m, cmd := press(m, "enter")
	next, _ := m.Update(runCmd(t, cmd))
	m = next.(Model)
	assert.Contains(t, m.View(), "Recorded “Tea”")

	require.Eventually(t, func() bool {
		logs, err := repo.Logs()
		return err == nil && len(logs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	m, cmd = press(m, "d")
	next, _ = m.Update(runCmd(t, cmd))
	m = next.(Model)
	require.Equal(t, constants.StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), "Delete “Tea”?")

	m, _ = press(m, "n")
	assert.Equal(t, constants.StateActivities, m.state)

	m, cmd = press(m, "d")
	next, _ = m.Update(runCmd(t, cmd))
	m = next.(Model)
	m, _ = press(m, "y")
	assert.Equal(t, constants.StateActivities, m.state)

	m = pumpEntries(t, m, func(m Model) bool { return len(m.entries) == 0 })
	assert.Contains(t, m.View(), "Deleted “Tea”")
	logs, err := repo.Logs()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestAddFormOpensAndCancels(t *testing.T) {
	m, _ := setupTestModel(t, nil)
	m, _ = press(m, "3")

	m, cmd := press(m, "a")
	next, _ := m.Update(runCmd(t, cmd))
	m = next.(Model)
	require.Equal(t, constants.StateAddEntry, m.state)
	assert.Equal(t, models.CategoryCreativity, m.entryForm.Category, "form preselects the filtered category")
	assert.True(t, strings.Contains(m.View(), "New moment"))

	m, _ = press(m, "esc")
	assert.Equal(t, constants.StateActivities, m.state)
}

func TestStatisticsShowsFeed(t *testing.T) {
	m, _ := setupTestModel(t, func(repo *repository.Repository) {
		entry, err := repo.AddEntry("Tea", "Slow cup of tea", models.CategoryRelaxation, models.IconRelax)
		require.NoError(t, err)
		_, err = repo.AddLog(entry.ID)
		require.NoError(t, err)
	})

	m = pumpEntries(t, m, func(m Model) bool { return len(m.entries) == 1 })
	for i := 0; i < 20 && !strings.Contains(m.statsModel.View(), "01.03.2025 12:00"); i++ {
		next, _ := m.Update(runCmd(t, m.waitForLogs()))
		m = next.(Model)
	}

	m, _ = press(m, "tab")
	view := m.View()
	assert.Contains(t, view, "01.03.2025 12:00")
	assert.Contains(t, view, "Tea")
	assert.NotContains(t, view, "Nothing recorded today yet.")
}

func TestAddFormSubmitCreatesEntry(t *testing.T) {
	m, repo := setupTestModel(t, nil)
	m, _ = press(m, "4")

	m = drive(t, m, keyPress("a"))
	require.Equal(t, constants.StateAddEntry, m.state)

	var msgs []tea.Msg
	msgs = append(msgs, typed("Evening walk")...)
	msgs = append(msgs, keyPress("enter"))
	msgs = append(msgs, typed("Around the block")...)
	// description, category and icon
	msgs = append(msgs, keyPress("enter"), keyPress("enter"), keyPress("enter"))
	m = drive(t, m, msgs...)

	require.Equal(t, constants.StateActivities, m.state)
	assert.Contains(t, m.View(), "Added “Evening walk”")

	m = pumpEntries(t, m, func(m Model) bool { return len(m.entries) == 1 })
	got := m.entries[0]
	assert.Equal(t, "Evening walk", got.Title)
	assert.Equal(t, "Around the block", got.Description)
	assert.Equal(t, models.CategoryMovement, got.Category)
	assert.Equal(t, models.DefaultIcon, got.Icon)

	stored, err := repo.Entries()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Evening walk", stored[0].Title)
}

func TestAddFormBlocksInvalidTitle(t *testing.T) {
	m, repo := setupTestModel(t, nil)
	m = drive(t, m, keyPress("a"))

	// enter on an empty title keeps the form on the first field
	m = drive(t, m, keyPress("enter"), keyPress("enter"), keyPress("enter"), keyPress("enter"))
	assert.Equal(t, constants.StateAddEntry, m.state)

	stored, err := repo.Entries()
	require.NoError(t, err)
	assert.Empty(t, stored)
}
