package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/tui/components/entrylist"
	"github.com/julianstephens/moments/internal/tui/components/statistics"
	"github.com/julianstephens/moments/internal/validation"
	"github.com/julianstephens/moments/internal/viewmodel"
)

type entriesMsg []viewmodel.EntryView

type logsMsg []viewmodel.LogView

type Model struct {
	vm            *viewmodel.ViewModel
	validator     *validation.Validator
	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	entryList     entrylist.Model
	statsModel    statistics.Model
	form          *huh.Form
	entryForm     *EntryFormModel
	filter        stats.Filter
	entries       []viewmodel.EntryView
	entriesCh     <-chan []viewmodel.EntryView
	logsCh        <-chan []viewmodel.LogView
	entryToDelete *viewmodel.EntryView
	status        string
	quitting      bool
	width         int
	height        int
}

// NewModel builds the TUI over vm. Days are bucketed in loc; now is the clock
// for the statistics window and may be nil.
func NewModel(vm *viewmodel.ViewModel, loc *time.Location, now func() time.Time) Model {
	entriesCh, _ := vm.Entries.Subscribe()
	logsCh, _ := vm.Logs.Subscribe()

	return Model{
		vm:         vm,
		validator:  validation.New(),
		state:      constants.StateActivities,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		entryList:  entrylist.New(nil, 0, 0),
		statsModel: statistics.New(loc, now, 0, 0),
		filter:     stats.FilterAll,
		entriesCh:  entriesCh,
		logsCh:     logsCh,
	}
}

// waitFor turns the next value on ch into a message. A closed channel ends
// the subscription.
func waitFor[T any, M any](ch <-chan T, wrap func(T) M) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		if !ok {
			return nil
		}
		return wrap(v)
	}
}

func (m Model) waitForEntries() tea.Cmd {
	return waitFor(m.entriesCh, func(v []viewmodel.EntryView) entriesMsg { return entriesMsg(v) })
}

func (m Model) waitForLogs() tea.Cmd {
	return waitFor(m.logsCh, func(v []viewmodel.LogView) logsMsg { return logsMsg(v) })
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEntries(), m.waitForLogs())
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateActivities:
		lk := m.entryList.Keys()
		keys = append(keys, lk.Add, lk.Record, lk.Delete, m.keys.Filter)
	case constants.StateConfirmDelete:
		keys = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == constants.StateActivities {
		lk := m.entryList.Keys()
		navigation = append(navigation, m.keys.PrevFilter, m.keys.NextFilter, m.keys.Filter)
		actions = []key.Binding{lk.Add, lk.Record, lk.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

// visibleEntries applies the current filter chip
func (m Model) visibleEntries() []viewmodel.EntryView {
	return stats.FilterEntries(m.entries, m.filter, func(e viewmodel.EntryView) models.Category {
		return e.Category
	})
}

func (m *Model) setFilter(f stats.Filter) {
	m.filter = f
	m.entryList.SetFilter(f)
	m.entryList.SetEntries(m.visibleEntries())
}

// defaultCategory preselects the filtered category in the add form
func (m Model) defaultCategory() models.Category {
	if m.filter != stats.FilterAll {
		return models.Category(m.filter)
	}
	return models.CategoryRelaxation
}
