package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/tui/components/entrylist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Subscriptions are served in every state so the data never goes stale
	switch msg := msg.(type) {
	case entriesMsg:
		m.entries = msg
		m.entryList.SetEntries(m.visibleEntries())
		m.statsModel.SetEntries(msg)
		return m, m.waitForEntries()
	case logsMsg:
		m.statsModel.SetFeed(msg)
		return m, m.waitForLogs()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h, v := docStyle.GetFrameSize()
		// tabs, chips and help
		chrome := 7
		m.entryList.SetSize(msg.Width-h, msg.Height-v-chrome)
		m.statsModel.SetSize(msg.Width-h, msg.Height-v-chrome+3)
		return m, nil
	}

	if m.state == constants.StateAddEntry {
		return m.updateForm(msg)
	}
	if m.state == constants.StateConfirmDelete {
		return m.updateConfirmDelete(msg)
	}

	switch msg := msg.(type) {
	case entrylist.AddEntryMsg:
		m.entryForm = &EntryFormModel{
			Category: m.defaultCategory(),
			Icon:     models.DefaultIcon,
		}
		m.form = NewEntryForm(m.entryForm, m.validator)
		m.previousState = m.state
		m.state = constants.StateAddEntry
		m.status = ""
		return m, m.form.Init()

	case entrylist.RecordMsg:
		m.vm.AddLog(msg.Entry.ID)
		m.status = fmt.Sprintf("Recorded “%s”", msg.Entry.Title)
		return m, nil

	case entrylist.DeleteEntryMsg:
		entry := msg.Entry
		m.entryToDelete = &entry
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.switchTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.switchTab(-1)
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		if m.state == constants.StateActivities {
			filters := stats.Filters()
			switch {
			case key.Matches(msg, m.keys.PrevFilter):
				m.setFilter(filters[(m.filterIndex()-1+len(filters))%len(filters)])
				return m, nil
			case key.Matches(msg, m.keys.NextFilter):
				m.setFilter(filters[(m.filterIndex()+1)%len(filters)])
				return m, nil
			case key.Matches(msg, m.keys.Filter):
				idx := int(msg.String()[0] - '1')
				if idx >= 0 && idx < len(filters) {
					m.setFilter(filters[idx])
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateActivities:
		m.entryList, cmd = m.entryList.Update(msg)
		cmds = append(cmds, cmd)
	case constants.StateStatistics:
		m.statsModel, cmd = m.statsModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) switchTab(step int) {
	n := len(constants.MainStates)
	idx := 0
	for i, s := range constants.MainStates {
		if s == m.state {
			idx = i
		}
	}
	m.state = constants.MainStates[(idx+step+n)%n]
	m.status = ""
	if m.state == constants.StateStatistics {
		// The window may have moved past midnight since the last render
		m.statsModel.Render()
	}
}

func (m Model) filterIndex() int {
	for i, f := range stats.Filters() {
		if f == m.filter {
			return i
		}
	}
	return 0
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		fm := m.entryForm
		m.vm.AddEntry(fm.Title, fm.Description, fm.Category, fm.Icon)
		m.status = fmt.Sprintf("Added “%s”", fm.Title)
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if m.entryToDelete != nil {
			m.vm.DeleteEntry(m.entryToDelete.ID)
			m.status = fmt.Sprintf("Deleted “%s”", m.entryToDelete.Title)
		}
		m.entryToDelete = nil
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Cancel):
		m.entryToDelete = nil
		m.state = m.previousState
	}
	return m, nil
}
