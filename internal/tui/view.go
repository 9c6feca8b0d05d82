package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateActivities:
		content = m.viewActivities()
	case constants.StateStatistics:
		content = m.viewStatistics()
	case constants.StateAbout:
		content = m.viewAbout()
	case constants.StateAddEntry:
		content = docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("New moment"),
			"",
			m.form.View(),
		))
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		status,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active == constants.StateAddEntry || active == constants.StateConfirmDelete {
		active = m.previousState
	}

	var tabs []string
	tabTitles := []string{"Activities", "Statistics", "About"}
	for i, title := range tabTitles {
		if constants.MainStates[i] == active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewChips() string {
	var chips []string
	for i, f := range stats.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f != m.filter {
			chips = append(chips, inactiveChipStyle.Render(label))
			continue
		}
		color := "205"
		if f != stats.FilterAll {
			color = models.Category(f).Palette().Chart
		}
		chips = append(chips, activeChipStyle(color).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) viewActivities() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.viewChips(),
		"",
		m.entryList.View(),
	))
}

func (m Model) viewStatistics() string {
	return docStyle.Render(m.statsModel.View())
}

func (m Model) viewAbout() string {
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(constants.AppName+" "+constants.Version),
		"",
		"A small companion for collecting everyday moments.",
		"",
		"Create a moment once, then record it each time you do it.",
		"The Statistics tab shows the last seven days and today at a glance.",
		"",
		mutedStyle.Render("Data stays on this device in a local SQLite file."),
		mutedStyle.Render("Run 'moments doctor' to check it, 'moments backup create' to save a copy."),
	))
}

func (m Model) viewConfirmDelete() string {
	title := ""
	if m.entryToDelete != nil {
		title = m.entryToDelete.Title
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete “%s”?", title)),
			"Its recorded activities are removed as well.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
