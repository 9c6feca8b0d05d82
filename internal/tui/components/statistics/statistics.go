package statistics

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moments/internal/chart"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/utils"
	"github.com/julianstephens/moments/internal/viewmodel"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			MarginBottom(1)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(18)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	orphanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

type Model struct {
	viewport viewport.Model
	entries  []viewmodel.EntryView
	feed     []viewmodel.LogView
	loc      *time.Location
	now      func() time.Time
}

func New(loc *time.Location, now func() time.Time, width, height int) Model {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	m := Model{
		viewport: viewport.New(width, height),
		loc:      loc,
		now:      now,
	}
	m.Render()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetEntries(entries []viewmodel.EntryView) {
	m.entries = entries
	m.Render()
}

func (m *Model) SetFeed(feed []viewmodel.LogView) {
	m.feed = feed
	m.Render()
}

// week rebuilds the per-day counts from the feed; orphaned items drop out
// because their entry is missing.
func (m Model) week() []stats.DayCounts {
	entries := make([]models.Entry, len(m.entries))
	for i, e := range m.entries {
		entries[i] = e.Entry
	}
	logs := make([]models.Log, 0, len(m.feed))
	for _, item := range m.feed {
		logs = append(logs, models.Log{ID: item.LogID, EntryID: item.EntryID, Timestamp: item.Timestamp})
	}
	return stats.CountsByDay(logs, entries, stats.Window(m.now(), m.loc), m.loc)
}

// Render redraws the content; call it when the day may have changed
func (m *Model) Render() {
	week := m.week()
	today := stats.TodayCounts(week)
	legend := chart.Legend(models.Categories())

	weekBlock := lipgloss.JoinVertical(lipgloss.Left,
		sectionStyle.Render("Last 7 days"),
		chart.StackedBars(week, chart.DefaultBarOptions()),
		legend,
	)

	todayParts := []string{sectionStyle.Render("Today")}
	if today.Total() == 0 {
		todayParts = append(todayParts, hintStyle.Render("Nothing recorded today yet."))
	}
	todayParts = append(todayParts, chart.Pie(today, chart.DefaultPieOptions()), legend)
	todayBlock := lipgloss.JoinVertical(lipgloss.Left, todayParts...)

	charts := lipgloss.JoinHorizontal(lipgloss.Top, weekBlock, "    ", todayBlock)
	if m.viewport.Width > 0 && lipgloss.Width(charts) > m.viewport.Width {
		charts = lipgloss.JoinVertical(lipgloss.Left, weekBlock, "", todayBlock)
	}

	var b strings.Builder
	b.WriteString(charts)
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("Recorded activities"))
	b.WriteString("\n")
	if len(m.feed) == 0 {
		b.WriteString(hintStyle.Render("No activities recorded yet. Select a moment and press enter."))
	}
	for _, item := range m.feed {
		b.WriteString(m.feedLine(item))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m Model) feedLine(item viewmodel.LogView) string {
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color(item.Palette().Chart)).Render("●")
	title := titleStyle.Render(item.Title)
	if item.Orphan {
		title = orphanStyle.Render(item.Title)
	}
	return fmt.Sprintf("%s %s %s %s  %s",
		timeStyle.Render(utils.FormatFeedTimestamp(item.Timestamp, m.loc)),
		marker, item.Glyph(), title,
		hintStyle.Render(item.CategoryLabel()))
}
