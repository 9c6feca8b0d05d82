package entrylist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/viewmodel"
)

type AddEntryMsg struct{}

type RecordMsg struct {
	Entry viewmodel.EntryView
}

type DeleteEntryMsg struct {
	Entry viewmodel.EntryView
}

type Item struct {
	Entry viewmodel.EntryView
}

func (i Item) Title() string       { return i.Entry.Glyph() + " " + i.Entry.Title }
func (i Item) Description() string { return i.Entry.CategoryLabel() + " · " + firstLine(i.Entry.Description) }
func (i Item) FilterValue() string { return i.Entry.Title }

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx] + " …"
	}
	return s
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedTitle = titleStyle.Foreground(lipgloss.Color("205"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// cardDelegate draws each entry as a two-line card with a marker bar in the
// category color.
type cardDelegate struct{}

func (d cardDelegate) Height() int                             { return 2 }
func (d cardDelegate) Spacing() int                            { return 1 }
func (d cardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(Item)
	if !ok {
		return
	}
	marker := lipgloss.NewStyle().Foreground(lipgloss.Color(item.Entry.Palette().Chart))
	bar := "┃"
	title := titleStyle
	if index == m.Index() {
		bar = "█"
		title = selectedTitle
	}

	width := m.Width() - 4
	desc := item.Description()
	if width > 0 && lipgloss.Width(desc) > width {
		desc = truncate(desc, width)
	}
	fmt.Fprintf(w, "%s %s\n%s %s",
		marker.Render(bar), title.Render(item.Title()),
		marker.Render(bar), descStyle.Render(desc))
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

type KeyMap struct {
	Add    key.Binding
	Record key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Record: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", "record"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list   list.Model
	keys   KeyMap
	filter stats.Filter
}

func New(entries []viewmodel.EntryView, width, height int) Model {
	l := list.New(nil, cardDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	// left/right and digits belong to the filter chips
	l.KeyMap.PrevPage = key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "prev page"))
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "next page"))

	m := Model{list: l, keys: DefaultKeyMap(), filter: stats.FilterAll}
	m.SetEntries(entries)
	return m
}

func (m *Model) SetEntries(entries []viewmodel.EntryView) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
}

// SetFilter records the active filter for the empty-state hint
func (m *Model) SetFilter(f stats.Filter) {
	m.filter = f
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Selected() (viewmodel.EntryView, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Entry, ok
}

func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Record):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return RecordMsg{Entry: e} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if e, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{Entry: e} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		if m.filter == stats.FilterAll || m.filter == "" {
			return hintStyle.Render("\n  No moments yet.\n  Press 'a' to add one.")
		}
		return hintStyle.Render(fmt.Sprintf("\n  No %s moments.\n  Press 'a' to add one.", m.filter.Label()))
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
