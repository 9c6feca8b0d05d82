// Package stats aggregates logs into the per-day category counts and the
// activity feed shown on the statistics screen.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
)

// Counts maps every category to its number of logs. All categories are present.
type Counts map[models.Category]int

func newCounts() Counts {
	c := make(Counts, len(models.Categories()))
	for _, cat := range models.Categories() {
		c[cat] = 0
	}
	return c
}

// Total sums all category counts
func (c Counts) Total() int {
	total := 0
	for _, v := range c {
		total += v
	}
	return total
}

// DayCounts holds the counts for one calendar day; Day is local midnight.
type DayCounts struct {
	Day    time.Time
	Counts Counts
}

// Window returns the WindowDays calendar days ending with today, oldest first.
// Each value is midnight in loc.
func Window(today time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	t := today.In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)

	days := make([]time.Time, constants.WindowDays)
	for i := range days {
		days[i] = midnight.AddDate(0, 0, i-(constants.WindowDays-1))
	}
	return days
}

// Bounds returns the half-open instant range [start, end) covered by days
func Bounds(days []time.Time) (time.Time, time.Time) {
	if len(days) == 0 {
		return time.Time{}, time.Time{}
	}
	return days[0], days[len(days)-1].AddDate(0, 0, 1)
}

// CountsByDay buckets logs into days by their local calendar date and counts
// them per category. Logs outside the window or whose entry no longer exists
// are skipped.
func CountsByDay(logs []models.Log, entries []models.Entry, days []time.Time, loc *time.Location) []DayCounts {
	if loc == nil {
		loc = time.Local
	}

	out := make([]DayCounts, len(days))
	index := make(map[string]int, len(days))
	for i, d := range days {
		out[i] = DayCounts{Day: d, Counts: newCounts()}
		index[d.In(loc).Format(constants.DateFormat)] = i
	}

	byID := Index(entries)
	for _, l := range logs {
		entry, ok := byID[l.EntryID]
		if !ok {
			continue
		}
		i, ok := index[l.Timestamp.In(loc).Format(constants.DateFormat)]
		if !ok {
			continue
		}
		out[i].Counts[entry.Category]++
	}
	return out
}

// TodayCounts is the last day of the window, or empty counts for an empty window
func TodayCounts(week []DayCounts) Counts {
	if len(week) == 0 {
		return newCounts()
	}
	return week[len(week)-1].Counts
}

// MaxTotal is the largest daily total in the window, at least 1
func MaxTotal(week []DayCounts) int {
	max := 1
	for _, d := range week {
		if t := d.Counts.Total(); t > max {
			max = t
		}
	}
	return max
}

// Index maps entries by ID
func Index(entries []models.Entry) map[string]models.Entry {
	byID := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	return byID
}

// FeedItem is one row of the activity feed. Orphan is set when the log's
// entry has been deleted; Title and Icon then hold placeholders.
type FeedItem struct {
	LogID     string
	EntryID   string
	Timestamp time.Time
	Title     string
	Category  models.Category
	Icon      models.Icon
	Orphan    bool
}

// CategoryLabel returns the display label, or the unknown placeholder for orphans
func (f FeedItem) CategoryLabel() string {
	if f.Orphan {
		return constants.OrphanCategory
	}
	return f.Category.Label()
}

func (f FeedItem) Palette() models.Palette {
	if f.Orphan {
		return models.UnknownPalette
	}
	return f.Category.Palette()
}

// Glyph returns the entry icon glyph, or the neutral glyph for orphans
func (f FeedItem) Glyph() string {
	if f.Orphan {
		return models.UnknownGlyph
	}
	return f.Icon.Glyph()
}

// Feed joins logs with their entries, newest first
func Feed(logs []models.Log, entries []models.Entry) []FeedItem {
	byID := Index(entries)
	items := make([]FeedItem, 0, len(logs))
	for _, l := range logs {
		item := FeedItem{LogID: l.ID, EntryID: l.EntryID, Timestamp: l.Timestamp}
		if e, ok := byID[l.EntryID]; ok {
			item.Title = e.Title
			item.Category = e.Category
			item.Icon = e.Icon
		} else {
			item.Title = constants.OrphanTitle
			item.Orphan = true
		}
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	return items
}

// Filter selects entries for the activities list
type Filter string

// FilterAll disables category filtering
const FilterAll Filter = "All"

// Filters returns All followed by every category, in chip order
func Filters() []Filter {
	out := []Filter{FilterAll}
	for _, c := range models.Categories() {
		out = append(out, Filter(c))
	}
	return out
}

func (f Filter) Label() string {
	if f == FilterAll || f == "" {
		return string(FilterAll)
	}
	return models.Category(f).Label()
}

// Matches reports whether an entry of category c passes the filter
func (f Filter) Matches(c models.Category) bool {
	return f == FilterAll || f == "" || models.Category(f) == c
}

// FilterEntries keeps the items whose category passes the filter, preserving order
func FilterEntries[E any](items []E, filter Filter, category func(E) models.Category) []E {
	if filter == FilterAll || filter == "" {
		return items
	}
	out := make([]E, 0, len(items))
	for _, item := range items {
		if filter.Matches(category(item)) {
			out = append(out, item)
		}
	}
	return out
}
