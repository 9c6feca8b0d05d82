// Package report exports the weekly and daily statistics as HTML (go-echarts)
// or PNG (gonum/plot) files.
package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/moments/internal/chart"
	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
)

// Data is everything a report needs, computed once from logs and entries
type Data struct {
	Week      []stats.DayCounts
	Today     stats.Counts
	Generated time.Time
}

// Build aggregates logs over the trailing window ending at now
func Build(logs []models.Log, entries []models.Entry, now time.Time, loc *time.Location) Data {
	week := stats.CountsByDay(logs, entries, stats.Window(now, loc), loc)
	return Data{
		Week:      week,
		Today:     stats.TodayCounts(week),
		Generated: now,
	}
}

// Labels returns the weekday label for every day of the window
func (d Data) Labels() []string {
	labels := make([]string, len(d.Week))
	for i, day := range d.Week {
		labels[i] = chart.WeekdayLabel(day)
	}
	return labels
}

// Series returns one value per day for the category
func (d Data) Series(c models.Category) []int {
	values := make([]int, len(d.Week))
	for i, day := range d.Week {
		values[i] = day.Counts[c]
	}
	return values
}

func (d Data) subtitle() string {
	if len(d.Week) == 0 {
		return ""
	}
	first := d.Week[0].Day.Format(constants.DateFormat)
	last := d.Week[len(d.Week)-1].Day.Format(constants.DateFormat)
	return fmt.Sprintf("%s to %s", first, last)
}

// parseHex turns #RRGGBB into an opaque color
func parseHex(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
