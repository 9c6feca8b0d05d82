// Package chart draws the weekly stacked bar chart, the daily pie and their
// legend as styled terminal text.
package chart

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
)

const (
	fullBlock = "█"
	baseline  = "─"
	ring      = "·"
)

type BarOptions struct {
	Height   int
	BarWidth int
	Gap      int
}

func DefaultBarOptions() BarOptions {
	return BarOptions{Height: 8, BarWidth: 4, Gap: 2}
}

type PieOptions struct {
	// Radius in rows; the pie is twice as wide in columns
	Radius int
}

func DefaultPieOptions() PieOptions {
	return PieOptions{Radius: 5}
}

var (
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	legendStyle = lipgloss.NewStyle().MarginRight(2)
)

func categoryStyle(c models.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Palette().Chart))
}

// StackedBars renders one bar per day scaled to the busiest day, a baseline
// and short weekday labels.
func StackedBars(week []stats.DayCounts, opts BarOptions) string {
	if opts.Height < 1 {
		opts = DefaultBarOptions()
	}
	maxTotal := stats.MaxTotal(week)

	// columns[i][row] holds the category of bar i at row (0 = bottom)
	columns := make([][]models.Category, len(week))
	for i, day := range week {
		col := make([]models.Category, 0, opts.Height)
		for _, seg := range BarSegments(day.Counts, maxTotal, opts.Height) {
			for r := 0; r < seg.Rows; r++ {
				col = append(col, seg.Category)
			}
		}
		columns[i] = col
	}

	gap := strings.Repeat(" ", opts.Gap)
	blank := strings.Repeat(" ", opts.BarWidth)
	block := strings.Repeat(fullBlock, opts.BarWidth)

	var b strings.Builder
	for row := opts.Height - 1; row >= 0; row-- {
		cells := make([]string, len(columns))
		for i, col := range columns {
			if row < len(col) {
				cells[i] = categoryStyle(col[row]).Render(block)
			} else {
				cells[i] = blank
			}
		}
		b.WriteString(strings.Join(cells, gap))
		b.WriteString("\n")
	}

	width := len(week)*opts.BarWidth + (len(week)-1)*opts.Gap
	if width < 0 {
		width = 0
	}
	b.WriteString(emptyStyle.Render(strings.Repeat(baseline, width)))
	b.WriteString("\n")

	labels := make([]string, len(week))
	for i, day := range week {
		labels[i] = labelStyle.Width(opts.BarWidth).Align(lipgloss.Center).Render(WeekdayLabel(day))
	}
	b.WriteString(strings.Join(labels, gap))
	return b.String()
}

// WeekdayLabel is the short weekday name of a day, trimmed to three letters
func WeekdayLabel(day stats.DayCounts) string {
	return day.Day.Weekday().String()[:3]
}

// Pie rasterises the day's counts into a character disc. An empty day draws
// only the outline.
func Pie(counts stats.Counts, opts PieOptions) string {
	if opts.Radius < 1 {
		opts = DefaultPieOptions()
	}
	slices := PieSlices(counts)
	r := float64(opts.Radius)
	rows := 2*opts.Radius + 1
	cols := 4*opts.Radius + 1

	var b strings.Builder
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			dy := float64(y - opts.Radius)
			dx := float64(x-2*opts.Radius) / 2
			dist := math.Hypot(dx, dy)

			switch {
			case len(slices) == 0:
				if math.Abs(dist-r) < 0.5 {
					b.WriteString(emptyStyle.Render(ring))
				} else {
					b.WriteString(" ")
				}
			case dist <= r+0.25:
				if s, ok := sliceAt(slices, clockAngle(dx, dy)); ok {
					b.WriteString(categoryStyle(s.Category).Render(fullBlock))
				} else {
					b.WriteString(" ")
				}
			default:
				b.WriteString(" ")
			}
		}
		if y < rows-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Legend lists categories with their chart color
func Legend(categories []models.Category) string {
	items := make([]string, len(categories))
	for i, c := range categories {
		items[i] = legendStyle.Render(categoryStyle(c).Render("■") + " " + c.Label())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, items...)
}
