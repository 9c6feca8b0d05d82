package chart

import (
	"math"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
)

// Segment is one category's share of a bar, in character rows
type Segment struct {
	Category models.Category
	Rows     int
}

// BarSegments splits a bar of at most height rows by category, bottom-up in
// display order. Bar height is total/maxTotal of the full height. Rows are
// rounded on the running sum so segments always add up to the bar height.
// When height allows, every logged category keeps at least one row, borrowed
// from the tallest segment.
func BarSegments(counts stats.Counts, maxTotal, height int) []Segment {
	if maxTotal < 1 {
		maxTotal = 1
	}
	var segs []Segment
	total := 0
	for _, cat := range models.Categories() {
		if v := counts[cat]; v > 0 {
			segs = append(segs, Segment{Category: cat})
			total += v
		}
	}
	if total == 0 {
		return nil
	}

	bar := int(math.Round(float64(total) / float64(maxTotal) * float64(height)))
	if bar > height {
		bar = height
	}
	visible := height >= len(segs)
	if visible && bar < len(segs) {
		bar = len(segs)
	}

	cum, prev := 0, 0
	for i := range segs {
		cum += counts[segs[i].Category]
		rows := int(math.Round(float64(cum) / float64(total) * float64(bar)))
		segs[i].Rows = rows - prev
		prev = rows
	}

	if visible {
		for i := range segs {
			for segs[i].Rows == 0 {
				tallest := 0
				for j := range segs {
					if segs[j].Rows > segs[tallest].Rows {
						tallest = j
					}
				}
				segs[tallest].Rows--
				segs[i].Rows++
			}
		}
	}
	return segs
}

// Slice is one category's wedge of the pie, in degrees clockwise from 12 o'clock
type Slice struct {
	Category models.Category
	Start    float64
	Sweep    float64
}

// PieSlices lays out wedges in display order starting at 12 o'clock.
// Categories with no logs are skipped; sweep is 360*v/max(total, 1).
func PieSlices(counts stats.Counts) []Slice {
	total := counts.Total()
	if total < 1 {
		total = 1
	}
	var slices []Slice
	start := 0.0
	for _, cat := range models.Categories() {
		v := counts[cat]
		if v <= 0 {
			continue
		}
		sweep := 360 * float64(v) / float64(total)
		slices = append(slices, Slice{Category: cat, Start: start, Sweep: sweep})
		start += sweep
	}
	return slices
}

// sliceAt returns the wedge containing angle, if any. The last wedge always
// closes the circle to absorb float drift in the running start angle.
func sliceAt(slices []Slice, angle float64) (Slice, bool) {
	for i, s := range slices {
		end := s.Start + s.Sweep
		if i == len(slices)-1 && end >= 359.999 {
			end = 360
		}
		if angle >= s.Start && angle < end {
			return s, true
		}
	}
	return Slice{}, false
}

// clockAngle converts a cell offset (y grows downwards) to degrees clockwise from 12 o'clock
func clockAngle(dx, dy float64) float64 {
	a := math.Atan2(dx, -dy) * 180 / math.Pi
	if a < 0 {
		a += 360
	}
	return a
}
