package models

import (
	"fmt"
	"strings"
)

// Category classifies an entry for filtering and charting.
type Category string

const (
	CategoryRelaxation Category = "relaxation"
	CategoryCreativity Category = "creativity"
	CategoryMovement   Category = "movement"
)

// categoryOrder is the display order. The first category sits at the bottom
// of a stacked bar and starts the pie at 12 o'clock.
var categoryOrder = []Category{CategoryRelaxation, CategoryCreativity, CategoryMovement}

var categoryLabels = map[Category]string{
	CategoryRelaxation: "Relaxation",
	CategoryCreativity: "Creativity",
	CategoryMovement:   "Movement",
}

// Palette pairs a chart color with a lighter background color.
type Palette struct {
	Chart      string
	Background string
}

var categoryPalettes = map[Category]Palette{
	CategoryRelaxation: {Chart: "#5AC0EF", Background: "#6EB9E5"},
	CategoryCreativity: {Chart: "#9467D0", Background: "#9675CB"},
	CategoryMovement:   {Chart: "#FF9742", Background: "#D98135"},
}

// UnknownPalette is used for orphaned logs and unrecognised categories.
var UnknownPalette = Palette{Chart: "#9E9E9E", Background: "#ECECEC"}

// Categories returns all categories in display order.
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// ParseCategory accepts either the storage key or the display label, case-insensitive.
func ParseCategory(s string) (Category, error) {
	needle := strings.TrimSpace(s)
	for _, c := range categoryOrder {
		if strings.EqualFold(needle, string(c)) || strings.EqualFold(needle, categoryLabels[c]) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (valid: %s)", s, strings.Join(CategoryKeys(), ", "))
}

// CategoryKeys returns the storage keys in display order.
func CategoryKeys() []string {
	keys := make([]string, 0, len(categoryOrder))
	for _, c := range categoryOrder {
		keys = append(keys, string(c))
	}
	return keys
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c Category) Palette() Palette {
	if p, ok := categoryPalettes[c]; ok {
		return p
	}
	return UnknownPalette
}

func (c Category) String() string {
	return c.Label()
}
