package models

import "fmt"

// Icon references one of the fixed entry icons.
type Icon string

const (
	IconDirectionsWalk  Icon = "directions_walk"
	IconSelfImprovement Icon = "self_improvement"
	IconNaturePeople    Icon = "nature_people"
	IconMindfulness     Icon = "mindfulness"
	IconMenuBook        Icon = "menu_book"
	IconExercise        Icon = "exercise"
	IconStylusNote      Icon = "stylus_note"
	IconRelax           Icon = "relax"
	IconMusicNote       Icon = "music_note"
	IconHotel           Icon = "hotel"
	IconDevicesOff      Icon = "devices_off"
	IconConversation    Icon = "conversation"
)

// DefaultIcon is preselected in the entry form.
const DefaultIcon = IconDirectionsWalk

// UnknownGlyph marks logs whose entry is gone.
const UnknownGlyph = "?"

var iconOrder = []Icon{
	IconDirectionsWalk,
	IconSelfImprovement,
	IconNaturePeople,
	IconMindfulness,
	IconMenuBook,
	IconExercise,
	IconStylusNote,
	IconRelax,
	IconMusicNote,
	IconHotel,
	IconDevicesOff,
	IconConversation,
}

var iconGlyphs = map[Icon]string{
	IconDirectionsWalk:  "🚶",
	IconSelfImprovement: "🧘",
	IconNaturePeople:    "🌳",
	IconMindfulness:     "🌸",
	IconMenuBook:        "📖",
	IconExercise:        "🏋",
	IconStylusNote:      "✏",
	IconRelax:           "☕",
	IconMusicNote:       "🎵",
	IconHotel:           "🛏",
	IconDevicesOff:      "📵",
	IconConversation:    "💬",
}

// Icons returns the icon set in picker order.
func Icons() []Icon {
	out := make([]Icon, len(iconOrder))
	copy(out, iconOrder)
	return out
}

func ParseIcon(s string) (Icon, error) {
	i := Icon(s)
	if !i.Valid() {
		return "", fmt.Errorf("unknown icon %q", s)
	}
	return i, nil
}

func (i Icon) Valid() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Glyph returns the terminal glyph for the icon, or UnknownGlyph.
func (i Icon) Glyph() string {
	if g, ok := iconGlyphs[i]; ok {
		return g
	}
	return UnknownGlyph
}
