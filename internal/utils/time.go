package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/moments/internal/constants"
	"github.com/julianstephens/moments/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return loc, nil
}

// LocationFromSettings picks the timezone override when set, otherwise the stored setting
func LocationFromSettings(settings models.Settings, override string) (*time.Location, error) {
	if override != "" {
		return LoadLocation(override)
	}
	return LoadLocation(settings.Timezone)
}

// FormatFeedTimestamp renders t as DD.MM.YYYY HH:MM in loc
func FormatFeedTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(constants.FeedTimestampFormat)
}
