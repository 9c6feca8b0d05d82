package constants

const (
	SettingTimezone = "timezone"
	SettingSeedDemo = "seed_demo"

	DefaultTimezone = "Local" // Use system local timezone by default
	DefaultSeedDemo = true
)
