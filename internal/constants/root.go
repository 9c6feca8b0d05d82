package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName           = "moments"
	DefaultConfigPath = "~/.config/moments/moments.db"
	Version           = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// FeedTimestampFormat renders log timestamps in the activity feed (DD.MM.YYYY HH:MM)
	FeedTimestampFormat = "02.01.2006 15:04"

	// WindowDays is the length of the trailing statistics window, today included
	WindowDays = 7

	// Entry form limits
	TitleMaxLen       = 50
	DescriptionMinLen = 3
	DescriptionMaxLen = 300

	// Placeholders for logs whose entry no longer exists
	OrphanTitle    = "Deleted moment"
	OrphanCategory = "Unknown"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "moments-"
	BackupFileSuffix = ".db"

	// Environment variables
	EnvConfigPath = "MOMENTS_DB"
	EnvDebug      = "MOMENTS_DEBUG"
	EnvTimezone   = "MOMENTS_TIMEZONE"
)

// Session States
const (
	StateActivities SessionState = iota
	StateStatistics
	StateAbout
	StateAddEntry
	StateConfirmDelete
)

// MainStates lists the tab-navigable views in display order.
var MainStates = []SessionState{StateActivities, StateStatistics, StateAbout}
