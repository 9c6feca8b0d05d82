package storage

import (
	"errors"
	"time"

	"github.com/julianstephens/moments/internal/models"
)

// ErrNotFound is returned when a lookup or delete matches no row
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Entries
	InsertEntry(models.Entry) error
	// InsertEntries writes all entries in a single transaction
	InsertEntries([]models.Entry) error
	GetEntry(id string) (models.Entry, error)
	FindEntriesByTitle(title string) ([]models.Entry, error)
	// ListEntries returns all entries, newest first
	ListEntries() ([]models.Entry, error)
	ListEntriesByCategory(category models.Category) ([]models.Entry, error)
	DeleteEntryByID(id string) error

	// Logs
	InsertLog(models.Log) error
	// ListLogs returns all logs, newest first
	ListLogs() ([]models.Log, error)
	// ListLogsBetween returns logs with start <= timestamp < end, newest first
	ListLogsBetween(start, end time.Time) ([]models.Log, error)
	DeleteLogsForEntry(entryID string) (int64, error)
	CountOrphanLogs() (int, error)

	// Subscribe registers for change notifications. A value is delivered after
	// every successful write; bursts may coalesce into one notification. The
	// returned func unsubscribes and closes the channel.
	Subscribe() (<-chan struct{}, func())

	// Utils
	GetConfigPath() string
}
