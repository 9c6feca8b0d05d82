package models

import "time"

// Entry is a user-defined loggable activity
type Entry struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Icon        Icon      `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
}

// Log is one timestamped occurrence of an entry being performed
type Log struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	Timestamp time.Time `json:"timestamp"`
}
