// Package repository is the write path for entries and logs. It assigns IDs
// and timestamps and keeps the delete ordering that the schema does not enforce.
package repository

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/stats"
	"github.com/julianstephens/moments/internal/storage"
)

type Repository struct {
	store storage.Provider
	now   func() time.Time

	// seedMu keeps concurrent seeds from both seeing a title as missing
	seedMu sync.Mutex
}

type Option func(*Repository)

// WithClock overrides the time source used for CreatedAt and Timestamp
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func New(store storage.Provider, opts ...Option) *Repository {
	r := &Repository{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Store() storage.Provider {
	return r.store
}

// Entries returns all entries, newest first
func (r *Repository) Entries() ([]models.Entry, error) {
	return r.store.ListEntries()
}

// EntriesByCategory returns the entries of one category, newest first
func (r *Repository) EntriesByCategory(category models.Category) ([]models.Entry, error) {
	return r.store.ListEntriesByCategory(category)
}

// Logs returns all logs, newest first
func (r *Repository) Logs() ([]models.Log, error) {
	return r.store.ListLogs()
}

// LogsInWindow returns the logs falling on the given calendar days, newest first
func (r *Repository) LogsInWindow(days []time.Time) ([]models.Log, error) {
	start, end := stats.Bounds(days)
	return r.store.ListLogsBetween(start, end)
}

func (r *Repository) AddEntry(title, description string, category models.Category, icon models.Icon) (models.Entry, error) {
	entry := models.Entry{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		Category:    category,
		Icon:        icon,
		CreatedAt:   r.now(),
	}
	if err := r.store.InsertEntry(entry); err != nil {
		return models.Entry{}, err
	}
	return entry, nil
}

func (r *Repository) AddLog(entryID string) (models.Log, error) {
	log := models.Log{
		ID:        uuid.NewString(),
		EntryID:   entryID,
		Timestamp: r.now(),
	}
	if err := r.store.InsertLog(log); err != nil {
		return models.Log{}, err
	}
	return log, nil
}

// DeleteEntryByID removes the entry's logs first, then the entry itself.
// If the second step fails the logs are already gone, which is the safe side.
func (r *Repository) DeleteEntryByID(id string) (int64, error) {
	removed, err := r.store.DeleteLogsForEntry(id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs for entry %s: %w", id, err)
	}
	if err := r.store.DeleteEntryByID(id); err != nil {
		return removed, err
	}
	return removed, nil
}

// SeedIfMissing inserts every entry whose title is not yet present.
// Entries without an ID or creation time get fresh ones.
func (r *Repository) SeedIfMissing(entries []models.Entry) (int, error) {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()

	existing, err := r.store.ListEntries()
	if err != nil {
		return 0, err
	}
	titles := make(map[string]bool, len(existing))
	for _, e := range existing {
		titles[e.Title] = true
	}

	var missing []models.Entry
	now := r.now()
	for _, e := range entries {
		if titles[e.Title] {
			continue
		}
		titles[e.Title] = true
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		missing = append(missing, e)
	}

	if err := r.store.InsertEntries(missing); err != nil {
		return 0, fmt.Errorf("failed to seed entries: %w", err)
	}
	return len(missing), nil
}

// DemoEntries returns the starter set written on first initialisation,
// one per category.
func DemoEntries() []models.Entry {
	return []models.Entry{
		{
			Title:       "Breathing exercise",
			Description: "One minute of conscious breathing",
			Category:    models.CategoryRelaxation,
			Icon:        models.IconMindfulness,
		},
		{
			Title:       "Sketch",
			Description: "Ten minutes of free drawing",
			Category:    models.CategoryCreativity,
			Icon:        models.IconStylusNote,
		},
		{
			Title:       "Short walk",
			Description: "Ten minutes in the fresh air",
			Category:    models.CategoryMovement,
			Icon:        models.IconNaturePeople,
		},
	}
}

// ResolveEntry finds an entry by ID, falling back to an exact title match.
// An ambiguous title is an error.
func (r *Repository) ResolveEntry(ref string) (models.Entry, error) {
	e, err := r.store.GetEntry(ref)
	if err == nil {
		return e, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Entry{}, err
	}
	matches, err := r.store.FindEntriesByTitle(ref)
	if err != nil {
		return models.Entry{}, err
	}
	switch len(matches) {
	case 0:
		return models.Entry{}, fmt.Errorf("entry %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Entry{}, fmt.Errorf("title %q matches %d entries, use the ID instead", ref, len(matches))
	}
}
