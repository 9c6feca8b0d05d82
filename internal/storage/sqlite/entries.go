package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/moments/internal/models"
	"github.com/julianstephens/moments/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

const entryColumns = "id, title, description, category, icon, created_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (models.Entry, error) {
	var e models.Entry
	var category, icon string
	var createdAt int64
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &category, &icon, &createdAt); err != nil {
		return models.Entry{}, err
	}
	e.Category = models.Category(category)
	e.Icon = models.Icon(icon)
	e.CreatedAt = time.UnixMilli(createdAt)
	return e, nil
}

func (s *Store) queryEntries(query string, args ...any) ([]models.Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) InsertEntry(entry models.Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Title, entry.Description, string(entry.Category), string(entry.Icon),
		entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}
	s.notify()
	return nil
}

func (s *Store) InsertEntries(entries []models.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(e.ID, e.Title, e.Description, string(e.Category), string(e.Icon), e.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert entry %q: %w", e.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) GetEntry(id string) (models.Entry, error) {
	row := s.db.QueryRow("SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}
	return e, err
}

func (s *Store) FindEntriesByTitle(title string) ([]models.Entry, error) {
	return s.queryEntries("SELECT "+entryColumns+" FROM entries WHERE title = ? ORDER BY created_at DESC, rowid DESC", title)
}

func (s *Store) ListEntries() ([]models.Entry, error) {
	return s.queryEntries("SELECT " + entryColumns + " FROM entries ORDER BY created_at DESC, rowid DESC")
}

func (s *Store) ListEntriesByCategory(category models.Category) ([]models.Entry, error) {
	return s.queryEntries("SELECT "+entryColumns+" FROM entries WHERE category = ? ORDER BY created_at DESC, rowid DESC", string(category))
}

func (s *Store) DeleteEntryByID(id string) error {
	result, err := s.db.Exec("DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return fmt.Errorf("entry %s: %w", id, storage.ErrNotFound)
	}

	s.notify()
	return nil
}
