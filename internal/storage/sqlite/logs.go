package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/moments/internal/models"
)

func (s *Store) queryLogs(query string, args ...any) ([]models.Log, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.Log{}
	for rows.Next() {
		var l models.Log
		var ts int64
		if err := rows.Scan(&l.ID, &l.EntryID, &ts); err != nil {
			return nil, err
		}
		l.Timestamp = time.UnixMilli(ts)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) InsertLog(log models.Log) error {
	_, err := s.db.Exec(
		"INSERT INTO activity_logs (id, entry_id, timestamp) VALUES (?, ?, ?)",
		log.ID, log.EntryID, log.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	s.notify()
	return nil
}

func (s *Store) ListLogs() ([]models.Log, error) {
	return s.queryLogs("SELECT id, entry_id, timestamp FROM activity_logs ORDER BY timestamp DESC, rowid DESC")
}

func (s *Store) ListLogsBetween(start, end time.Time) ([]models.Log, error) {
	return s.queryLogs(`
		SELECT id, entry_id, timestamp FROM activity_logs
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp DESC, rowid DESC`,
		start.UnixMilli(), end.UnixMilli(),
	)
}

func (s *Store) DeleteLogsForEntry(entryID string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM activity_logs WHERE entry_id = ?", entryID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete logs: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.notify()
	}
	return n, nil
}

// CountOrphanLogs counts logs whose entry no longer exists
func (s *Store) CountOrphanLogs() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT count(*) FROM activity_logs l
		LEFT JOIN entries e ON e.id = l.entry_id
		WHERE e.id IS NULL`).Scan(&count)
	return count, err
}
