package database

import (
	"fmt"
	"time"
)

var _ FeedRepository = (*SQLiteFeedRepository)(nil)

// SQLiteFeedRepository tracks generated feed files by their path relative to
// the output directory
type SQLiteFeedRepository struct {
	db *DB
}

func NewFeedRepository(db *DB) *SQLiteFeedRepository {
	return &SQLiteFeedRepository{db: db}
}

func (r *SQLiteFeedRepository) GetFeedPaths() ([]string, error) {
	rows, err := r.db.Query(`SELECT path FROM feeds ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan feed path: %w", err)
		}
		paths = append(paths, path)
	}

	return paths, rows.Err()
}

func (r *SQLiteFeedRepository) ReplaceFeedPaths(paths []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feeds`); err != nil {
		return fmt.Errorf("failed to clear feed paths: %w", err)
	}

	now := time.Now().UnixNano()
	for _, path := range paths {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO feeds (path, written_at) VALUES (?, ?)`, path, now); err != nil {
			return fmt.Errorf("failed to store feed path %s: %w", path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feed paths: %w", err)
	}

	return nil
}
