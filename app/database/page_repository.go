package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/blog-comb/app/content"
	"github.com/lysyi3m/blog-comb/app/feed"
)

var _ PageRepository = (*SQLitePageRepository)(nil)

// Listings are newest first; undated pages sort last.
const pageOrder = `ORDER BY p.published_at DESC, p.title ASC, p.permalink ASC`

type SQLitePageRepository struct {
	db *DB
}

func NewPageRepository(db *DB) *SQLitePageRepository {
	return &SQLitePageRepository{db: db}
}

func (r *SQLitePageRepository) GetSectionPages(section string) ([]feed.Page, error) {
	pages, err := r.queryPages(`
		SELECT p.permalink, p.title, p.summary, p.published_at, p.modified_at,
			p.feed_id, p.omit_from_feed, p.section
		FROM pages p
		WHERE p.section = ?
		`+pageOrder, section)
	if err != nil {
		return nil, fmt.Errorf("failed to get section pages: %w", err)
	}
	return pages, nil
}

func (r *SQLitePageRepository) GetTagPages(tagSlug string) ([]feed.Page, error) {
	pages, err := r.queryPages(`
		SELECT p.permalink, p.title, p.summary, p.published_at, p.modified_at,
			p.feed_id, p.omit_from_feed, p.section
		FROM pages p
		WHERE p.permalink IN (SELECT permalink FROM page_tags WHERE tag_slug = ?)
		`+pageOrder, tagSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to get tag pages: %w", err)
	}
	return pages, nil
}

func (r *SQLitePageRepository) GetSections() ([]content.Section, error) {
	rows, err := r.db.Query(`SELECT name, title FROM sections ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	defer rows.Close()

	var sections []content.Section
	for rows.Next() {
		var section content.Section
		if err := rows.Scan(&section.Name, &section.Title); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, section)
	}

	return sections, rows.Err()
}

func (r *SQLitePageRepository) GetTags() ([]Tag, error) {
	rows, err := r.db.Query(`
		SELECT tag_slug, MIN(tag), COUNT(DISTINCT permalink)
		FROM page_tags
		GROUP BY tag_slug
		ORDER BY tag_slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.Slug, &tag.Name, &tag.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

func (r *SQLitePageRepository) GetPageCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get page count: %w", err)
	}
	return count, nil
}

// ReplaceCorpus swaps the whole index for corpus in one transaction, so
// readers never observe a partially indexed site.
func (r *SQLitePageRepository) ReplaceCorpus(corpus *content.Corpus) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM page_tags`, `DELETE FROM pages`, `DELETE FROM sections`} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear index: %w", err)
		}
	}

	for _, section := range corpus.Sections {
		if _, err := tx.Exec(`INSERT INTO sections (name, title) VALUES (?, ?)`,
			section.Name, section.Title); err != nil {
			return fmt.Errorf("failed to store section %s: %w", section.Name, err)
		}
	}

	for _, page := range corpus.Pages {
		_, err := tx.Exec(`
			INSERT INTO pages (
				permalink, title, summary, published_at, modified_at,
				feed_id, omit_from_feed, section
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			page.Permalink, page.Title, page.Summary,
			toUnixNano(page.PublishedAt), toUnixNano(page.ModifiedAt),
			page.FeedID, page.OmitFromFeed, page.Section)
		if err != nil {
			return fmt.Errorf("failed to store page %s: %w", page.Permalink, err)
		}

		for i, tag := range page.Tags {
			_, err := tx.Exec(`INSERT INTO page_tags (permalink, position, tag, tag_slug) VALUES (?, ?, ?, ?)`,
				page.Permalink, i, tag, content.Slugify(tag))
			if err != nil {
				return fmt.Errorf("failed to store tag %s for %s: %w", tag, page.Permalink, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}

	return nil
}

func (r *SQLitePageRepository) queryPages(query string, args ...any) ([]feed.Page, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []feed.Page
	index := make(map[string]int)
	for rows.Next() {
		var page feed.Page
		var publishedAt, modifiedAt sql.NullInt64

		err := rows.Scan(&page.Permalink, &page.Title, &page.Summary, &publishedAt, &modifiedAt,
			&page.FeedID, &page.OmitFromFeed, &page.Section)
		if err != nil {
			return nil, err
		}

		page.PublishedAt = fromUnixNano(publishedAt)
		page.ModifiedAt = fromUnixNano(modifiedAt)
		index[page.Permalink] = len(pages)
		pages = append(pages, page)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(pages) == 0 {
		return pages, nil
	}

	if err := r.attachTags(pages, index); err != nil {
		return nil, err
	}

	return pages, nil
}

func (r *SQLitePageRepository) attachTags(pages []feed.Page, index map[string]int) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pages)), ",")
	args := make([]any, 0, len(pages))
	for _, page := range pages {
		args = append(args, page.Permalink)
	}

	rows, err := r.db.Query(`
		SELECT permalink, tag FROM page_tags
		WHERE permalink IN (`+placeholders+`)
		ORDER BY permalink, position`, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var permalink, tag string
		if err := rows.Scan(&permalink, &tag); err != nil {
			return err
		}
		i := index[permalink]
		pages[i].Tags = append(pages[i].Tags, tag)
	}

	return rows.Err()
}

func toUnixNano(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func fromUnixNano(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.Unix(0, v.Int64).UTC()
}
