package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/blog-comb/app/content"
	"github.com/lysyi3m/blog-comb/app/feed"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if version != 2 || dirty {
		t.Fatalf("Expected clean migration version 2, got %d (dirty=%t)", version, dirty)
	}

	return db
}

func testCorpus() *content.Corpus {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	}

	return &content.Corpus{
		Sections: []content.Section{
			{Name: "posts", Title: "Posts"},
			{Name: "notes", Title: "Notes"},
		},
		Pages: []feed.Page{
			{Title: "Old", Permalink: "https://b.example/posts/old/", PublishedAt: day(1), ModifiedAt: day(2), Section: "posts", Tags: []string{"Go"}},
			{Title: "New", Permalink: "https://b.example/posts/new/", PublishedAt: day(5), ModifiedAt: day(5), Section: "posts", Tags: []string{"go", "Type Theory"}, FeedID: "new-id"},
			{Title: "Hidden", Permalink: "https://b.example/posts/hidden/", PublishedAt: day(3), ModifiedAt: day(3), Section: "posts", OmitFromFeed: true},
			{Title: "Undated", Permalink: "https://b.example/posts/undated/", Section: "posts"},
			{Title: "Note", Permalink: "https://b.example/notes/note/", PublishedAt: day(4), ModifiedAt: day(4), Section: "notes", Tags: []string{"type theory"}, Summary: "A *note*"},
		},
	}
}

func TestPageRepository_GetSectionPages(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	if err := repo.ReplaceCorpus(testCorpus()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	pages, err := repo.GetSectionPages("posts")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expected := []string{"New", "Hidden", "Old", "Undated"}
	if len(pages) != len(expected) {
		t.Fatalf("Expected %d pages, got %d", len(expected), len(pages))
	}
	for i, title := range expected {
		if pages[i].Title != title {
			t.Errorf("Position %d: expected '%s', got '%s'", i, title, pages[i].Title)
		}
	}

	newest := pages[0]
	if newest.FeedID != "new-id" {
		t.Errorf("Expected feed ID 'new-id', got '%s'", newest.FeedID)
	}
	if len(newest.Tags) != 2 || newest.Tags[0] != "go" || newest.Tags[1] != "Type Theory" {
		t.Errorf("Expected tags in stored order, got %v", newest.Tags)
	}
	if !newest.PublishedAt.Equal(time.Date(2024, 1, 5, 11, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected published time %v", newest.PublishedAt)
	}
	if newest.PublishedAt.Location() != time.UTC {
		t.Errorf("Expected UTC location, got %v", newest.PublishedAt.Location())
	}
	if !pages[1].OmitFromFeed {
		t.Error("Expected omit flag to round-trip")
	}
	if pages[1].Tags != nil {
		t.Errorf("Expected nil tags, got %v", pages[1].Tags)
	}
	if !pages[3].PublishedAt.IsZero() {
		t.Errorf("Expected zero publish time for undated page, got %v", pages[3].PublishedAt)
	}
}

func TestPageRepository_GetTagPages(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	if err := repo.ReplaceCorpus(testCorpus()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	pages, err := repo.GetTagPages("type-theory")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(pages) != 2 || pages[0].Title != "New" || pages[1].Title != "Note" {
		t.Fatalf("Expected [New Note], got %+v", pages)
	}
	if pages[1].Summary != "A *note*" {
		t.Errorf("Expected raw summary, got '%s'", pages[1].Summary)
	}

	pages, err = repo.GetTagPages("missing")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("Expected no pages, got %d", len(pages))
	}
}

func TestPageRepository_GetSectionsAndTags(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	if err := repo.ReplaceCorpus(testCorpus()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	sections, err := repo.GetSections()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(sections) != 2 || sections[0].Name != "notes" || sections[1].Title != "Posts" {
		t.Errorf("Unexpected sections %+v", sections)
	}

	tags, err := repo.GetTags()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("Expected 2 tags, got %+v", tags)
	}
	if tags[0].Slug != "go" || tags[0].Name != "Go" || tags[0].Count != 2 {
		t.Errorf("Unexpected tag %+v", tags[0])
	}
	if tags[1].Slug != "type-theory" || tags[1].Count != 2 {
		t.Errorf("Unexpected tag %+v", tags[1])
	}

	count, err := repo.GetPageCount()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 pages, got %d", count)
	}
}

func TestPageRepository_ReplaceCorpus(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	if err := repo.ReplaceCorpus(testCorpus()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	smaller := &content.Corpus{
		Sections: []content.Section{{Name: "posts", Title: "Posts"}},
		Pages: []feed.Page{
			{Title: "Only", Permalink: "https://b.example/posts/only/", PublishedAt: time.Now(), ModifiedAt: time.Now(), Section: "posts"},
		},
	}
	if err := repo.ReplaceCorpus(smaller); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	count, err := repo.GetPageCount()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 page after replace, got %d", count)
	}

	tags, err := repo.GetTags()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("Expected stale tags to be removed, got %+v", tags)
	}
}

func TestPageRepository_ReplaceCorpus_DuplicatePermalink(t *testing.T) {
	repo := NewPageRepository(setupTestDB(t))

	if err := repo.ReplaceCorpus(testCorpus()); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	duplicate := &content.Corpus{
		Pages: []feed.Page{
			{Title: "A", Permalink: "https://b.example/posts/same/", Section: "posts"},
			{Title: "B", Permalink: "https://b.example/posts/same/", Section: "posts"},
		},
	}
	if err := repo.ReplaceCorpus(duplicate); err == nil {
		t.Fatal("Expected error for duplicate permalink")
	}

	count, err := repo.GetPageCount()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected failed replace to keep previous index, got %d pages", count)
	}
}
