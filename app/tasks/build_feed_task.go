package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lysyi3m/blog-comb/app/database"
	"github.com/lysyi3m/blog-comb/app/feed"
)

type BuildFeedTask struct {
	Task
	Listing   Listing
	site      feed.Site
	outputDir string
	assembler *feed.Assembler
	encoder   *feed.Encoder
	pageRepo  database.PageRepository
}

func NewBuildFeedTask(listing Listing, site feed.Site, outputDir string, assembler *feed.Assembler, encoder *feed.Encoder, pageRepo database.PageRepository) *BuildFeedTask {
	return &BuildFeedTask{
		Task:      NewTask(TaskTypeBuildFeed, listing.FilePath()),
		Listing:   listing,
		site:      site,
		outputDir: outputDir,
		assembler: assembler,
		encoder:   encoder,
		pageRepo:  pageRepo,
	}
}

func (t *BuildFeedTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	pages, err := t.candidatePages()
	if err != nil {
		return fmt.Errorf("failed to get candidate pages: %w", err)
	}

	doc, err := t.assembler.Run(feed.Context{
		IsHome:  t.Listing.Kind == ListingHome,
		Title:   t.Listing.Title,
		FeedURL: t.Listing.FeedURL(t.site.BaseURL),
		Pages:   pages,
		Site:    t.site,
	})
	if err != nil {
		return Permanent(fmt.Errorf("failed to assemble feed %s: %w", t.Target, err))
	}

	data, err := t.encoder.Run(doc)
	if err != nil {
		return Permanent(err)
	}

	if err := writeFileAtomic(filepath.Join(t.outputDir, filepath.FromSlash(t.Listing.FilePath())), data); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"feed", t.Target,
		"candidates", len(pages),
		"items", len(doc.Items),
		"duration", t.GetDuration())

	return nil
}

// candidatePages narrows the index to the listing, newest first. The home
// feed draws from the main section only.
func (t *BuildFeedTask) candidatePages() ([]feed.Page, error) {
	switch t.Listing.Kind {
	case ListingHome, ListingSection:
		return t.pageRepo.GetSectionPages(t.Listing.Key)
	case ListingTag:
		return t.pageRepo.GetTagPages(t.Listing.Key)
	default:
		return nil, Permanent(fmt.Errorf("unknown listing kind: %s", t.Listing.Kind))
	}
}

// writeFileAtomic replaces path so readers never see a half-written feed
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".feed-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
