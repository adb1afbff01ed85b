package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/blog-comb/app/database"
)

type IndexContentTask struct {
	Task
	loader   ContentLoader
	pageRepo database.PageRepository
}

func NewIndexContentTask(contentDir string, loader ContentLoader, pageRepo database.PageRepository) *IndexContentTask {
	return &IndexContentTask{
		Task:     NewTask(TaskTypeIndexContent, contentDir),
		loader:   loader,
		pageRepo: pageRepo,
	}
}

func (t *IndexContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	corpus, err := t.loader.Run()
	if err != nil {
		return Permanent(fmt.Errorf("failed to load content: %w", err))
	}

	if err := t.pageRepo.ReplaceCorpus(corpus); err != nil {
		return fmt.Errorf("failed to index content: %w", err)
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"content_dir", t.Target,
		"sections", len(corpus.Sections),
		"pages", len(corpus.Pages),
		"duration", t.GetDuration())

	return nil
}
