package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/blog-comb/app/content"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application to run site builds on a worker pool.
// Example usage:
//
//	scheduler := NewScheduler(loader, pageRepo, feedRepo, assembler, encoder, site, contentDir, outputDir, workerCount)
//	scheduler.Start()
//	defer scheduler.Stop()
//	err := scheduler.Build(ctx)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(ctx context.Context, task TaskInterface) error
	Wait() error
	Build(ctx context.Context) error
	Watch(ctx context.Context, interval time.Duration)
}

// ContentLoader reads the content directory
type ContentLoader interface {
	Run() (*content.Corpus, error)
}
