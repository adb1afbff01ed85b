package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/lysyi3m/blog-comb/app/config"
	"github.com/lysyi3m/blog-comb/app/database"
	"github.com/lysyi3m/blog-comb/app/feed"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	loader     ContentLoader
	pageRepo   database.PageRepository
	feedRepo   database.FeedRepository
	assembler  *feed.Assembler
	encoder    *feed.Encoder
	site       *config.SiteConfig
	contentDir string
	outputDir  string

	workerCount    int
	retryBaseDelay time.Duration
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	taskQueue      chan TaskInterface

	pending sync.WaitGroup
	mu      sync.Mutex
	errs    []error
}

func NewScheduler(loader ContentLoader, pageRepo database.PageRepository, feedRepo database.FeedRepository, assembler *feed.Assembler,
	encoder *feed.Encoder, site *config.SiteConfig, contentDir, outputDir string, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		loader:         loader,
		pageRepo:       pageRepo,
		feedRepo:       feedRepo,
		assembler:      assembler,
		encoder:        encoder,
		site:           site,
		contentDir:     contentDir,
		outputDir:      outputDir,
		workerCount:    max(workerCount, 1),
		retryBaseDelay: time.Second,
		ctx:            ctx,
		cancel:         cancel,
		taskQueue:      make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels the workers and pending retries and waits for them to exit.
// The queue stays open so a late retry can never send on a closed channel.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// EnqueueTask blocks until the task is queued. Every queued task is counted
// by Wait until it succeeds or fails for good.
func (s *Scheduler) EnqueueTask(ctx context.Context, task TaskInterface) error {
	s.pending.Add(1)
	if err := s.enqueue(ctx, task); err != nil {
		s.pending.Done()
		return err
	}
	return nil
}

func (s *Scheduler) enqueue(ctx context.Context, task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return fmt.Errorf("scheduler stopped: %w", s.ctx.Err())
	}
}

// Wait blocks until all queued tasks are finished and returns the failures
// collected since the previous Wait.
func (s *Scheduler) Wait() error {
	s.pending.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	err := errors.Join(s.errs...)
	s.errs = nil
	return err
}

// Build indexes the content directory and then writes the home, section and
// tag feeds.
func (s *Scheduler) Build(ctx context.Context) error {
	started := time.Now()

	if err := s.EnqueueTask(ctx, NewIndexContentTask(s.contentDir, s.loader, s.pageRepo)); err != nil {
		return fmt.Errorf("failed to enqueue index task: %w", err)
	}
	if err := s.Wait(); err != nil {
		return err
	}

	pageCount, err := s.pageRepo.GetPageCount()
	if err != nil {
		return err
	}

	listings, err := s.listings()
	if err != nil {
		return err
	}

	site := s.site.FeedSite()
	for _, listing := range listings {
		task := NewBuildFeedTask(listing, site, s.outputDir, s.assembler, s.encoder, s.pageRepo)
		if err := s.EnqueueTask(ctx, task); err != nil {
			slog.Warn("Failed to enqueue BuildFeedTask", "feed", task.Target, "error", err)
			s.recordFailure(fmt.Errorf("feed %s: %w", task.Target, err))
		}
	}

	if err := s.Wait(); err != nil {
		return err
	}

	if err := s.pruneFeeds(listings); err != nil {
		return err
	}

	slog.Info("Build completed", "pages", pageCount, "feeds", len(listings), "duration", time.Since(started))
	return nil
}

// Watch rebuilds every interval until ctx is cancelled. Failed builds are
// logged and retried on the next tick.
func (s *Scheduler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if err := s.Build(ctx); err != nil {
				slog.Error("Build failed", "error", err)
			}
		}
	}
}

func (s *Scheduler) listings() ([]Listing, error) {
	listings := []Listing{HomeListing(s.site.MainSection, s.site.Title)}

	sections, err := s.pageRepo.GetSections()
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		listings = append(listings, SectionListing(section))
	}

	tags, err := s.pageRepo.GetTags()
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if tag.Slug == "" {
			slog.Warn("Tag has no slug, skipping feed", "tag", tag.Name)
			continue
		}
		listings = append(listings, TagListing(tag))
	}

	slog.Debug("Listings collected", "sections", len(sections), "tags", len(tags))

	return listings, nil
}

// pruneFeeds removes feeds written by an earlier build for sections or tags
// that no longer exist, then records the current set.
func (s *Scheduler) pruneFeeds(listings []Listing) error {
	current := lo.Map(listings, func(listing Listing, _ int) string {
		return listing.FilePath()
	})

	previous, err := s.feedRepo.GetFeedPaths()
	if err != nil {
		return err
	}

	stale, _ := lo.Difference(previous, current)
	for _, feedPath := range stale {
		file := filepath.Join(s.outputDir, filepath.FromSlash(feedPath))
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale feed %s: %w", feedPath, err)
		}

		// Drop the listing directory too if nothing else lives there
		if dir := filepath.Dir(file); dir != filepath.Clean(s.outputDir) {
			_ = os.Remove(dir)
		}

		slog.Info("Stale feed removed", "feed", feedPath)
	}

	return s.feedRepo.ReplaceFeedPaths(current)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		s.pending.Done()
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if IsPermanent(err) || !task.CanRetry() {
		if !IsPermanent(err) {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
		s.fail(task, err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := s.retryBaseDelay * time.Duration(1<<uint(task.GetRetryCount()-1))
	if retryDelay > 30*time.Second {
		retryDelay = 30 * time.Second
	}

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "target", task.GetTarget(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		select {
		case <-time.After(retryDelay):
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			s.fail(task, s.ctx.Err())
			return
		}

		if retryErr := s.enqueue(s.ctx, task); retryErr != nil {
			slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			s.fail(task, retryErr)
		}
	}()
}

func (s *Scheduler) fail(task TaskInterface, err error) {
	s.recordFailure(fmt.Errorf("%s %s: %w", task.GetType(), task.GetTarget(), err))
	s.pending.Done()
}

func (s *Scheduler) recordFailure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}
