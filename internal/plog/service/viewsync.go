package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ploghq/plog/internal/plog/store"
)

// DefaultImageGracePeriod is how long a PENDING upload survives before the
// background sync reaps it.
const DefaultImageGracePeriod = 24 * time.Hour

// ViewSyncService periodically flushes buffered view counters into the posts
// table and cleans up stale pending images.
type ViewSyncService struct {
	Store    store.Store
	Views    store.ViewCounts
	Images   *ImageService
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewViewSyncService creates the background sync worker. If interval is 0 or
// negative, defaults to 1 minute.
func NewViewSyncService(st store.Store, views store.ViewCounts, images *ImageService, logger *slog.Logger, interval time.Duration) *ViewSyncService {
	if interval <= 0 {
		interval = time.Minute
	}

	return &ViewSyncService{
		Store:    st,
		Views:    views,
		Images:   images,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut it
// down gracefully.
func (s *ViewSyncService) Start() {
	go s.run()
	s.Logger.Info("view sync service started", "interval", s.Interval)
}

// Stop shuts down the worker, blocking until any in-progress flush finishes.
func (s *ViewSyncService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("view sync service stopped")
}

func (s *ViewSyncService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sync()
		case <-s.stopCh:
			// Flush whatever is buffered before going down.
			s.sync()
			return
		}
	}
}

// sync performs one flush pass. Each step is independent; a failure on one
// post won't stop the others.
func (s *ViewSyncService) sync() {
	ctx := context.Background()

	if s.Views != nil {
		s.flushViewCounts(ctx)
	}

	if s.Images != nil {
		removed, err := s.Images.CleanupStale(ctx, DefaultImageGracePeriod)
		if err != nil {
			s.Logger.Error("failed to clean up stale images", "error", err)
		} else if removed > 0 {
			s.Logger.Info("cleaned up stale pending images", "removed", removed)
		}
	}
}

func (s *ViewSyncService) flushViewCounts(ctx context.Context) {
	pending, err := s.Views.PendingPostIDs(ctx)
	if err != nil {
		s.Logger.Error("failed to list pending view counts", "error", err)
		return
	}

	for _, postID := range pending {
		count, err := s.Views.GetAndResetCount(ctx, postID)
		if err != nil {
			s.Logger.Error("failed to read buffered view count", "post_id", postID, "error", err)
			continue
		}
		if count > 0 {
			if err := s.Store.Posts().AddViewCount(ctx, postID, count); err != nil {
				s.Logger.Error("failed to flush view count", "post_id", postID, "count", count, "error", err)
				continue
			}
		}
		if err := s.Views.RemovePending(ctx, postID); err != nil {
			s.Logger.Error("failed to clear pending marker", "post_id", postID, "error", err)
		}
	}

	if len(pending) > 0 {
		s.Logger.Debug("flushed view counts", "posts", len(pending))
	}
}
