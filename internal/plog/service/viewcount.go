package service

import (
	"context"
	"time"

	"github.com/ploghq/plog/internal/plog/store"
)

// DefaultViewDedupeWindow is how long a viewer counts only once per post.
const DefaultViewDedupeWindow = 24 * time.Hour

// ViewCountService buffers view counters in the ViewCounts store. A nil Views
// disables counting entirely, which keeps post reads working without Redis.
type ViewCountService struct {
	Views  store.ViewCounts
	Window time.Duration
}

// RecordView counts one view of a post for the given viewer key, deduplicated
// within the configured window.
func (s *ViewCountService) RecordView(ctx context.Context, postID int64, viewerKey string) error {
	if s == nil || s.Views == nil || viewerKey == "" {
		return nil
	}

	window := s.Window
	if window <= 0 {
		window = DefaultViewDedupeWindow
	}

	first, err := s.Views.MarkViewed(ctx, postID, viewerKey, window)
	if err != nil {
		return err
	}
	if !first {
		return nil
	}

	_, err = s.Views.IncrementCount(ctx, postID)
	return err
}
