package store

import (
	"context"
	"time"
)

// ViewCounts buffers post view counters outside the main database so reads
// don't turn into writes on every page load. Counters accumulate here and a
// background job flushes them into the posts table.
type ViewCounts interface {
	// MarkViewed records that viewerKey has seen the post, returning true on
	// the first sighting within the dedupe window and false on repeats.
	MarkViewed(ctx context.Context, postID int64, viewerKey string, window time.Duration) (bool, error)

	// IncrementCount adds one buffered view to the post and marks it pending
	// for the next flush. Returns the buffered total.
	IncrementCount(ctx context.Context, postID int64) (int64, error)

	// PendingPostIDs lists posts with buffered views awaiting a flush.
	PendingPostIDs(ctx context.Context) ([]int64, error)

	// GetAndResetCount atomically reads and clears the buffered count for a
	// post. Returns 0 when there is nothing buffered.
	GetAndResetCount(ctx context.Context, postID int64) (int64, error)

	// RemovePending drops a post from the pending set after its buffered
	// count has been flushed.
	RemovePending(ctx context.Context, postID int64) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	Close() error
}
