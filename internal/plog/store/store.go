package store

import (
	"context"
	"errors"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories are exposed as methods to keep concerns
// tidy and testable.
type Store interface {
	Members() Members
	Posts() Posts
	Comments() Comments
	HashTags() HashTags
	Images() Images

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Members interface {
	// CreateMember inserts a new member and returns the assigned id. Returns
	// ErrAlreadyExists when the email or nickname is taken.
	CreateMember(ctx context.Context, m domain.Member) (int64, error)

	// GetMemberByEmail is used during sign-in and token reissue.
	GetMemberByEmail(ctx context.Context, email string) (domain.Member, error)

	GetMemberByID(ctx context.Context, id int64) (domain.Member, error)

	// UpdateProfile mutates nickname and profile image, bumping updated_at.
	// A nil profileImageID clears the profile image.
	UpdateProfile(ctx context.Context, id int64, nickname string, profileImageID *int64) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id int64, newHash string) error
}

// PostQuery narrows and pages post listings. A zero Limit means no limit.
type PostQuery struct {
	HashTag string
	Offset  int
	Limit   int
}

type Posts interface {
	// CreatePost inserts a new published post and returns the assigned id.
	CreatePost(ctx context.Context, p domain.Post) (int64, error)

	// GetPostByID returns a post with its author nickname and hashtags.
	// Deleted posts are returned as ErrNotFound.
	GetPostByID(ctx context.Context, id int64) (domain.Post, error)

	// ListPosts returns published posts newest first.
	ListPosts(ctx context.Context, q PostQuery) ([]domain.Post, error)

	// CountPosts returns the number of published posts matching the query.
	CountPosts(ctx context.Context, q PostQuery) (int64, error)

	// UpdatePost replaces title, content, summary and thumbnail, bumping
	// updated_at.
	UpdatePost(ctx context.Context, id int64, title, content, summary string, thumbnailImageID *int64) error

	// SoftDeletePost tombstones a post. Its comments stay attached.
	SoftDeletePost(ctx context.Context, id int64) error

	// AddViewCount adds delta to the stored view count.
	AddViewCount(ctx context.Context, id int64, delta int64) error
}

type Comments interface {
	// CreateComment inserts a comment and returns the assigned id.
	CreateComment(ctx context.Context, c domain.Comment) (int64, error)

	GetCommentByID(ctx context.Context, id int64) (domain.Comment, error)

	// ListCommentsByPost returns all comments on a post oldest first,
	// with author nicknames resolved.
	ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error)

	// UpdateComment replaces the content, bumping updated_at.
	UpdateComment(ctx context.Context, id int64, content string) error

	// DeleteComment removes a comment and, via cascade, its replies.
	DeleteComment(ctx context.Context, id int64) error
}

// HashTagUsage pairs a tag name with how many published posts carry it.
type HashTagUsage struct {
	Name      string
	PostCount int64
}

type HashTags interface {
	// Upsert inserts the tag if missing and returns its record either way.
	// The name must already be normalized.
	Upsert(ctx context.Context, name string) (domain.HashTag, error)

	// ReplacePostTags rewrites the tag set attached to a post.
	ReplacePostTags(ctx context.Context, postID int64, tagIDs []int64) error

	// TagsForPost returns the normalized tag names on a post.
	TagsForPost(ctx context.Context, postID int64) ([]string, error)

	// ListUsage returns all tags used by at least one published post,
	// most used first.
	ListUsage(ctx context.Context) ([]HashTagUsage, error)

	// DeleteOrphans removes tags no longer referenced by any post.
	DeleteOrphans(ctx context.Context) error
}

type Images interface {
	// CreateImage inserts a pending image record and returns the assigned id.
	CreateImage(ctx context.Context, img domain.Image) (int64, error)

	GetImageByID(ctx context.Context, id int64) (domain.Image, error)

	// MarkImagesUsed flips the given images to USED.
	MarkImagesUsed(ctx context.Context, ids []int64) error

	// DeleteImage removes an image record.
	DeleteImage(ctx context.Context, id int64) error

	// ListStalePending returns pending images created before the cutoff,
	// candidates for cleanup.
	ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Image, error)
}
