package domain

import "time"

type PostStatus string

const (
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusDeleted   PostStatus = "DELETED"
)

// Post is a published article. Content is markdown; Summary is derived plain
// text for list views. Deleted posts are kept as tombstones.
type Post struct {
	ID             int64
	MemberID       int64
	AuthorNickname string
	Title          string
	Content        string
	Summary        string
	Status         PostStatus
	ViewCount      int64
	// ThumbnailImageID references an uploaded image, nil when the post has
	// no thumbnail.
	ThumbnailImageID *int64
	HashTags         []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
