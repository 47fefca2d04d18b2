package domain

import "time"

// Comment belongs to a post. A nil ParentID marks a top-level comment; replies
// reference their parent and nest one level deep.
type Comment struct {
	ID             int64
	PostID         int64
	MemberID       int64
	AuthorNickname string
	ParentID       *int64
	Content        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
