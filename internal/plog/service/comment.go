package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidComment  = errors.New("invalid comment request")
)

type CommentService struct {
	Store store.Store
}

// CommentThread is a top-level comment with its direct replies.
type CommentThread struct {
	Comment domain.Comment
	Replies []domain.Comment
}

// CreateComment adds a comment to a published post. Replies nest exactly one
// level: the parent must be a top-level comment on the same post.
func (s *CommentService) CreateComment(ctx context.Context, memberID, postID int64, parentID *int64, content string) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, ErrInvalidComment
	}

	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrPostNotFound
		}
		return domain.Comment{}, err
	}

	if parentID != nil {
		parent, err := s.Store.Comments().GetCommentByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domain.Comment{}, ErrCommentNotFound
			}
			return domain.Comment{}, err
		}
		if parent.PostID != postID || parent.ParentID != nil {
			return domain.Comment{}, ErrInvalidComment
		}
	}

	id, err := s.Store.Comments().CreateComment(ctx, domain.Comment{
		PostID:   postID,
		MemberID: memberID,
		ParentID: parentID,
		Content:  content,
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return s.Store.Comments().GetCommentByID(ctx, id)
}

// ListThreads returns a post's comments as top-level threads with replies,
// both oldest first.
func (s *CommentService) ListThreads(ctx context.Context, postID int64) ([]CommentThread, error) {
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comments, err := s.Store.Comments().ListCommentsByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	threads := make([]CommentThread, 0, len(comments))
	index := make(map[int64]int, len(comments))
	for _, c := range comments {
		if c.ParentID == nil {
			index[c.ID] = len(threads)
			threads = append(threads, CommentThread{Comment: c})
			continue
		}
		if i, ok := index[*c.ParentID]; ok {
			threads[i].Replies = append(threads[i].Replies, c)
		}
	}
	return threads, nil
}

// UpdateComment edits a comment the caller owns.
func (s *CommentService) UpdateComment(ctx context.Context, memberID, commentID int64, content string) (domain.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Comment{}, ErrInvalidComment
	}

	current, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Comment{}, ErrCommentNotFound
		}
		return domain.Comment{}, err
	}
	if current.MemberID != memberID {
		return domain.Comment{}, ErrNotOwner
	}

	if err := s.Store.Comments().UpdateComment(ctx, commentID, content); err != nil {
		return domain.Comment{}, err
	}
	return s.Store.Comments().GetCommentByID(ctx, commentID)
}

// DeleteComment removes a comment the caller owns along with its replies.
func (s *CommentService) DeleteComment(ctx context.Context, memberID, commentID int64) error {
	current, err := s.Store.Comments().GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if current.MemberID != memberID {
		return ErrNotOwner
	}
	return s.Store.Comments().DeleteComment(ctx, commentID)
}
