package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/pkg/mdx"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post request")
	ErrNotOwner     = errors.New("not the owner of this resource")
)

const (
	// SummaryLength bounds the derived plain-text summary on list views.
	SummaryLength = 150

	DefaultPageSize = 10
	MaxPageSize     = 50
)

type PostService struct {
	Store store.Store
}

// PostPage is one page of a post listing.
type PostPage struct {
	Posts      []domain.Post
	Page       int
	Size       int
	TotalCount int64
}

// CreatePost publishes a post, deriving the summary from the markdown content
// and attaching normalized hashtags in the same transaction. An optional
// thumbnail must be an image the caller uploaded; it is flipped to USED.
func (s *PostService) CreatePost(ctx context.Context, memberID int64, title, content string, hashtags []string, thumbnailImageID *int64) (domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return domain.Post{}, ErrInvalidPost
	}

	var post domain.Post
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := claimImage(ctx, tx, memberID, thumbnailImageID); err != nil {
			return err
		}

		id, err := tx.Posts().CreatePost(ctx, domain.Post{
			MemberID:         memberID,
			Title:            title,
			Content:          content,
			Summary:          mdx.Summary(content, SummaryLength),
			ThumbnailImageID: thumbnailImageID,
		})
		if err != nil {
			return err
		}

		if err := s.attachTags(ctx, tx, id, hashtags); err != nil {
			return err
		}

		post, err = tx.Posts().GetPostByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// GetPost returns a published post.
func (s *PostService) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	post, err := s.Store.Posts().GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Post{}, ErrPostNotFound
		}
		return domain.Post{}, err
	}
	return post, nil
}

// ListPosts pages through published posts newest first, optionally narrowed
// to a hashtag. Pages start at 1.
func (s *PostService) ListPosts(ctx context.Context, page, size int, hashtag string) (PostPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	query := store.PostQuery{
		HashTag: NormalizeHashTag(hashtag),
		Offset:  (page - 1) * size,
		Limit:   size,
	}

	posts, err := s.Store.Posts().ListPosts(ctx, query)
	if err != nil {
		return PostPage{}, err
	}
	total, err := s.Store.Posts().CountPosts(ctx, query)
	if err != nil {
		return PostPage{}, err
	}

	return PostPage{Posts: posts, Page: page, Size: size, TotalCount: total}, nil
}

// UpdatePost rewrites a post the caller owns, rebuilding the summary, the
// thumbnail and the attached tag set.
func (s *PostService) UpdatePost(ctx context.Context, memberID, postID int64, title, content string, hashtags []string, thumbnailImageID *int64) (domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return domain.Post{}, ErrInvalidPost
	}

	var post domain.Post
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Posts().GetPostByID(ctx, postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if current.MemberID != memberID {
			return ErrNotOwner
		}

		if err := claimImage(ctx, tx, memberID, thumbnailImageID); err != nil {
			return err
		}

		if err := tx.Posts().UpdatePost(ctx, postID, title, content, mdx.Summary(content, SummaryLength), thumbnailImageID); err != nil {
			return err
		}
		if err := s.attachTags(ctx, tx, postID, hashtags); err != nil {
			return err
		}
		if err := tx.HashTags().DeleteOrphans(ctx); err != nil {
			return err
		}

		post, err = tx.Posts().GetPostByID(ctx, postID)
		return err
	})
	if err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// DeletePost tombstones a post the caller owns.
func (s *PostService) DeletePost(ctx context.Context, memberID, postID int64) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Posts().GetPostByID(ctx, postID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if current.MemberID != memberID {
			return ErrNotOwner
		}

		if err := tx.Posts().SoftDeletePost(ctx, postID); err != nil {
			return err
		}
		if err := tx.HashTags().ReplacePostTags(ctx, postID, nil); err != nil {
			return err
		}
		return tx.HashTags().DeleteOrphans(ctx)
	})
}

func (s *PostService) attachTags(ctx context.Context, tx store.Tx, postID int64, hashtags []string) error {
	names := NormalizeHashTags(hashtags)
	tagIDs := make([]int64, 0, len(names))
	for _, name := range names {
		tag, err := tx.HashTags().Upsert(ctx, name)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	return tx.HashTags().ReplacePostTags(ctx, postID, tagIDs)
}
