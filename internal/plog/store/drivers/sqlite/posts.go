package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
)

type postsRepo struct {
	q querier
}

const postColumns = `p.id, p.member_id, m.nickname, p.title, p.content, p.summary,
	p.status, p.view_count, p.thumbnail_image_id, p.created_at, p.updated_at`

func scanPost(row rowScanner) (domain.Post, error) {
	var p domain.Post
	var thumbnailID sql.NullInt64
	err := row.Scan(&p.ID, &p.MemberID, &p.AuthorNickname, &p.Title, &p.Content,
		&p.Summary, &p.Status, &p.ViewCount, &thumbnailID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, err
	}
	p.ThumbnailImageID = mapNullInt64Ptr(thumbnailID)
	return p, nil
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO posts (member_id, title, content, summary, status, view_count, thumbnail_image_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		p.MemberID, p.Title, p.Content, p.Summary, string(domain.PostStatusPublished),
		mapOptionalInt64(p.ThumbnailImageID), now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *postsRepo) GetPostByID(ctx context.Context, id int64) (domain.Post, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		JOIN members m ON m.id = p.member_id
		WHERE p.id = ? AND p.status = ?`,
		id, string(domain.PostStatusPublished),
	)

	p, err := scanPost(row)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}

	tags, err := (&hashtagsRepo{q: r.q}).TagsForPost(ctx, p.ID)
	if err != nil {
		return domain.Post{}, err
	}
	p.HashTags = tags
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context, q store.PostQuery) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN members m ON m.id = p.member_id`
	args := []any{}

	if q.HashTag != "" {
		query += `
		JOIN post_hashtags ph ON ph.post_id = p.id
		JOIN hashtags h ON h.id = ph.hashtag_id AND h.name = ?`
		args = append(args, q.HashTag)
	}

	query += `
		WHERE p.status = ?
		ORDER BY p.created_at DESC, p.id DESC`
	args = append(args, string(domain.PostStatusPublished))

	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tagsRepo := &hashtagsRepo{q: r.q}
	for i := range posts {
		tags, err := tagsRepo.TagsForPost(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].HashTags = tags
	}
	return posts, nil
}

func (r *postsRepo) CountPosts(ctx context.Context, q store.PostQuery) (int64, error) {
	query := `SELECT COUNT(*) FROM posts p`
	args := []any{}

	if q.HashTag != "" {
		query += `
		JOIN post_hashtags ph ON ph.post_id = p.id
		JOIN hashtags h ON h.id = ph.hashtag_id AND h.name = ?`
		args = append(args, q.HashTag)
	}

	query += ` WHERE p.status = ?`
	args = append(args, string(domain.PostStatusPublished))

	var count int64
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postsRepo) UpdatePost(ctx context.Context, id int64, title, content, summary string, thumbnailImageID *int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE posts SET title = ?, content = ?, summary = ?, thumbnail_image_id = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		title, content, summary, mapOptionalInt64(thumbnailImageID), time.Now().UTC(),
		id, string(domain.PostStatusPublished),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *postsRepo) SoftDeletePost(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE posts SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.PostStatusDeleted), time.Now().UTC(), id, string(domain.PostStatusPublished),
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *postsRepo) AddViewCount(ctx context.Context, id int64, delta int64) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE posts SET view_count = view_count + ? WHERE id = ?`, delta, id)
	return err
}
