package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
)

type commentsRepo struct {
	q querier
}

const commentColumns = `c.id, c.post_id, c.member_id, m.nickname, c.parent_id,
	c.content, c.created_at, c.updated_at`

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO comments (post_id, member_id, parent_id, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.PostID, c.MemberID, mapOptionalInt64(c.ParentID), c.Content, now, now,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id int64) (domain.Comment, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.id = ?`, id)
	return scanComment(row)
}

func (r *commentsRepo) ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN members m ON m.id = c.member_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) UpdateComment(ctx context.Context, id int64, content string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE comments SET content = ?, updated_at = ?
		WHERE id = ?`,
		content, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var (
		c        domain.Comment
		parentID sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.PostID, &c.MemberID, &c.AuthorNickname,
		&parentID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	c.ParentID = mapNullInt64Ptr(parentID)
	return c, nil
}
