package sqlite

import (
	"context"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
)

type hashtagsRepo struct {
	q querier
}

func (r *hashtagsRepo) Upsert(ctx context.Context, name string) (domain.HashTag, error) {
	// ON CONFLICT DO NOTHING keeps the original created_at for existing tags.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO hashtags (name, created_at) VALUES (?, ?)
		ON CONFLICT(name) DO NOTHING`,
		name, time.Now().UTC(),
	)
	if err != nil {
		return domain.HashTag{}, err
	}

	var tag domain.HashTag
	row := r.q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM hashtags WHERE name = ?`, name)
	if err := row.Scan(&tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
		return domain.HashTag{}, mapNotFound(err)
	}
	return tag, nil
}

func (r *hashtagsRepo) ReplacePostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if _, err := r.q.ExecContext(ctx,
		`DELETE FROM post_hashtags WHERE post_id = ?`, postID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := r.q.ExecContext(ctx, `
			INSERT INTO post_hashtags (post_id, hashtag_id) VALUES (?, ?)
			ON CONFLICT DO NOTHING`,
			postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *hashtagsRepo) TagsForPost(ctx context.Context, postID int64) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT h.name
		FROM hashtags h
		JOIN post_hashtags ph ON ph.hashtag_id = h.id
		WHERE ph.post_id = ?
		ORDER BY h.name ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *hashtagsRepo) ListUsage(ctx context.Context) ([]store.HashTagUsage, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT h.name, COUNT(p.id) AS post_count
		FROM hashtags h
		JOIN post_hashtags ph ON ph.hashtag_id = h.id
		JOIN posts p ON p.id = ph.post_id AND p.status = ?
		GROUP BY h.id, h.name
		HAVING COUNT(p.id) > 0
		ORDER BY post_count DESC, h.name ASC`,
		string(domain.PostStatusPublished))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []store.HashTagUsage
	for rows.Next() {
		var u store.HashTagUsage
		if err := rows.Scan(&u.Name, &u.PostCount); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (r *hashtagsRepo) DeleteOrphans(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `
		DELETE FROM hashtags
		WHERE id NOT IN (SELECT DISTINCT hashtag_id FROM post_hashtags)`)
	return err
}
