package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
)

type imagesRepo struct {
	q querier
}

const imageColumns = `id, member_id, stored_name, original_name, status, created_at, updated_at`

func (r *imagesRepo) CreateImage(ctx context.Context, img domain.Image) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO images (member_id, stored_name, original_name, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		img.MemberID, img.StoredName, img.OriginalName, string(domain.ImageStatusPending), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *imagesRepo) GetImageByID(ctx context.Context, id int64) (domain.Image, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+imageColumns+` FROM images WHERE id = ?`, id)

	var img domain.Image
	err := row.Scan(&img.ID, &img.MemberID, &img.StoredName, &img.OriginalName,
		&img.Status, &img.CreatedAt, &img.UpdatedAt)
	if err != nil {
		return domain.Image{}, mapNotFound(err)
	}
	return img, nil
}

func (r *imagesRepo) MarkImagesUsed(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, 0, len(ids)+2)
	args = append(args, string(domain.ImageStatusUsed), time.Now().UTC())
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := r.q.ExecContext(ctx,
		`UPDATE images SET status = ?, updated_at = ? WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func (r *imagesRepo) DeleteImage(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *imagesRepo) ListStalePending(ctx context.Context, cutoff time.Time) ([]domain.Image, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+imageColumns+`
		FROM images
		WHERE status = ? AND created_at < ?
		ORDER BY created_at ASC`,
		string(domain.ImageStatusPending), cutoff.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []domain.Image
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.MemberID, &img.StoredName, &img.OriginalName,
			&img.Status, &img.CreatedAt, &img.UpdatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}
