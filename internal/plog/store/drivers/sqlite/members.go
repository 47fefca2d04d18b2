package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ploghq/plog/internal/plog/domain"
)

type membersRepo struct {
	q querier
}

const memberColumns = `id, email, password_hash, nickname, profile_image_id, created_at, updated_at`

func (r *membersRepo) CreateMember(ctx context.Context, m domain.Member) (int64, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO members (email, password_hash, nickname, profile_image_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.Email, m.PasswordHash, m.Nickname, mapOptionalInt64(m.ProfileImageID), now, now,
	)
	if err != nil {
		return 0, mapConstraint(err)
	}
	return res.LastInsertId()
}

func (r *membersRepo) GetMemberByEmail(ctx context.Context, email string) (domain.Member, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE email = ?`, email)
	return scanMember(row)
}

func (r *membersRepo) GetMemberByID(ctx context.Context, id int64) (domain.Member, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	return scanMember(row)
}

func (r *membersRepo) UpdateProfile(ctx context.Context, id int64, nickname string, profileImageID *int64) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE members SET nickname = ?, profile_image_id = ?, updated_at = ?
		WHERE id = ?`,
		nickname, mapOptionalInt64(profileImageID), time.Now().UTC(), id,
	)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *membersRepo) UpdatePasswordHash(ctx context.Context, id int64, newHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE members SET password_hash = ?, updated_at = ?
		WHERE id = ?`,
		newHash, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (domain.Member, error) {
	var (
		m              domain.Member
		profileImageID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Email, &m.PasswordHash, &m.Nickname,
		&profileImageID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Member{}, mapNotFound(err)
	}
	m.ProfileImageID = mapNullInt64Ptr(profileImageID)
	return m, nil
}
