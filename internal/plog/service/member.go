package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/pkg/cryptox"
)

type MemberService struct {
	Store store.Store
}

// GetMemberByID fetches a member by id.
func (s *MemberService) GetMemberByID(ctx context.Context, id int64) (domain.Member, error) {
	member, err := s.Store.Members().GetMemberByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Member{}, ErrMemberNotFound
		}
		return domain.Member{}, err
	}
	return member, nil
}

// UpdateProfile changes the nickname and profile image. When a profile image
// is given it must be an upload owned by the member; it is flipped to USED so
// the orphan reaper leaves it alone.
func (s *MemberService) UpdateProfile(ctx context.Context, memberID int64, nickname string, profileImageID *int64) (domain.Member, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return domain.Member{}, ErrInvalidSignUp
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := claimImage(ctx, tx, memberID, profileImageID); err != nil {
			return err
		}

		if err := tx.Members().UpdateProfile(ctx, memberID, nickname, profileImageID); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrDuplicateMember
			}
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Member{}, err
	}

	return s.Store.Members().GetMemberByID(ctx, memberID)
}

// ChangePassword swaps the password hash after verifying the current
// password. A wrong current password is reported as a credential mismatch.
func (s *MemberService) ChangePassword(ctx context.Context, memberID int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		return ErrInvalidSignUp
	}

	member, err := s.Store.Members().GetMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, member.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrCredentialMismatch
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Store.Members().UpdatePasswordHash(ctx, memberID, hash)
}
