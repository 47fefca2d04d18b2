package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/pkg/cryptox"
	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/tokencache"
)

var (
	// ErrCredentialMismatch covers both unknown email and wrong password so
	// the two cases are indistinguishable to callers.
	ErrCredentialMismatch = errors.New("invalid email or password")

	ErrDuplicateMember = errors.New("email or nickname already in use")
	ErrInvalidSignUp   = errors.New("invalid sign-up request")
	ErrInvalidRefresh  = errors.New("invalid refresh token")
	ErrMemberNotFound  = errors.New("member not found")
)

// AuthService owns sign-up, sign-in, logout and access token reissue.
type AuthService struct {
	Store    store.Store
	Issuer   *jwtx.Issuer
	Verifier jwtx.Verifier
	Cache    *tokencache.Cache
}

// LoginResult carries the signed-in member together with the freshly issued
// token pair.
type LoginResult struct {
	Member       domain.Member
	AccessToken  string
	RefreshToken string
}

// SignUp registers a new member with an argon2id password hash.
func (s *AuthService) SignUp(ctx context.Context, email, password, nickname string) (domain.Member, error) {
	email = strings.TrimSpace(email)
	nickname = strings.TrimSpace(nickname)
	if email == "" || !strings.Contains(email, "@") || password == "" || nickname == "" {
		return domain.Member{}, ErrInvalidSignUp
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Member{}, fmt.Errorf("hash password: %w", err)
	}

	member := domain.Member{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
	}
	id, err := s.Store.Members().CreateMember(ctx, member)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Member{}, ErrDuplicateMember
		}
		return domain.Member{}, err
	}

	return s.Store.Members().GetMemberByID(ctx, id)
}

// Login checks credentials, issues a token pair and remembers the refresh
// token under the member's email.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	member, err := s.Store.Members().GetMemberByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrCredentialMismatch
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, member.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, ErrCredentialMismatch
		}
		return LoginResult{}, err
	}

	accessToken, err := s.Issuer.AccessToken(member.ID, member.Email, member.Nickname)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.Issuer.RefreshToken(member.Email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue refresh token: %w", err)
	}

	s.Cache.Save(member.Email, refreshToken)

	return LoginResult{
		Member:       member,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout drops the cached refresh token for whoever the presented token
// belongs to. A missing or dead token still logs out cleanly; there is simply
// nothing to drop.
func (s *AuthService) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return
	}
	s.Cache.Delete(claims.Subject)
}

// Reissue validates a refresh token against the cache and mints a fresh
// access token for its owner.
func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrInvalidRefresh
	}

	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return "", ErrInvalidRefresh
	}

	cached, ok := s.Cache.Get(claims.Subject)
	if !ok || cached != refreshToken {
		return "", ErrInvalidRefresh
	}

	member, err := s.Store.Members().GetMemberByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefresh
		}
		return "", err
	}

	accessToken, err := s.Issuer.AccessToken(member.ID, member.Email, member.Nickname)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return accessToken, nil
}
