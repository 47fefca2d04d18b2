package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/pkg/jwtx"
)

func TestSignUp(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	ctx := context.Background()

	member := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	require.Equal(t, "a@plog.com", member.Email)
	require.Equal(t, "alice", member.Nickname)
	require.NotEqual(t, "secret1", member.PasswordHash)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := auth.SignUp(ctx, "a@plog.com", "other", "someone")
		require.ErrorIs(t, err, service.ErrDuplicateMember)
	})

	t.Run("duplicate nickname", func(t *testing.T) {
		_, err := auth.SignUp(ctx, "b@plog.com", "other", "alice")
		require.ErrorIs(t, err, service.ErrDuplicateMember)
	})

	t.Run("bad requests", func(t *testing.T) {
		_, err := auth.SignUp(ctx, "", "pw", "nick")
		require.ErrorIs(t, err, service.ErrInvalidSignUp)

		_, err = auth.SignUp(ctx, "not-an-email", "pw", "nick")
		require.ErrorIs(t, err, service.ErrInvalidSignUp)

		_, err = auth.SignUp(ctx, "c@plog.com", "", "nick")
		require.ErrorIs(t, err, service.ErrInvalidSignUp)
	})
}

func TestLogin(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	ctx := context.Background()

	signUpMember(t, auth, "a@plog.com", "secret1", "alice")

	t.Run("success issues tokens and caches the refresh token", func(t *testing.T) {
		result, err := auth.Login(ctx, "a@plog.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "alice", result.Member.Nickname)
		require.NotEmpty(t, result.AccessToken)
		require.NotEmpty(t, result.RefreshToken)

		cached, ok := auth.Cache.Get("a@plog.com")
		require.True(t, ok)
		require.Equal(t, result.RefreshToken, cached)

		claims, err := auth.Verifier.Verify(result.AccessToken)
		require.NoError(t, err)
		require.Equal(t, "a@plog.com", claims.Subject)
		require.Equal(t, result.Member.ID, claims.MemberID)
		require.Equal(t, "alice", claims.Nickname)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, errWrongPassword := auth.Login(ctx, "a@plog.com", "wrong")
		require.ErrorIs(t, errWrongPassword, service.ErrCredentialMismatch)

		_, errUnknownEmail := auth.Login(ctx, "nobody@plog.com", "secret1")
		require.ErrorIs(t, errUnknownEmail, service.ErrCredentialMismatch)
	})
}

func TestLogout(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	ctx := context.Background()

	signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	result, err := auth.Login(ctx, "a@plog.com", "secret1")
	require.NoError(t, err)

	auth.Logout(result.RefreshToken)

	_, ok := auth.Cache.Get("a@plog.com")
	require.False(t, ok)

	t.Run("dead token is a no-op", func(t *testing.T) {
		auth.Logout("not.a.token")
		auth.Logout("")
	})
}

func TestReissue(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	ctx := context.Background()

	member := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	result, err := auth.Login(ctx, "a@plog.com", "secret1")
	require.NoError(t, err)

	t.Run("valid refresh token mints a fresh access token", func(t *testing.T) {
		access, err := auth.Reissue(ctx, result.RefreshToken)
		require.NoError(t, err)

		claims, err := auth.Verifier.Verify(access)
		require.NoError(t, err)
		require.Equal(t, member.ID, claims.MemberID)
	})

	t.Run("stale token is rejected after a newer login", func(t *testing.T) {
		// Signed with a later iat so the raw token differs from the cached one.
		stale := result.RefreshToken

		newer, err := auth.Login(ctx, "a@plog.com", "secret1")
		require.NoError(t, err)

		if stale != newer.RefreshToken {
			_, err = auth.Reissue(ctx, stale)
			require.ErrorIs(t, err, service.ErrInvalidRefresh)
		}

		_, err = auth.Reissue(ctx, newer.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("garbage and absent tokens are rejected", func(t *testing.T) {
		_, err := auth.Reissue(ctx, "garbage")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)

		_, err = auth.Reissue(ctx, "")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("uncached but well-signed token is rejected", func(t *testing.T) {
		issuer, err := jwtx.NewIssuer(testSecret, time.Minute, time.Hour)
		require.NoError(t, err)

		foreign, err := issuer.RefreshToken("b@plog.com")
		require.NoError(t, err)

		_, err = auth.Reissue(ctx, foreign)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})
}
