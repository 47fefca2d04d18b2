package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/store"
	"github.com/ploghq/plog/internal/plog/store/drivers/sqlite"
	"github.com/ploghq/plog/pkg/jwtx"
	"github.com/ploghq/plog/pkg/tokencache"
)

const testSecret = "service-test-secret-0123456789abcdef"

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "plog.db") + "?_busy_timeout=5000"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newAuthService(t *testing.T, st store.Store) *service.AuthService {
	t.Helper()

	issuer, err := jwtx.NewIssuer(testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	return &service.AuthService{
		Store:    st,
		Issuer:   issuer,
		Verifier: jwtx.NewVerifier(testSecret),
		Cache:    tokencache.New(tokencache.DefaultCapacity, time.Hour),
	}
}

func signUpMember(t *testing.T, auth *service.AuthService, email, password, nickname string) domain.Member {
	t.Helper()

	member, err := auth.SignUp(context.Background(), email, password, nickname)
	require.NoError(t, err)
	return member
}
