package service_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/storage"
)

func TestImageUpload(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	images := &service.ImageService{Store: st, Storage: storage.NewMemoryStorage()}
	ctx := context.Background()

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	bob := signUpMember(t, auth, "b@plog.com", "secret2", "bob")

	data := "not really a png"
	img, err := images.Upload(ctx, alice.ID, "Cat Photo.PNG", strings.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Equal(t, domain.ImageStatusPending, img.Status)
	require.Equal(t, "Cat Photo.PNG", img.OriginalName)
	require.True(t, strings.HasSuffix(img.StoredName, ".png"))
	require.NotContains(t, img.StoredName, "Cat")

	t.Run("open round trips the bytes", func(t *testing.T) {
		got, rc, err := images.Open(ctx, img.ID)
		require.NoError(t, err)
		defer rc.Close()

		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.Equal(t, data, string(body))
		require.Equal(t, img.StoredName, got.StoredName)
	})

	t.Run("extension whitelist", func(t *testing.T) {
		_, err := images.Upload(ctx, alice.ID, "nasty.exe", strings.NewReader("x"), 1)
		require.ErrorIs(t, err, service.ErrInvalidImage)

		_, err = images.Upload(ctx, alice.ID, "noext", strings.NewReader("x"), 1)
		require.ErrorIs(t, err, service.ErrInvalidImage)
	})

	t.Run("only the uploader can delete", func(t *testing.T) {
		require.ErrorIs(t, images.Delete(ctx, bob.ID, img.ID), service.ErrNotOwner)
		require.NoError(t, images.Delete(ctx, alice.ID, img.ID))

		_, _, err := images.Open(ctx, img.ID)
		require.ErrorIs(t, err, service.ErrInvalidImage)
	})
}

func TestImageCleanupStale(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	images := &service.ImageService{Store: st, Storage: storage.NewMemoryStorage()}
	ctx := context.Background()

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")

	pending, err := images.Upload(ctx, alice.ID, "orphan.jpg", strings.NewReader("x"), 1)
	require.NoError(t, err)

	used, err := images.Upload(ctx, alice.ID, "kept.jpg", strings.NewReader("x"), 1)
	require.NoError(t, err)
	require.NoError(t, st.Images().MarkImagesUsed(ctx, []int64{used.ID}))

	// Zero grace period makes every pending upload stale immediately.
	removed, err := images.CleanupStale(ctx, -time.Second)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, _, err = images.Open(ctx, pending.ID)
	require.ErrorIs(t, err, service.ErrInvalidImage)

	_, _, err = images.Open(ctx, used.ID)
	require.NoError(t, err)
}
