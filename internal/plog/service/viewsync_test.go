package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/store/drivers/redisvc"
)

func TestRecordViewDedupe(t *testing.T) {
	vc := redisvc.New(miniredis.RunT(t).Addr())
	t.Cleanup(func() { _ = vc.Close() })

	views := &service.ViewCountService{Views: vc, Window: time.Hour}
	ctx := context.Background()

	require.NoError(t, views.RecordView(ctx, 1, "10.0.0.1"))
	require.NoError(t, views.RecordView(ctx, 1, "10.0.0.1"))
	require.NoError(t, views.RecordView(ctx, 1, "10.0.0.2"))

	count, err := vc.GetAndResetCount(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	t.Run("nil backend is a no-op", func(t *testing.T) {
		disabled := &service.ViewCountService{}
		require.NoError(t, disabled.RecordView(ctx, 1, "10.0.0.1"))
	})
}

func TestViewSyncFlushesIntoStore(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	posts := &service.PostService{Store: st}
	ctx := context.Background()

	vc := redisvc.New(miniredis.RunT(t).Addr())
	t.Cleanup(func() { _ = vc.Close() })

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	post, err := posts.CreatePost(ctx, alice.ID, "p", "body", nil, nil)
	require.NoError(t, err)

	views := &service.ViewCountService{Views: vc, Window: time.Hour}
	require.NoError(t, views.RecordView(ctx, post.ID, "viewer-a"))
	require.NoError(t, views.RecordView(ctx, post.ID, "viewer-b"))

	sync := service.NewViewSyncService(st, vc, nil, slog.Default(), time.Hour)
	sync.Start()
	sync.Stop() // stop triggers a final flush

	got, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, got.ViewCount)

	pending, err := vc.PendingPostIDs(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}
