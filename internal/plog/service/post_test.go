package service_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/ploghq/plog/internal/plog/domain"
	"github.com/ploghq/plog/internal/plog/service"
	"github.com/ploghq/plog/internal/plog/storage"
)

func TestNormalizeHashTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{"  Spring Boot  ", "spring_boot"},
		{"ALREADY_NORMAL", "already_normal"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, service.NormalizeHashTag(tt.in), "input %q", tt.in)
	}

	t.Run("lists drop empties and duplicates", func(t *testing.T) {
		got := service.NormalizeHashTags([]string{"Go", "go", "  ", "Web Dev"})
		require.Equal(t, []string{"go", "web_dev"}, got)
	})
}

func TestPostLifecycle(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	posts := &service.PostService{Store: st}
	ctx := context.Background()

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	bob := signUpMember(t, auth, "b@plog.com", "secret2", "bob")

	created, err := posts.CreatePost(ctx, alice.ID, "My first post",
		"# Hello\n\nSome **markdown** body.", []string{"Go", "Web Dev"}, nil)
	require.NoError(t, err)
	require.Equal(t, "alice", created.AuthorNickname)
	require.Equal(t, "Hello Some markdown body.", created.Summary)
	require.Equal(t, []string{"go", "web_dev"}, created.HashTags)

	t.Run("summary truncates long content", func(t *testing.T) {
		long, err := posts.CreatePost(ctx, alice.ID, "long",
			strings.Repeat("words and more words ", 30), nil, nil)
		require.NoError(t, err)
		require.Equal(t, service.SummaryLength, utf8.RuneCountInString(long.Summary))
	})

	t.Run("listing filters by tag", func(t *testing.T) {
		page, err := posts.ListPosts(ctx, 1, 10, "go")
		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
		require.EqualValues(t, 1, page.TotalCount)

		// Un-normalized input matches the same tag.
		page, err = posts.ListPosts(ctx, 1, 10, " Web Dev ")
		require.NoError(t, err)
		require.Len(t, page.Posts, 1)
	})

	t.Run("update rebuilds summary and tags", func(t *testing.T) {
		updated, err := posts.UpdatePost(ctx, alice.ID, created.ID,
			"Retitled", "New body.", []string{"golang"}, nil)
		require.NoError(t, err)
		require.Equal(t, "Retitled", updated.Title)
		require.Equal(t, "New body.", updated.Summary)
		require.Equal(t, []string{"golang"}, updated.HashTags)

		// The old tags are orphaned and reaped.
		page, err := posts.ListPosts(ctx, 1, 10, "go")
		require.NoError(t, err)
		require.Empty(t, page.Posts)
	})

	t.Run("only the owner can update or delete", func(t *testing.T) {
		_, err := posts.UpdatePost(ctx, bob.ID, created.ID, "hijack", "x", nil, nil)
		require.ErrorIs(t, err, service.ErrNotOwner)

		require.ErrorIs(t, posts.DeletePost(ctx, bob.ID, created.ID), service.ErrNotOwner)
	})

	t.Run("invalid bodies rejected", func(t *testing.T) {
		_, err := posts.CreatePost(ctx, alice.ID, "", "body", nil, nil)
		require.ErrorIs(t, err, service.ErrInvalidPost)

		_, err = posts.CreatePost(ctx, alice.ID, "title", "   ", nil, nil)
		require.ErrorIs(t, err, service.ErrInvalidPost)
	})

	t.Run("thumbnail claims an owned upload", func(t *testing.T) {
		images := &service.ImageService{Store: st, Storage: storage.NewMemoryStorage()}
		img, err := images.Upload(ctx, alice.ID, "cover.png", strings.NewReader("png"), 3)
		require.NoError(t, err)

		withThumb, err := posts.CreatePost(ctx, alice.ID, "illustrated", "body", nil, &img.ID)
		require.NoError(t, err)
		require.NotNil(t, withThumb.ThumbnailImageID)
		require.Equal(t, img.ID, *withThumb.ThumbnailImageID)

		// Claiming flips the upload to USED so the reaper skips it.
		claimed, err := st.Images().GetImageByID(ctx, img.ID)
		require.NoError(t, err)
		require.Equal(t, domain.ImageStatusUsed, claimed.Status)

		// Someone else's upload cannot be used as a thumbnail.
		_, err = posts.CreatePost(ctx, bob.ID, "stolen", "body", nil, &img.ID)
		require.ErrorIs(t, err, service.ErrNotOwner)
	})

	t.Run("delete tombstones the post", func(t *testing.T) {
		require.NoError(t, posts.DeletePost(ctx, alice.ID, created.ID))

		_, err := posts.GetPost(ctx, created.ID)
		require.ErrorIs(t, err, service.ErrPostNotFound)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := posts.GetPost(ctx, 99999)
		require.ErrorIs(t, err, service.ErrPostNotFound)
	})
}

func TestCommentThreads(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	posts := &service.PostService{Store: st}
	comments := &service.CommentService{Store: st}
	ctx := context.Background()

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	bob := signUpMember(t, auth, "b@plog.com", "secret2", "bob")

	post, err := posts.CreatePost(ctx, alice.ID, "p", "body", nil, nil)
	require.NoError(t, err)

	top, err := comments.CreateComment(ctx, alice.ID, post.ID, nil, "first!")
	require.NoError(t, err)
	require.Equal(t, "alice", top.AuthorNickname)

	reply, err := comments.CreateComment(ctx, bob.ID, post.ID, &top.ID, "welcome")
	require.NoError(t, err)

	t.Run("threads nest one level", func(t *testing.T) {
		threads, err := comments.ListThreads(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, threads, 1)
		require.Equal(t, top.ID, threads[0].Comment.ID)
		require.Len(t, threads[0].Replies, 1)
		require.Equal(t, "bob", threads[0].Replies[0].AuthorNickname)
	})

	t.Run("replying to a reply is rejected", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, alice.ID, post.ID, &reply.ID, "too deep")
		require.ErrorIs(t, err, service.ErrInvalidComment)
	})

	t.Run("parent must belong to the same post", func(t *testing.T) {
		other, err := posts.CreatePost(ctx, alice.ID, "other", "body", nil, nil)
		require.NoError(t, err)

		_, err = comments.CreateComment(ctx, alice.ID, other.ID, &top.ID, "cross-post")
		require.ErrorIs(t, err, service.ErrInvalidComment)
	})

	t.Run("ownership enforced on edit and delete", func(t *testing.T) {
		_, err := comments.UpdateComment(ctx, bob.ID, top.ID, "hijack")
		require.ErrorIs(t, err, service.ErrNotOwner)

		require.ErrorIs(t, comments.DeleteComment(ctx, alice.ID, reply.ID), service.ErrNotOwner)
	})

	t.Run("owner edits and deletes", func(t *testing.T) {
		edited, err := comments.UpdateComment(ctx, alice.ID, top.ID, "edited")
		require.NoError(t, err)
		require.Equal(t, "edited", edited.Content)

		require.NoError(t, comments.DeleteComment(ctx, alice.ID, top.ID))

		threads, err := comments.ListThreads(ctx, post.ID)
		require.NoError(t, err)
		require.Empty(t, threads)
	})

	t.Run("comments on unknown posts rejected", func(t *testing.T) {
		_, err := comments.CreateComment(ctx, alice.ID, 99999, nil, "hello")
		require.ErrorIs(t, err, service.ErrPostNotFound)
	})
}

func TestMemberProfile(t *testing.T) {
	st := newTestStore(t)
	auth := newAuthService(t, st)
	members := &service.MemberService{Store: st}
	ctx := context.Background()

	alice := signUpMember(t, auth, "a@plog.com", "secret1", "alice")
	signUpMember(t, auth, "b@plog.com", "secret2", "bob")

	t.Run("nickname update", func(t *testing.T) {
		updated, err := members.UpdateProfile(ctx, alice.ID, "alice-2", nil)
		require.NoError(t, err)
		require.Equal(t, "alice-2", updated.Nickname)
	})

	t.Run("nickname collision", func(t *testing.T) {
		_, err := members.UpdateProfile(ctx, alice.ID, "bob", nil)
		require.ErrorIs(t, err, service.ErrDuplicateMember)
	})

	t.Run("password change requires the current password", func(t *testing.T) {
		err := members.ChangePassword(ctx, alice.ID, "wrong", "secret9")
		require.ErrorIs(t, err, service.ErrCredentialMismatch)

		require.ErrorIs(t, members.ChangePassword(ctx, alice.ID, "secret1", ""),
			service.ErrInvalidSignUp)

		require.NoError(t, members.ChangePassword(ctx, alice.ID, "secret1", "secret9"))

		// The old password stops working, the new one signs in.
		_, err = auth.Login(ctx, "a@plog.com", "secret1")
		require.ErrorIs(t, err, service.ErrCredentialMismatch)
		result, err := auth.Login(ctx, "a@plog.com", "secret9")
		require.NoError(t, err)
		require.Equal(t, alice.ID, result.Member.ID)
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := members.GetMemberByID(ctx, 99999)
		require.ErrorIs(t, err, service.ErrMemberNotFound)
	})
}
