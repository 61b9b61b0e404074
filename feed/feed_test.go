package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/hoa-backoffice-go/apperr"
	"github.com/phillip/hoa-backoffice-go/auth"
	"github.com/phillip/hoa-backoffice-go/models"
)

func newTestService(store *fakeStore, media *fakeMedia) *Service {
	return NewService(store, media, zerolog.Nop())
}

func seedPost(store *fakeStore, authorUID, mediaURL string) primitive.ObjectID {
	post := models.Post{
		ID:         primitive.NewObjectID(),
		AuthorID:   authorUID,
		AuthorName: "Treasurer",
		Content:    "Water interruption on Saturday",
		MediaURL:   mediaURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	store.data.posts[post.ID] = post
	return post.ID
}

func member(surname, first string) models.Member {
	return models.Member{Surname: surname, FirstName: first, Status: models.MemberStatusActive}
}

func TestResolveDisplayName(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.admins["u-admin"] = models.Admin{AuthUID: "u-admin", RoleLabel: "President"}
	store.members["u-admin"] = member("Cruz", "Maria")
	store.members["u-member"] = member("Reyes", "Ana")
	svc := newTestService(store, &fakeMedia{})

	tests := []struct {
		name     string
		uid      string
		fallback string
		want     string
	}{
		{"admin role wins over member record", "u-admin", "ignored", "President"},
		{"member name", "u-member", "ignored", "Reyes Ana"},
		{"fallback when unknown", "u-ghost", "Guest Account", "Guest Account"},
		{"default when fallback empty", "u-ghost", "", DefaultAuthorName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveDisplayName(ctx, tt.uid, tt.fallback)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	user := auth.UserContext{UID: "u-1", DisplayName: "Fallback Name", PhotoURL: "https://p/u1.jpg"}

	t.Run("counters start at zero", func(t *testing.T) {
		store := newFakeStore()
		store.members["u-1"] = member("Cruz", "Maria")
		svc := newTestService(store, &fakeMedia{})

		post, err := svc.CreatePost(ctx, user, CreatePostInput{Category: "announcement", Content: "hello"})
		require.NoError(t, err)
		assert.Equal(t, 0, post.ReactsCount)
		assert.Equal(t, 0, post.CommentsCount)
		assert.Equal(t, "Cruz Maria", post.AuthorName)
		assert.Equal(t, "", post.MediaURL)
	})

	t.Run("media uploads before the write", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store, &fakeMedia{uploadURL: "https://blobs/m.jpg"})

		post, err := svc.CreatePost(ctx, user, CreatePostInput{
			Content: "with photo", Media: nopFile{}, MediaType: models.MediaTypeImage,
		})
		require.NoError(t, err)
		assert.Equal(t, "https://blobs/m.jpg", post.MediaURL)
		assert.Equal(t, models.MediaTypeImage, post.MediaType)
	})

	t.Run("rejects empty post and bad media type", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMedia{})
		_, err := svc.CreatePost(ctx, user, CreatePostInput{})
		assert.True(t, apperr.IsValidation(err))
		_, err = svc.CreatePost(ctx, user, CreatePostInput{Content: "x", Media: nopFile{}, MediaType: "gif"})
		assert.True(t, apperr.IsValidation(err))
	})
}

func TestToggleReaction(t *testing.T) {
	ctx := context.Background()
	user := auth.UserContext{UID: "u-1", DisplayName: "Maria"}

	t.Run("round trip restores the original count", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		reacted, err := svc.ToggleReaction(ctx, user, postID)
		require.NoError(t, err)
		assert.True(t, reacted)
		assert.Equal(t, 1, store.data.posts[postID].ReactsCount)
		_, exists := store.data.reactions[reactionKey(postID, "u-1")]
		assert.True(t, exists)

		reacted, err = svc.ToggleReaction(ctx, user, postID)
		require.NoError(t, err)
		assert.False(t, reacted)
		assert.Equal(t, 0, store.data.posts[postID].ReactsCount)
		_, exists = store.data.reactions[reactionKey(postID, "u-1")]
		assert.False(t, exists)
	})

	t.Run("conflict retry does not double count", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		store.conflictRetries = 1
		reacted, err := svc.ToggleReaction(ctx, user, postID)
		require.NoError(t, err)
		assert.True(t, reacted)
		assert.Equal(t, 2, store.txAttempts)
		assert.Equal(t, 1, store.data.posts[postID].ReactsCount)
	})

	t.Run("two users land on two regardless of order", func(t *testing.T) {
		users := []auth.UserContext{
			{UID: "u-1", DisplayName: "Maria"},
			{UID: "u-2", DisplayName: "Ana"},
		}
		for _, order := range [][]int{{0, 1}, {1, 0}} {
			store := newFakeStore()
			postID := seedPost(store, "author", "")
			svc := newTestService(store, &fakeMedia{})

			for _, i := range order {
				_, err := svc.ToggleReaction(ctx, users[i], postID)
				require.NoError(t, err)
			}
			assert.Equal(t, 2, store.data.posts[postID].ReactsCount)
			_, ok1 := store.data.reactions[reactionKey(postID, "u-1")]
			_, ok2 := store.data.reactions[reactionKey(postID, "u-2")]
			assert.True(t, ok1 && ok2)
		}
	})

	t.Run("missing post", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMedia{})
		_, err := svc.ToggleReaction(ctx, user, primitive.NewObjectID())
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("reaction carries the resolved name", func(t *testing.T) {
		store := newFakeStore()
		store.admins["u-1"] = models.Admin{AuthUID: "u-1", RoleLabel: "Treasurer"}
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		_, err := svc.ToggleReaction(ctx, user, postID)
		require.NoError(t, err)
		assert.Equal(t, "Treasurer", store.data.reactions[reactionKey(postID, "u-1")].AuthorName)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	user := auth.UserContext{UID: "u-1", DisplayName: "Maria"}

	t.Run("appends and increments together", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		for i, text := range []string{"first", "second", "third"} {
			comment, err := svc.AddComment(ctx, user, postID, text)
			require.NoError(t, err)
			assert.Equal(t, text, comment.Content)
			assert.Equal(t, i+1, store.data.posts[postID].CommentsCount)
		}

		comments, err := svc.ListComments(ctx, postID)
		require.NoError(t, err)
		require.Len(t, comments, 3)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "third", comments[2].Content)
	})

	t.Run("empty comment rejected", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		_, err := svc.AddComment(ctx, user, postID, "")
		assert.True(t, apperr.IsValidation(err))
		assert.Equal(t, 0, store.data.posts[postID].CommentsCount)
	})

	t.Run("missing post", func(t *testing.T) {
		svc := newTestService(newFakeStore(), &fakeMedia{})
		_, err := svc.AddComment(ctx, user, primitive.NewObjectID(), "hello")
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	author := auth.UserContext{UID: "author", DisplayName: "Maria"}

	seedTree := func(store *fakeStore, mediaURL string) primitive.ObjectID {
		postID := seedPost(store, "author", mediaURL)
		svc := newTestService(store, &fakeMedia{})
		for _, text := range []string{"c1", "c2", "c3"} {
			if _, err := svc.AddComment(ctx, author, postID, text); err != nil {
				panic(err)
			}
		}
		for _, uid := range []string{"u-1", "u-2"} {
			if _, err := svc.ToggleReaction(ctx, auth.UserContext{UID: uid}, postID); err != nil {
				panic(err)
			}
		}
		return postID
	}

	t.Run("cascades children and removes media", func(t *testing.T) {
		store := newFakeStore()
		media := &fakeMedia{}
		postID := seedTree(store, "https://blobs/m.jpg")
		svc := newTestService(store, media)

		require.NoError(t, svc.DeletePost(ctx, author, postID))
		assert.Empty(t, store.data.posts)
		assert.Empty(t, store.data.reactions)
		assert.Empty(t, store.data.comments)
		assert.Equal(t, []string{"https://blobs/m.jpg"}, media.deleted)
	})

	t.Run("failed blob delete still removes post and children", func(t *testing.T) {
		store := newFakeStore()
		media := &fakeMedia{deleteErr: errors.New("blob service down")}
		postID := seedTree(store, "https://blobs/m.jpg")
		svc := newTestService(store, media)

		require.NoError(t, svc.DeletePost(ctx, author, postID))
		assert.Empty(t, store.data.posts)
		assert.Empty(t, store.data.reactions)
		assert.Empty(t, store.data.comments)
	})

	t.Run("only the author or an admin may delete", func(t *testing.T) {
		store := newFakeStore()
		postID := seedTree(store, "")
		svc := newTestService(store, &fakeMedia{})

		err := svc.DeletePost(ctx, auth.UserContext{UID: "stranger"}, postID)
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		err = svc.DeletePost(ctx, auth.UserContext{UID: "stranger", IsAdmin: true}, postID)
		require.NoError(t, err)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	author := auth.UserContext{UID: "author"}

	t.Run("edits fields but never counters", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		_, err := svc.ToggleReaction(ctx, auth.UserContext{UID: "u-1"}, postID)
		require.NoError(t, err)

		content := "updated text"
		require.NoError(t, svc.UpdatePost(ctx, author, postID, UpdatePostInput{Content: &content}))

		post := store.data.posts[postID]
		assert.Equal(t, "updated text", post.Content)
		assert.Equal(t, 1, post.ReactsCount)
	})

	t.Run("pinning is admin only", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		pinned := true
		err := svc.UpdatePost(ctx, author, postID, UpdatePostInput{Pinned: &pinned})
		assert.ErrorIs(t, err, apperr.ErrForbidden)

		err = svc.UpdatePost(ctx, auth.UserContext{UID: "board", IsAdmin: true}, postID, UpdatePostInput{Pinned: &pinned})
		require.NoError(t, err)
		assert.True(t, store.data.posts[postID].Pinned)
	})

	t.Run("strangers cannot edit", func(t *testing.T) {
		store := newFakeStore()
		postID := seedPost(store, "author", "")
		svc := newTestService(store, &fakeMedia{})

		content := "defaced"
		err := svc.UpdatePost(ctx, auth.UserContext{UID: "stranger"}, postID, UpdatePostInput{Content: &content})
		assert.ErrorIs(t, err, apperr.ErrForbidden)
	})
}
