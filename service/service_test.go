package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"blogly/models"
	"blogly/store"
)

func newTestService(t *testing.T, opts Options) (*Service, *gorm.DB) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := store.OpenMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return New(store.NewGorm(db), log, opts), db
}

func countLinks(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.PostTag{}).Count(&n).Error)
	return n
}

func mustTag(t *testing.T, s *Service, name string) *models.Tag {
	t.Helper()
	tag, err := s.CreateTag(context.Background(), name)
	require.NoError(t, err)
	return tag
}

func mustUser(t *testing.T, s *Service, first, last string) *models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), NewUser{FirstName: first, LastName: last})
	require.NoError(t, err)
	return u
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("blank image uses default", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		u, err := s.CreateUser(ctx, NewUser{FirstName: "John", LastName: "Mack"})
		require.NoError(t, err)
		assert.Equal(t, models.DefaultImageURL, u.ImageURL)
	})

	t.Run("configured default image", func(t *testing.T) {
		s, _ := newTestService(t, Options{DefaultImageURL: "https://example.com/me.png"})
		u, err := s.CreateUser(ctx, NewUser{FirstName: "John", LastName: "Mack"})
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/me.png", u.ImageURL)
	})

	t.Run("keeps submitted image", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		u, err := s.CreateUser(ctx, NewUser{FirstName: "John", LastName: "Mack", ImageURL: "https://picsum.photos/200/300"})
		require.NoError(t, err)
		assert.Equal(t, "https://picsum.photos/200/300", u.ImageURL)
	})

	t.Run("requires names", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		_, err := s.CreateUser(ctx, NewUser{FirstName: "John"})
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "last_name", ve.Field)
		assert.Equal(t, "last_name is required", ve.Error())
	})
}

func TestListUsersOrdered(t *testing.T) {
	s, _ := newTestService(t, Options{})
	mustUser(t, s, "John", "Mack")
	mustUser(t, s, "Ada", "Lovelace")
	mustUser(t, s, "Elisha", "Mack")

	users, err := s.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Ada Lovelace", users[0].FullName())
	assert.Equal(t, "Elisha Mack", users[1].FullName())
	assert.Equal(t, "John Mack", users[2].FullName())
}

func TestUpdateUserPartial(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")

	updated, err := s.UpdateUser(ctx, u.ID, models.UserPatch{FirstName: models.Present("Johnny"), LastName: models.Present("")})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Mack", updated.LastName)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny Mack", got.FullName())
	assert.Equal(t, models.DefaultImageURL, got.ImageURL)

	_, err = s.UpdateUser(ctx, 999, models.UserPatch{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreatePostDropsUnknownTags(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")
	tag := mustTag(t, s, "go")

	p, err := s.CreatePost(ctx, u.ID, NewPost{Title: "Hello", Content: "World", TagIDs: []uint{tag.ID, 404}})
	require.NoError(t, err)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, tag.ID, got.Tags[0].ID)
	assert.Equal(t, u.ID, got.CreatorID)
}

func TestCreatePostUnknownUser(t *testing.T) {
	s, _ := newTestService(t, Options{})
	_, err := s.CreatePost(context.Background(), 7, NewPost{Title: "t", Content: "c"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreatePostRequiresFields(t *testing.T) {
	s, _ := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")

	_, err := s.CreatePost(context.Background(), u.ID, NewPost{Title: "t"})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "content", ve.Field)
}

func TestUpdatePostReplacesTags(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")
	goTag := mustTag(t, s, "go")
	sqlTag := mustTag(t, s, "sql")
	webTag := mustTag(t, s, "web")

	p, err := s.CreatePost(ctx, u.ID, NewPost{Title: "Hello", Content: "World", TagIDs: []uint{goTag.ID, sqlTag.ID}})
	require.NoError(t, err)
	createdAt := p.CreatedAt

	_, err = s.UpdatePost(ctx, p.ID, models.PostPatch{
		Title:  models.Present("Hello again"),
		TagIDs: []uint{webTag.ID, 12345},
	})
	require.NoError(t, err)

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello again", got.Title)
	assert.Equal(t, "World", got.Content)
	assert.WithinDuration(t, createdAt, got.CreatedAt, time.Millisecond)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "web", got.Tags[0].Name)

	_, err = s.UpdatePost(ctx, p.ID, models.PostPatch{})
	require.NoError(t, err)
	got, err = s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestDeletePostReturnsCreator(t *testing.T) {
	ctx := context.Background()
	s, db := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")
	tag := mustTag(t, s, "go")
	p, err := s.CreatePost(ctx, u.ID, NewPost{Title: "t", Content: "c", TagIDs: []uint{tag.ID}})
	require.NoError(t, err)

	creator, err := s.DeletePost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, creator)
	assert.EqualValues(t, 0, countLinks(t, db))

	_, err = s.DeletePost(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteUserPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("restrict keeps user with posts", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		u := mustUser(t, s, "John", "Mack")
		_, err := s.CreatePost(ctx, u.ID, NewPost{Title: "t", Content: "c"})
		require.NoError(t, err)

		assert.ErrorIs(t, s.DeleteUser(ctx, u.ID), ErrUserHasPosts)
		_, err = s.GetUser(ctx, u.ID)
		assert.NoError(t, err)
	})

	t.Run("restrict deletes user without posts", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		u := mustUser(t, s, "John", "Mack")

		require.NoError(t, s.DeleteUser(ctx, u.ID))
		_, err := s.GetUser(ctx, u.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("cascade removes posts", func(t *testing.T) {
		s, db := newTestService(t, Options{DeletePolicy: DeleteCascade})
		u := mustUser(t, s, "John", "Mack")
		tag := mustTag(t, s, "go")
		p, err := s.CreatePost(ctx, u.ID, NewPost{Title: "t", Content: "c", TagIDs: []uint{tag.ID}})
		require.NoError(t, err)

		require.NoError(t, s.DeleteUser(ctx, u.ID))
		_, err = s.GetPost(ctx, p.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.EqualValues(t, 0, countLinks(t, db))
	})

	t.Run("missing user", func(t *testing.T) {
		s, _ := newTestService(t, Options{})
		assert.ErrorIs(t, s.DeleteUser(ctx, 5), store.ErrNotFound)
	})
}

func TestTags(t *testing.T) {
	ctx := context.Background()
	s, db := newTestService(t, Options{})

	tag := mustTag(t, s, "Yo Yo Ma")

	_, err := s.CreateTag(ctx, "Yo Yo Ma")
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = s.CreateTag(ctx, "")
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))

	updated, err := s.UpdateTag(ctx, tag.ID, models.TagPatch{Name: models.Present("")})
	require.NoError(t, err)
	assert.Equal(t, "Yo Yo Ma", updated.Name)

	u := mustUser(t, s, "John", "Mack")
	_, err = s.CreatePost(ctx, u.ID, NewPost{Title: "t", Content: "c", TagIDs: []uint{tag.ID}})
	require.NoError(t, err)
	require.EqualValues(t, 1, countLinks(t, db))

	require.NoError(t, s.DeleteTag(ctx, tag.ID))
	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 0)
	assert.EqualValues(t, 0, countLinks(t, db))
}

func TestParseDeletePolicy(t *testing.T) {
	for in, want := range map[string]DeletePolicy{"": DeleteRestrict, "restrict": DeleteRestrict, "cascade": DeleteCascade} {
		got, err := ParseDeletePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDeletePolicy("nullify")
	assert.Error(t, err)
}

func TestCreatedAtIsRecent(t *testing.T) {
	s, _ := newTestService(t, Options{})
	u := mustUser(t, s, "John", "Mack")
	before := time.Now()
	p, err := s.CreatePost(context.Background(), u.ID, NewPost{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.False(t, p.CreatedAt.Before(before))
}
