package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

func TestFindOrCreateTagIdempotentCaseInsensitive(t *testing.T) {
	s, backend := setupTestStore(t)
	setSession(s, "user-1")

	first, err := s.FindOrCreateTag(context.Background(), "Go")
	require.NoError(t, err)

	second, err := s.FindOrCreateTag(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Go", second.Name, "stored spelling wins")

	assert.Equal(t, 1, backend.count("createTag"))
	assert.Len(t, s.UserTags(), 1)
}

func TestFindOrCreateTagScopedPerOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	seedTag(s, domain.Tag{ID: "tag-theirs", Name: "go", OwnerID: "user-2"})
	setSession(s, "user-1")

	mine, err := s.FindOrCreateTag(context.Background(), "go")
	require.NoError(t, err)
	assert.NotEqual(t, "tag-theirs", mine.ID, "another owner's tag is not reused")
}

func TestAddTagOptimisticOnRemoteFailure(t *testing.T) {
	s, backend := setupTestStore(t)
	setSession(s, "user-1")
	backend.fail["createTag"] = remote.ErrServer

	tag, err := s.AddTag(context.Background(), "offline")
	require.NoError(t, err)
	assert.NotEmpty(t, tag.ID)
	assert.Len(t, s.UserTags(), 1)
}

func TestAddTagEmptyName(t *testing.T) {
	s, _ := setupTestStore(t)
	setSession(s, "user-1")

	_, err := s.AddTag(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteTagCascades(t *testing.T) {
	s, _ := setupTestStore(t)
	setSession(s, "user-1")

	tag := domain.Tag{ID: "tag-1", Name: "go", OwnerID: "user-1"}
	other := domain.Tag{ID: "tag-2", Name: "web", OwnerID: "user-1"}
	seedTag(s, tag)
	seedTag(s, other)
	seedBookmark(s, domain.Bookmark{ID: "bm-1", Tags: []domain.Tag{tag, other}, OwnerID: "user-1"})
	seedCategory(s, domain.Category{ID: "cat-1", Tags: []domain.Tag{tag}, OwnerID: "user-1"})

	require.NoError(t, s.DeleteTag(context.Background(), "tag-1"))

	tags := s.UserTags()
	require.Len(t, tags, 1)
	assert.Equal(t, "tag-2", tags[0].ID)

	b, err := s.BookmarkByID("bm-1")
	require.NoError(t, err)
	require.Len(t, b.Tags, 1)
	assert.Equal(t, "tag-2", b.Tags[0].ID)

	c, err := s.CategoryByID("cat-1")
	require.NoError(t, err)
	assert.Empty(t, c.Tags)
}

func TestDeleteTagCascadesEvenWhenRemoteFails(t *testing.T) {
	s, backend := setupTestStore(t)
	setSession(s, "user-1")
	tag := domain.Tag{ID: "tag-1", Name: "go", OwnerID: "user-1"}
	seedTag(s, tag)
	seedBookmark(s, domain.Bookmark{ID: "bm-1", Tags: []domain.Tag{tag}, OwnerID: "user-1"})
	backend.fail["deleteTag"] = remote.ErrServer

	require.NoError(t, s.DeleteTag(context.Background(), "tag-1"))

	assert.Empty(t, s.UserTags())
	b, err := s.BookmarkByID("bm-1")
	require.NoError(t, err)
	assert.Empty(t, b.Tags)
}

func TestDeleteTagNotOwner(t *testing.T) {
	s, backend := setupTestStore(t)
	setSession(s, "user-1")
	seedTag(s, domain.Tag{ID: "tag-1", Name: "go", OwnerID: "user-2"})

	err := s.DeleteTag(context.Background(), "tag-1")
	require.ErrorIs(t, err, ErrNotOwner)
	assert.Zero(t, backend.count("deleteTag"))
}

func TestUserTagsFiltersByOwner(t *testing.T) {
	s, _ := setupTestStore(t)
	setSession(s, "user-1")
	seedTag(s, domain.Tag{ID: "tag-1", Name: "go", OwnerID: "user-1"})
	seedTag(s, domain.Tag{ID: "tag-2", Name: "go", OwnerID: "user-2"})

	tags := s.UserTags()
	require.Len(t, tags, 1)
	assert.Equal(t, "tag-1", tags[0].ID)
}
