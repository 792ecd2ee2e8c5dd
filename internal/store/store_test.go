package store

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// fakeBackend is an in-memory Backend. Every op succeeds unless an error is
// planted for it; calls are recorded so tests can assert what went remote.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error

	seq int

	loginResp  *remote.LoginResponse
	bookmarks  []remote.BookmarkPayload
	categories []remote.CategoryPayload
	tags       []remote.TagPayload
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{fail: map[string]error{}}
}

// step records a call and returns the planted error, if any.
func (f *fakeBackend) step(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
	return f.fail[op]
}

func (f *fakeBackend) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeBackend) nextID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("%s-remote-%d", prefix, f.seq)
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*remote.LoginResponse, error) {
	if err := f.step("login"); err != nil {
		return nil, err
	}
	if f.loginResp != nil {
		return f.loginResp, nil
	}
	return &remote.LoginResponse{
		TokenPair: remote.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		User:      &remote.UserPayload{ID: "user-1", Username: "tester", Email: email},
	}, nil
}

func (f *fakeBackend) Register(ctx context.Context, email, password, nickname string) error {
	return f.step("register")
}

func (f *fakeBackend) DeleteAccount(ctx context.Context, password string) error {
	return f.step("deleteAccount")
}

func (f *fakeBackend) ListBookmarks(ctx context.Context) ([]remote.BookmarkPayload, error) {
	if err := f.step("listBookmarks"); err != nil {
		return nil, err
	}
	return f.bookmarks, nil
}

func (f *fakeBackend) CreateBookmark(ctx context.Context, req remote.BookmarkRequest) (*remote.BookmarkPayload, error) {
	if err := f.step("createBookmark"); err != nil {
		return nil, err
	}
	p := &remote.BookmarkPayload{
		ID:          f.nextID("bm"),
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	}
	if req.CategoryID != nil {
		p.CategoryID = *req.CategoryID
	}
	for _, name := range req.TagNames {
		p.TagNames = append(p.TagNames, domain.TagRef{Name: name})
	}
	return p, nil
}

func (f *fakeBackend) UpdateBookmark(ctx context.Context, bookmarkID string, req remote.BookmarkUpdateRequest) (*remote.BookmarkPayload, error) {
	if err := f.step("updateBookmark"); err != nil {
		return nil, err
	}
	return &remote.BookmarkPayload{ID: bookmarkID}, nil
}

func (f *fakeBackend) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	return f.step("deleteBookmark")
}

func (f *fakeBackend) ToggleFavorite(ctx context.Context, bookmarkID string) error {
	return f.step("toggleFavorite")
}

func (f *fakeBackend) ListCategories(ctx context.Context) ([]remote.CategoryPayload, error) {
	if err := f.step("listCategories"); err != nil {
		return nil, err
	}
	return f.categories, nil
}

func (f *fakeBackend) CreateCategory(ctx context.Context, req remote.CategoryRequest) (*remote.CategoryPayload, error) {
	if err := f.step("createCategory"); err != nil {
		return nil, err
	}
	p := &remote.CategoryPayload{
		ID:       f.nextID("cat"),
		Title:    req.Title,
		IsPublic: req.IsPublic,
	}
	for _, name := range req.TagNames {
		p.TagNames = append(p.TagNames, domain.TagRef{Name: name})
	}
	return p, nil
}

func (f *fakeBackend) UpdateCategory(ctx context.Context, categoryID string, req remote.CategoryUpdateRequest) (*remote.CategoryPayload, error) {
	if err := f.step("updateCategory"); err != nil {
		return nil, err
	}
	return &remote.CategoryPayload{ID: categoryID}, nil
}

func (f *fakeBackend) DeleteCategory(ctx context.Context, categoryID string) error {
	return f.step("deleteCategory")
}

func (f *fakeBackend) ToggleVisibility(ctx context.Context, categoryID string) error {
	return f.step("toggleVisibility")
}

func (f *fakeBackend) ListTags(ctx context.Context) ([]remote.TagPayload, error) {
	if err := f.step("listTags"); err != nil {
		return nil, err
	}
	return f.tags, nil
}

func (f *fakeBackend) CreateTag(ctx context.Context, name string) (*remote.TagPayload, error) {
	if err := f.step("createTag"); err != nil {
		return nil, err
	}
	return &remote.TagPayload{ID: f.nextID("tag"), Name: name}, nil
}

func (f *fakeBackend) DeleteTag(ctx context.Context, tagID string) error {
	return f.step("deleteTag")
}

func setupTestStore(t *testing.T) (*Store, *fakeBackend) {
	t.Helper()

	s, err := New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	backend := newFakeBackend()
	s.SetBackend(backend)
	return s, backend
}

// setSession installs a session user directly, bypassing login.
func setSession(s *Store, userID string) {
	s.mu.Lock()
	s.state.CurrentUser = &domain.User{ID: userID, Username: "tester", Email: "tester@test.com"}
	s.mu.Unlock()
}

// seedBookmark plants a bookmark directly into state.
func seedBookmark(s *Store, b domain.Bookmark) {
	s.mu.Lock()
	s.state.Bookmarks = append(s.state.Bookmarks, b)
	s.mu.Unlock()
}

// seedCategory plants a category directly into state.
func seedCategory(s *Store, c domain.Category) {
	s.mu.Lock()
	s.state.Categories = append(s.state.Categories, c)
	s.mu.Unlock()
}

// seedTag plants a tag directly into state.
func seedTag(s *Store, tag domain.Tag) {
	s.mu.Lock()
	s.state.Tags = append(s.state.Tags, tag)
	s.mu.Unlock()
}
