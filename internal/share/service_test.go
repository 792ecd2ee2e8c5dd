package share_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
	"github.com/decollzoq/bookmark-service/internal/share"
	"github.com/decollzoq/bookmark-service/internal/store"
)

// fakeBackend implements store.Backend, echoing requests back as payloads.
// Creates for bookmarks titled failTitle fail, to exercise partial imports.
type fakeBackend struct {
	mu        sync.Mutex
	seq       int
	failTitle string
}

func (f *fakeBackend) nextID(prefix string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return fmt.Sprintf("%s-remote-%d", prefix, f.seq)
}

func (f *fakeBackend) Login(ctx context.Context, email, password string) (*remote.LoginResponse, error) {
	return &remote.LoginResponse{
		TokenPair: remote.TokenPair{AccessToken: "acc", RefreshToken: "ref"},
		User:      &remote.UserPayload{ID: "user-1", Username: "tester", Email: email},
	}, nil
}

func (f *fakeBackend) Register(ctx context.Context, email, password, nickname string) error {
	return nil
}

func (f *fakeBackend) DeleteAccount(ctx context.Context, password string) error { return nil }

func (f *fakeBackend) ListBookmarks(ctx context.Context) ([]remote.BookmarkPayload, error) {
	return nil, nil
}

func (f *fakeBackend) CreateBookmark(ctx context.Context, req remote.BookmarkRequest) (*remote.BookmarkPayload, error) {
	if f.failTitle != "" && req.Title == f.failTitle {
		return nil, remote.ErrServer
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
	return &remote.BookmarkPayload{ID: bookmarkID}, nil
}

func (f *fakeBackend) DeleteBookmark(ctx context.Context, bookmarkID string) error { return nil }

func (f *fakeBackend) ToggleFavorite(ctx context.Context, bookmarkID string) error { return nil }

func (f *fakeBackend) ListCategories(ctx context.Context) ([]remote.CategoryPayload, error) {
	return nil, nil
}

func (f *fakeBackend) CreateCategory(ctx context.Context, req remote.CategoryRequest) (*remote.CategoryPayload, error) {
	p := &remote.CategoryPayload{ID: f.nextID("cat"), Title: req.Title, IsPublic: req.IsPublic}
	for _, name := range req.TagNames {
		p.TagNames = append(p.TagNames, domain.TagRef{Name: name})
	}
	return p, nil
}

func (f *fakeBackend) UpdateCategory(ctx context.Context, categoryID string, req remote.CategoryUpdateRequest) (*remote.CategoryPayload, error) {
	return &remote.CategoryPayload{ID: categoryID}, nil
}

func (f *fakeBackend) DeleteCategory(ctx context.Context, categoryID string) error { return nil }

func (f *fakeBackend) ToggleVisibility(ctx context.Context, categoryID string) error { return nil }

func (f *fakeBackend) ListTags(ctx context.Context) ([]remote.TagPayload, error) { return nil, nil }

func (f *fakeBackend) CreateTag(ctx context.Context, name string) (*remote.TagPayload, error) {
	return &remote.TagPayload{ID: f.nextID("tag"), Name: name}, nil
}

func (f *fakeBackend) DeleteTag(ctx context.Context, tagID string) error { return nil }

// fakeGateway implements share.Gateway.
type fakeGateway struct {
	mu     sync.Mutex
	calls  []string
	shared map[string]*remote.SharedCategoryPayload

	token       string
	generateErr error
}

func (f *fakeGateway) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op)
}

func (f *fakeGateway) count(op string) int {
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

func (f *fakeGateway) GetSharedCategory(ctx context.Context, token string) (*remote.SharedCategoryPayload, error) {
	f.record("getSharedCategory")
	if p, ok := f.shared[token]; ok {
		return p, nil
	}
	return nil, remote.ErrNotFound
}

func (f *fakeGateway) GenerateShareToken(ctx context.Context, categoryID string) (string, error) {
	f.record("generateShareToken")
	if f.generateErr != nil {
		return "", f.generateErr
	}
	if f.token != "" {
		return f.token, nil
	}
	return "srv-token", nil
}

func (f *fakeGateway) DeleteShareToken(ctx context.Context, categoryID string) error {
	f.record("deleteShareToken")
	return nil
}

func setupService(t *testing.T) (*share.Service, *store.Store, *fakeGateway) {
	t.Helper()

	st, err := store.New(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	st.SetBackend(&fakeBackend{})

	gateway := &fakeGateway{shared: map[string]*remote.SharedCategoryPayload{}}
	return share.New(st, gateway, slog.New(slog.NewTextHandler(io.Discard, nil))), st, gateway
}

// login establishes a session the cheap way, through the fake backend.
func login(t *testing.T, st *store.Store) *domain.User {
	t.Helper()
	user, err := st.Login(context.Background(), "tester@test.com", "hunter2")
	require.NoError(t, err)
	return user
}

func TestResolveRemoteFirst(t *testing.T) {
	svc, _, gateway := setupService(t)
	gateway.shared["tok-1"] = &remote.SharedCategoryPayload{
		ID:       "cat-shared",
		Title:    "News from elsewhere",
		TagNames: []string{"news"},
		Bookmarks: []remote.BookmarkPayload{
			{ID: "bm-1", Title: "headline", URL: "https://news.test", TagNames: []domain.TagRef{{Name: "news"}}},
		},
	}

	res := svc.Resolve(context.Background(), "tok-1")
	require.Equal(t, share.StateResolvedCategory, res.State)
	assert.Equal(t, "News from elsewhere", res.Category.Title)
	require.Len(t, res.Bookmarks, 1)
	assert.True(t, res.Bookmarks[0].Integrated, "remote content is read-only until imported")
	assert.Equal(t, []string{"news"}, res.TagNames)
}

func TestResolveUnknownTokenIsNotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	res := svc.Resolve(context.Background(), "tok-nobody-knows")
	assert.Equal(t, share.StateNotFound, res.State)
}

func TestResolveLocalBookmarkLink(t *testing.T) {
	svc, st, _ := setupService(t)
	login(t, st)

	b, err := st.AddBookmark(context.Background(), store.BookmarkInput{Title: "mine", URL: "https://mine.test"})
	require.NoError(t, err)

	link, err := st.CreateShareLink(store.ShareLinkInput{BookmarkID: b.ID})
	require.NoError(t, err)

	res := svc.Resolve(context.Background(), link.Token)
	require.Equal(t, share.StateResolvedBookmark, res.State)
	assert.Equal(t, b.ID, res.Bookmark.ID)
}

func TestResolveDanglingBookmarkLinkIsError(t *testing.T) {
	svc, st, _ := setupService(t)
	login(t, st)

	b, err := st.AddBookmark(context.Background(), store.BookmarkInput{Title: "doomed", URL: "https://gone.test"})
	require.NoError(t, err)
	link, err := st.CreateShareLink(store.ShareLinkInput{BookmarkID: b.ID})
	require.NoError(t, err)
	require.NoError(t, st.DeleteBookmark(context.Background(), b.ID))

	res := svc.Resolve(context.Background(), link.Token)
	require.Equal(t, share.StateError, res.State)
	assert.NotEmpty(t, res.Reason)
}

func TestResolvePrivateCategoryIsErrorForStrangers(t *testing.T) {
	svc, st, _ := setupService(t)
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Secret"})
	require.NoError(t, err)
	link, err := st.CreateShareLink(store.ShareLinkInput{CategoryID: c.ID})
	require.NoError(t, err)

	// The owner can still view it through the link.
	res := svc.Resolve(context.Background(), link.Token)
	assert.Equal(t, share.StateResolvedCategory, res.State)

	// A logged-out viewer cannot.
	require.NoError(t, st.Logout())
	res = svc.Resolve(context.Background(), link.Token)
	require.Equal(t, share.StateError, res.State)
	assert.Contains(t, res.Reason, "private")
}

func TestResolveFallsBackToPersistedSnapshot(t *testing.T) {
	dir := t.TempDir()

	st, err := store.New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	st.SetBackend(&fakeBackend{})
	login(t, st)
	b, err := st.AddBookmark(context.Background(), store.BookmarkInput{Title: "kept", URL: "https://kept.test"})
	require.NoError(t, err)
	link, err := st.CreateShareLink(store.ShareLinkInput{BookmarkID: b.ID})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	// A fresh process that has not hydrated yet: memory is empty, the
	// snapshot is not.
	st2, err := store.New(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st2.Close() })
	st2.SetBackend(&fakeBackend{})

	svc := share.New(st2, &fakeGateway{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	res := svc.Resolve(context.Background(), link.Token)

	// The link itself is found in the snapshot; resolution then fails on
	// the bookmark because memory holds no entities yet. What matters is
	// the token is recognized rather than NotFound.
	assert.NotEqual(t, share.StateNotFound, res.State)
}

func TestCreateCategoryShareDeclinedPrivate(t *testing.T) {
	svc, st, gateway := setupService(t)
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Secret"})
	require.NoError(t, err)

	decline := func(domain.Category) bool { return false }
	_, err = svc.CreateCategoryShare(context.Background(), c.ID, decline)
	require.ErrorIs(t, err, share.ErrShareDeclined)

	// Declining aborts before anything goes remote or local.
	assert.Zero(t, gateway.count("generateShareToken"))
	assert.Empty(t, st.ShareLinks())

	got, err := st.CategoryByID(c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic, "declined category stays private")
}

func TestCreateCategoryShareConfirmedStaysPrivate(t *testing.T) {
	svc, st, gateway := setupService(t)
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Secret"})
	require.NoError(t, err)

	var asked bool
	confirm := func(cat domain.Category) bool {
		asked = true
		assert.Equal(t, c.ID, cat.ID)
		return true
	}

	link, err := svc.CreateCategoryShare(context.Background(), c.ID, confirm)
	require.NoError(t, err)
	assert.True(t, asked)
	assert.Equal(t, 1, gateway.count("generateShareToken"))
	assert.Equal(t, "srv-token", link.Token, "backend-issued token is recorded")

	got, err := st.CategoryByID(c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPublic, "sharing exposes the link, not the category itself")

	// The owner still resolves their own private category through the link.
	res := svc.Resolve(context.Background(), link.Token)
	assert.Equal(t, share.StateResolvedCategory, res.State)
}

func TestCreateCategorySharePublicSkipsGate(t *testing.T) {
	svc, st, _ := setupService(t)
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Open", IsPublic: true})
	require.NoError(t, err)

	link, err := svc.CreateCategoryShare(context.Background(), c.ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token)
}

func TestCreateCategoryShareLocalTokenWhenRemoteFails(t *testing.T) {
	svc, st, gateway := setupService(t)
	gateway.generateErr = remote.ErrServer
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Open", IsPublic: true})
	require.NoError(t, err)

	link, err := svc.CreateCategoryShare(context.Background(), c.ID, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, link.Token, "a local token is minted when the backend is down")
}

func TestImportCategory(t *testing.T) {
	svc, st, gateway := setupService(t)
	login(t, st)

	// The user already owns a "news" tag spelled differently.
	existing, err := st.FindOrCreateTag(context.Background(), "News")
	require.NoError(t, err)

	gateway.shared["tok-1"] = &remote.SharedCategoryPayload{
		ID:       "cat-shared",
		Title:    "World news",
		TagNames: []string{"news", "politics", "NEWS"},
		Bookmarks: []remote.BookmarkPayload{
			{ID: "bm-a", Title: "first", URL: "https://a.test", TagNames: []domain.TagRef{{Name: "news"}}},
			{ID: "bm-b", Title: "second", URL: "https://b.test", TagNames: []domain.TagRef{{Name: "politics"}}},
		},
	}

	res := svc.Resolve(context.Background(), "tok-1")
	require.Equal(t, share.StateResolvedCategory, res.State)

	report, err := svc.ImportCategory(context.Background(), res)
	require.NoError(t, err)
	require.NotNil(t, report.Category)
	assert.Equal(t, 2, report.Created)
	assert.Empty(t, report.Failed)

	assert.False(t, report.Category.IsPublic, "imports are always private")
	require.Len(t, report.Category.Tags, 2, "shared tag names dedupe against the user's set")
	names := map[string]bool{}
	ids := map[string]bool{}
	for _, tag := range report.Category.Tags {
		names[tag.Name] = true
		ids[tag.ID] = true
	}
	assert.True(t, ids[existing.ID], "the pre-existing tag is reused, not duplicated")

	members, err := st.CategoryBookmarks(report.Category.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2, "cloned bookmarks are filed under the new category")

	// Member clones resolve their tags through the same find-or-create
	// path, so every tag they carry is a registered row of the user's set.
	registered := map[string]bool{}
	for _, tag := range st.UserTags() {
		registered[tag.ID] = true
	}
	for _, m := range members {
		for _, tag := range m.Tags {
			assert.True(t, registered[tag.ID], "clone tag %q references a real tag row", tag.Name)
		}
	}
}

func TestImportCategoryPartialFailure(t *testing.T) {
	svc, st, gateway := setupService(t)
	login(t, st)
	st.SetBackend(&fakeBackend{failTitle: "bad"})

	gateway.shared["tok-1"] = &remote.SharedCategoryPayload{
		ID:    "cat-shared",
		Title: "Mixed bag",
		Bookmarks: []remote.BookmarkPayload{
			{ID: "bm-a", Title: "good", URL: "https://a.test"},
			{ID: "bm-b", Title: "bad", URL: "https://b.test"},
		},
	}

	res := svc.Resolve(context.Background(), "tok-1")
	report, err := svc.ImportCategory(context.Background(), res)
	require.NoError(t, err, "partial clone failures never abort the import")
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "bad", report.Failed[0].Title)
	assert.ErrorIs(t, report.Failed[0].Err, remote.ErrServer)
}

func TestImportBookmark(t *testing.T) {
	svc, st, _ := setupService(t)
	user := login(t, st)

	res := share.Resolution{
		State: share.StateResolvedBookmark,
		Bookmark: &domain.Bookmark{
			ID:         "bm-foreign",
			Title:      "shared",
			URL:        "https://shared.test",
			Tags:       []domain.Tag{{Name: "go"}},
			IsFavorite: true,
			OwnerID:    "user-2",
			Integrated: true,
		},
	}

	clone, err := svc.ImportBookmark(context.Background(), res)
	require.NoError(t, err)
	assert.NotEqual(t, "bm-foreign", clone.ID)
	assert.Equal(t, user.ID, clone.OwnerID)
	assert.False(t, clone.IsFavorite)
	assert.False(t, clone.Integrated)
}

func TestImportRejectsWrongState(t *testing.T) {
	svc, st, _ := setupService(t)
	login(t, st)

	_, err := svc.ImportCategory(context.Background(), share.Resolution{State: share.StateNotFound})
	require.ErrorIs(t, err, share.ErrNotResolved)

	_, err = svc.ImportBookmark(context.Background(), share.Resolution{State: share.StateResolvedCategory})
	require.ErrorIs(t, err, share.ErrNotResolved)
}

func TestRevokeCategoryShare(t *testing.T) {
	svc, st, gateway := setupService(t)
	login(t, st)

	c, err := st.AddCategory(context.Background(), store.CategoryInput{Title: "Open", IsPublic: true})
	require.NoError(t, err)
	link, err := svc.CreateCategoryShare(context.Background(), c.ID, nil)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeCategoryShare(context.Background(), c.ID, link.Token))
	assert.Equal(t, 1, gateway.count("deleteShareToken"))
	assert.Empty(t, st.ShareLinks())
}
