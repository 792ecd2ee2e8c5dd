package store

import (
	"context"
	"time"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// BookmarkInput is the create payload for bookmarks.
type BookmarkInput struct {
	Title       string
	URL         string
	Description string
	CategoryID  string
	Tags        []domain.Tag
}

// BookmarkUpdate is a partial bookmark update. Nil fields are untouched.
type BookmarkUpdate struct {
	Title       *string
	URL         *string
	Description *string
	CategoryID  *string
	Tags        *[]domain.Tag
}

// AddBookmark creates a bookmark for the current user. Bookmarks write
// through strictly: a failed remote create surfaces and nothing is stored.
// The new bookmark is also pushed onto the recent-view list.
func (s *Store) AddBookmark(ctx context.Context, in BookmarkInput) (*domain.Bookmark, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	req := remote.BookmarkRequest{
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		TagNames:    domain.TagNames(in.Tags),
	}
	if in.CategoryID != "" {
		req.CategoryID = &in.CategoryID
	}

	payload, err := s.backend.CreateBookmark(ctx, req)
	if err = bookmarkPolicy.Absorb(s.logger, "add", err); err != nil {
		return nil, err
	}

	b := bookmarkFromPayload(payload, user.ID)
	b.Tags = mergeTagIdentities(b.Tags, in.Tags)
	if b.CategoryID == "" {
		b.CategoryID = in.CategoryID
	}

	s.mu.Lock()
	s.state.Bookmarks = append(s.state.Bookmarks, b)
	s.pushRecentViewLocked(b.ID)
	s.persistLocked()
	s.mu.Unlock()

	return &b, nil
}

// UpdateBookmark applies a partial update to an owned bookmark.
func (s *Store) UpdateBookmark(ctx context.Context, bookmarkID string, up BookmarkUpdate) (*domain.Bookmark, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	current, ok := s.bookmarkByID(bookmarkID)
	if !ok {
		return nil, ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return nil, ErrNotOwner
	}

	req := remote.BookmarkUpdateRequest{
		Title:       up.Title,
		URL:         up.URL,
		Description: up.Description,
		CategoryID:  up.CategoryID,
	}
	if up.Tags != nil {
		names := domain.TagNames(*up.Tags)
		if names == nil {
			names = []string{}
		}
		req.TagNames = &names
	}

	payload, err := s.backend.UpdateBookmark(ctx, bookmarkID, req)
	if err = bookmarkPolicy.Absorb(s.logger, "update", err); err != nil {
		return nil, err
	}

	updatedAt := time.Now()
	if payload != nil {
		if ts := remote.ParseTimestamp(payload.UpdatedAt); !ts.IsZero() {
			updatedAt = ts
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Bookmarks {
		b := &s.state.Bookmarks[i]
		if b.ID != bookmarkID {
			continue
		}
		if up.Title != nil {
			b.Title = *up.Title
		}
		if up.URL != nil {
			b.URL = *up.URL
		}
		if up.Description != nil {
			b.Description = *up.Description
		}
		if up.CategoryID != nil {
			b.CategoryID = *up.CategoryID
		}
		if up.Tags != nil {
			b.Tags = *up.Tags
		}
		b.UpdatedAt = updatedAt
		out := *b
		s.persistLocked()
		return &out, nil
	}

	// Deleted between the remote call and the merge; treat as gone.
	return nil, ErrNotFound
}

// DeleteBookmark removes an owned bookmark. Deletion favors availability:
// the local removal proceeds even when the remote delete fails, and the
// failure is only logged. Recent views of the bookmark go with it.
func (s *Store) DeleteBookmark(ctx context.Context, bookmarkID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	current, ok := s.bookmarkByID(bookmarkID)
	if !ok {
		return ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return ErrNotOwner
	}

	if err := s.backend.DeleteBookmark(ctx, bookmarkID); err != nil {
		s.logger.Warn("remote bookmark delete failed, removing locally",
			"bookmarkID", bookmarkID, "error", err)
	}

	s.mu.Lock()
	kept := s.state.Bookmarks[:0]
	for _, b := range s.state.Bookmarks {
		if b.ID != bookmarkID {
			kept = append(kept, b)
		}
	}
	s.state.Bookmarks = kept
	s.state.RecentViews = domain.DropRecentViews(s.state.RecentViews, bookmarkID)
	s.persistLocked()
	s.mu.Unlock()

	return nil
}

// ToggleFavorite flips the favorite flag of an owned bookmark.
func (s *Store) ToggleFavorite(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	current, ok := s.bookmarkByID(bookmarkID)
	if !ok {
		return nil, ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return nil, ErrNotOwner
	}

	err = s.backend.ToggleFavorite(ctx, bookmarkID)
	if err = bookmarkPolicy.Absorb(s.logger, "toggleFavorite", err); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Bookmarks {
		b := &s.state.Bookmarks[i]
		if b.ID != bookmarkID {
			continue
		}
		b.IsFavorite = !b.IsFavorite
		b.UpdatedAt = time.Now()
		out := *b
		s.persistLocked()
		return &out, nil
	}
	return nil, ErrNotFound
}

// CopyBookmark clones a bookmark in the local state under the current user.
// The copy gets fresh identity and reset favorite/timestamps; only content
// fields carry over.
func (s *Store) CopyBookmark(ctx context.Context, bookmarkID string) (*domain.Bookmark, error) {
	src, ok := s.bookmarkByID(bookmarkID)
	if !ok {
		return nil, ErrNotFound
	}
	return s.CloneBookmark(ctx, src, "")
}

// CloneBookmark creates a copy of src owned by the current user, optionally
// filed under a category. The source does not have to exist locally; the
// share import engine clones bookmarks straight off a resolved payload.
func (s *Store) CloneBookmark(ctx context.Context, src domain.Bookmark, categoryID string) (*domain.Bookmark, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	req := remote.BookmarkRequest{
		Title:       src.Title,
		URL:         src.URL,
		Description: src.Description,
		TagNames:    domain.TagNames(src.Tags),
	}
	if categoryID != "" {
		req.CategoryID = &categoryID
	}

	payload, err := s.backend.CreateBookmark(ctx, req)
	if err = bookmarkPolicy.Absorb(s.logger, "clone", err); err != nil {
		return nil, err
	}

	b := bookmarkFromPayload(payload, user.ID)
	b.Tags = mergeTagIdentities(b.Tags, src.Tags)
	if b.CategoryID == "" {
		b.CategoryID = categoryID
	}
	b.IsFavorite = false
	b.Integrated = false

	s.mu.Lock()
	s.state.Bookmarks = append(s.state.Bookmarks, b)
	s.persistLocked()
	s.mu.Unlock()

	return &b, nil
}

// UserBookmarks returns the current user's bookmarks. Empty without a session.
func (s *Store) UserBookmarks() []domain.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	var out []domain.Bookmark
	for _, b := range s.state.Bookmarks {
		if b.OwnedBy(s.state.CurrentUser.ID) {
			out = append(out, b)
		}
	}
	return out
}

// BookmarkByID returns a bookmark regardless of owner.
func (s *Store) BookmarkByID(bookmarkID string) (*domain.Bookmark, error) {
	b, ok := s.bookmarkByID(bookmarkID)
	if !ok {
		return nil, ErrNotFound
	}
	return &b, nil
}

func (s *Store) bookmarkByID(bookmarkID string) (domain.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.state.Bookmarks {
		if b.ID == bookmarkID {
			return b, true
		}
	}
	return domain.Bookmark{}, false
}
