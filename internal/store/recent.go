package store

import (
	"time"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
)

// TouchRecentView records that the current user viewed a bookmark, keeping
// the MRU invariant: most-recent-first, unique per bookmark, capped. A purely
// local operation; the backend never sees view history.
func (s *Store) TouchRecentView(bookmarkID string) error {
	if _, err := s.requireUser(); err != nil {
		return err
	}
	if _, ok := s.bookmarkByID(bookmarkID); !ok {
		return ErrNotFound
	}

	s.mu.Lock()
	s.pushRecentViewLocked(bookmarkID)
	s.persistLocked()
	s.mu.Unlock()

	return nil
}

// UserRecentViews returns the current user's MRU list, most recent first.
// Views are keyed by bookmark, so the list is scoped to bookmarks the
// session user owns; another account on the same client sees none of it.
// Empty without a session.
func (s *Store) UserRecentViews() []domain.RecentView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	owned := make(map[string]struct{}, len(s.state.Bookmarks))
	for _, b := range s.state.Bookmarks {
		if b.OwnedBy(s.state.CurrentUser.ID) {
			owned[b.ID] = struct{}{}
		}
	}
	var out []domain.RecentView
	for _, v := range s.state.RecentViews {
		if _, ok := owned[v.BookmarkID]; ok {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) pushRecentViewLocked(bookmarkID string) {
	s.state.RecentViews = domain.PushRecentView(
		s.state.RecentViews,
		id.MustGenerate(id.PrefixRecentView),
		bookmarkID,
		time.Now(),
	)
}
