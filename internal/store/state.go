package store

import (
	"fmt"

	"github.com/decollzoq/bookmark-service/internal/domain"
)

// snapshotKey is the fixed Badger key the whole state is persisted under.
// The name is load-bearing: snapshots written by earlier client versions
// restore under the same key.
const snapshotKey = "bookmark-storage"

// State is everything the client remembers between runs. One JSON blob,
// written after every mutation, restored wholesale by Hydrate.
type State struct {
	Bookmarks   []domain.Bookmark   `json:"bookmarks"`
	Categories  []domain.Category   `json:"categories"`
	Tags        []domain.Tag        `json:"tags"`
	ShareLinks  []domain.ShareLink  `json:"shareLinks"`
	RecentViews []domain.RecentView `json:"recentViews"`
	CurrentUser *domain.User        `json:"currentUser"`
}

// persistLocked writes the current state snapshot. Callers must hold the
// write lock. A failed write is logged, never fatal: the in-memory state is
// still authoritative for this run.
func (s *Store) persistLocked() {
	if err := s.set([]byte(snapshotKey), s.state); err != nil {
		s.logger.Error("failed to persist state snapshot", "error", err)
	}
}

// PersistedState reads the snapshot straight from disk, bypassing memory.
// Used by share resolution as a fallback when the in-memory link collection
// has not been populated yet. A missing snapshot yields an empty state.
func (s *Store) PersistedState() (State, error) {
	var st State
	if err := s.get([]byte(snapshotKey), &st); err != nil {
		if isNotFound(err) {
			return State{}, nil
		}
		return State{}, fmt.Errorf("read state snapshot: %w", err)
	}
	return st, nil
}
