package domain

import "time"

// MaxRecentViews bounds the most-recently-viewed list.
const MaxRecentViews = 10

// RecentView records one entry in the bounded MRU list of viewed bookmarks.
type RecentView struct {
	ID         string    `json:"id"`
	BookmarkID string    `json:"bookmark_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}

// PushRecentView returns the MRU list with the given bookmark at the front.
// Re-viewing a bookmark already in the list moves its entry forward (reusing
// the entry's ID) instead of duplicating it, and the list never grows past
// MaxRecentViews.
func PushRecentView(views []RecentView, id, bookmarkID string, viewedAt time.Time) []RecentView {
	entry := RecentView{ID: id, BookmarkID: bookmarkID, ViewedAt: viewedAt}

	out := make([]RecentView, 0, len(views)+1)
	out = append(out, entry)
	for _, v := range views {
		if v.BookmarkID == bookmarkID {
			out[0].ID = v.ID
			continue
		}
		out = append(out, v)
	}

	if len(out) > MaxRecentViews {
		out = out[:MaxRecentViews]
	}
	return out
}

// DropRecentViews removes every entry referencing the given bookmark.
// Called when a bookmark is deleted.
func DropRecentViews(views []RecentView, bookmarkID string) []RecentView {
	out := views[:0]
	for _, v := range views {
		if v.BookmarkID != bookmarkID {
			out = append(out, v)
		}
	}
	return out
}
