package domain

import "time"

// ShareTarget identifies what kind of content a share link points at.
type ShareTarget int

const (
	// ShareTargetNone means the link references nothing; such a link is invalid.
	ShareTargetNone ShareTarget = iota
	// ShareTargetBookmark means the link references a single bookmark.
	ShareTargetBookmark
	// ShareTargetCategory means the link references a category.
	ShareTargetCategory
)

// ShareLink is a bearer capability: anyone holding the token may read the
// referenced content, and, if authenticated, import a copy of it. Exactly one
// of BookmarkID and CategoryID is set.
type ShareLink struct {
	ID         string    `json:"id"`
	Token      string    `json:"token"`
	BookmarkID string    `json:"bookmark_id,omitempty"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Target reports which reference the link carries. A link with both or
// neither reference set reports ShareTargetNone.
func (l *ShareLink) Target() ShareTarget {
	switch {
	case l.BookmarkID != "" && l.CategoryID == "":
		return ShareTargetBookmark
	case l.CategoryID != "" && l.BookmarkID == "":
		return ShareTargetCategory
	default:
		return ShareTargetNone
	}
}
