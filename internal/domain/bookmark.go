package domain

import "time"

// Bookmark is a saved link owned by exactly one user. The category link is a
// soft reference, not ownership: a bookmark can also surface in categories it
// was never filed under purely by tag overlap.
type Bookmark struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
	Tags        []Tag     `json:"tags"`
	IsFavorite  bool      `json:"is_favorite"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Integrated marks a bookmark that originated from a cross-user or
	// public search result. Read-mostly; non-owners cannot edit or
	// favorite it.
	Integrated bool `json:"integrated"`
}

// OwnedBy reports whether the bookmark belongs to the given user.
func (b *Bookmark) OwnedBy(userID string) bool {
	return b.OwnerID == userID
}

// HasTagID reports whether the bookmark carries a tag with the given ID.
func (b *Bookmark) HasTagID(tagID string) bool {
	for _, t := range b.Tags {
		if t.ID == tagID {
			return true
		}
	}
	return false
}
