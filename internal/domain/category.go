package domain

import "time"

// Category is a loose, tag-driven grouping overlay rather than a strict
// hierarchy. A category never enumerates its member bookmarks; membership is
// computed from direct references and tag overlap (see Members).
type Category struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Tags      []Tag     `json:"tags"`
	IsPublic  bool      `json:"is_public"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnedBy reports whether the category belongs to the given user.
func (c *Category) OwnedBy(userID string) bool {
	return c.OwnerID == userID
}

// Members computes the bookmarks that belong to the category:
//
//  1. every bookmark whose CategoryID references the category directly, then
//  2. if the category carries tags, every other bookmark sharing at least one
//     tag with it.
//
// Tags match primarily by ID; a case-insensitive name match is the fallback
// for payloads that arrived as bare name strings and never gained a real
// identity. Direct members are excluded from the tag pass, so a bookmark is
// never counted twice. Order is not guaranteed beyond direct-before-tagged.
func (c *Category) Members(bookmarks []Bookmark) []Bookmark {
	var direct, tagged []Bookmark

	for _, b := range bookmarks {
		if b.CategoryID == c.ID {
			direct = append(direct, b)
		}
	}

	if len(c.Tags) > 0 {
		tagIDs := make(map[string]struct{}, len(c.Tags))
		tagNames := make(map[string]struct{}, len(c.Tags))
		for _, t := range c.Tags {
			if t.ID != "" {
				tagIDs[t.ID] = struct{}{}
			}
			if t.Name != "" {
				tagNames[foldName(t.Name)] = struct{}{}
			}
		}

		for _, b := range bookmarks {
			if b.CategoryID == c.ID {
				continue
			}
			if matchesAny(b.Tags, tagIDs, tagNames) {
				tagged = append(tagged, b)
			}
		}
	}

	return append(direct, tagged...)
}

func matchesAny(tags []Tag, ids, names map[string]struct{}) bool {
	for _, t := range tags {
		if t.ID != "" {
			if _, ok := ids[t.ID]; ok {
				return true
			}
		}
		if t.Name != "" {
			if _, ok := names[foldName(t.Name)]; ok {
				return true
			}
		}
	}
	return false
}
