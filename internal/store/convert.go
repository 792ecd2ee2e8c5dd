package store

import (
	"time"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// Payload-to-domain converters. All tag-shape normalization happens here, at
// the boundary; everything past this file sees []domain.Tag.

func bookmarkFromPayload(p *remote.BookmarkPayload, ownerID string) domain.Bookmark {
	b := domain.Bookmark{
		ID:          p.ID,
		Title:       p.Title,
		URL:         p.URL,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		Tags:        domain.ResolveTagRefs(p.WireTags(), ownerID),
		IsFavorite:  p.IsFavorite,
		OwnerID:     ownerID,
		CreatedAt:   remote.ParseTimestamp(p.CreatedAt),
		UpdatedAt:   remote.ParseTimestamp(p.UpdatedAt),
	}
	if b.ID == "" {
		b.ID = id.MustGenerate(id.PrefixBookmark)
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	return b
}

func categoryFromPayload(p *remote.CategoryPayload, ownerID string) domain.Category {
	c := domain.Category{
		ID:        p.ID,
		Title:     p.Title,
		Tags:      domain.ResolveTagRefs(p.WireTags(), ownerID),
		IsPublic:  p.IsPublic,
		OwnerID:   ownerID,
		CreatedAt: remote.ParseTimestamp(p.CreatedAt),
		UpdatedAt: remote.ParseTimestamp(p.UpdatedAt),
	}
	if c.ID == "" {
		c.ID = id.MustGenerate(id.PrefixCategory)
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	return c
}

// mergeTagIdentities restores tag identities on a payload echo. Create and
// update responses often echo tags back as bare names, which resolve with
// empty IDs; matching those by name against the tags the caller sent in
// recovers the real identities so the entity keeps referencing the user's
// deduplicated tag rows.
func mergeTagIdentities(echo, known []domain.Tag) []domain.Tag {
	if len(echo) == 0 {
		return known
	}
	for i := range echo {
		if echo[i].ID != "" {
			continue
		}
		for _, k := range known {
			if k.NameEquals(echo[i].Name) {
				echo[i].ID = k.ID
				break
			}
		}
	}
	return echo
}

func tagFromPayload(p *remote.TagPayload, ownerID string) domain.Tag {
	t := domain.Tag{ID: p.ID, Name: p.Name, OwnerID: ownerID}
	if t.ID == "" {
		t.ID = id.MustGenerate(id.PrefixTag)
	}
	return t
}
