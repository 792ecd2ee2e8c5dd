package remote

import (
	"time"

	"github.com/decollzoq/bookmark-service/internal/domain"
)

// TokenPair is the credential pair issued by login and reissue.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserPayload is the optional user object some auth responses carry.
type UserPayload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// LoginResponse is the full login response.
type LoginResponse struct {
	TokenPair
	User *UserPayload `json:"user"`
}

// BookmarkPayload is a bookmark as the backend returns it. Tag relations are
// inconsistently keyed ("tags" or "tagNames") and inconsistently shaped;
// both fields are declared and WireTags merges them.
type BookmarkPayload struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	URL         string          `json:"url"`
	Description string          `json:"description"`
	CategoryID  string          `json:"categoryId"`
	Tags        []domain.TagRef `json:"tags"`
	TagNames    []domain.TagRef `json:"tagNames"`
	IsFavorite  bool            `json:"isFavorite"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// WireTags returns whichever tag field the backend populated.
func (p *BookmarkPayload) WireTags() []domain.TagRef {
	if len(p.Tags) > 0 {
		return p.Tags
	}
	return p.TagNames
}

// CategoryPayload is a category as the backend returns it.
type CategoryPayload struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	IsPublic  bool            `json:"isPublic"`
	Tags      []domain.TagRef `json:"tags"`
	TagNames  []domain.TagRef `json:"tagNames"`
	CreatedAt string          `json:"createdAt"`
	UpdatedAt string          `json:"updatedAt"`
}

// WireTags returns whichever tag field the backend populated.
func (p *CategoryPayload) WireTags() []domain.TagRef {
	if len(p.Tags) > 0 {
		return p.Tags
	}
	return p.TagNames
}

// SharedCategoryPayload is the resolved content of a category share token,
// with member bookmarks already materialized server-side.
type SharedCategoryPayload struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	TagNames  []string          `json:"tagNames"`
	Bookmarks []BookmarkPayload `json:"bookmarks"`
}

// TagPayload is a tag row from the tag endpoints.
type TagPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookmarkRequest is the create payload for bookmarks. CategoryID is a
// pointer so "no category" is sent as an explicit null.
type BookmarkRequest struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	CategoryID  *string  `json:"categoryId"`
	TagNames    []string `json:"tagNames"`
}

// BookmarkUpdateRequest is the partial update payload for bookmarks.
// Nil fields are omitted and left untouched server-side.
type BookmarkUpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Description *string   `json:"description,omitempty"`
	CategoryID  *string   `json:"categoryId,omitempty"`
	TagNames    *[]string `json:"tagNames,omitempty"`
}

// CategoryRequest is the create payload for categories.
type CategoryRequest struct {
	Title    string   `json:"title"`
	IsPublic bool     `json:"isPublic"`
	TagNames []string `json:"tagNames"`
}

// CategoryUpdateRequest is the partial update payload for categories.
type CategoryUpdateRequest struct {
	Title    *string   `json:"title,omitempty"`
	IsPublic *bool     `json:"isPublic,omitempty"`
	TagNames *[]string `json:"tagNames,omitempty"`
}

// Timestamp formats the backend has been observed to emit. The Spring
// backend serializes LocalDateTime without a zone designator.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses a backend timestamp leniently. An empty or
// unparseable value yields the zero time; callers substitute their own
// clock where a real value is required.
func ParseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
