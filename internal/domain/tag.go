package domain

import (
	"encoding/json"
	"strings"
)

// Tag is a user-owned label attached to bookmarks and categories.
// Tag names are unique per owner, compared case-insensitively.
type Tag struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// NameEquals reports whether the tag's name matches, ignoring case.
func (t Tag) NameEquals(name string) bool {
	return strings.EqualFold(t.Name, name)
}

// foldName is the canonical form used for case-insensitive name comparison.
func foldName(name string) string {
	return strings.ToLower(name)
}

// TagRef is a tag as it appears on the wire. The backend is inconsistent
// about tag payloads: depending on the endpoint a tag arrives either as a
// bare name string or as an {id,name} object. TagRef absorbs both shapes at
// the API boundary so the ambiguity never leaks inland.
type TagRef struct {
	ID   string
	Name string
}

// UnmarshalJSON accepts either "name" or {"id":..,"name":..}.
func (r *TagRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*r = TagRef{Name: name}
		return nil
	}

	var full struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &full); err != nil {
		return err
	}
	*r = TagRef{ID: full.ID, Name: full.Name}
	return nil
}

// Resolve converts the wire ref into a Tag owned by the given user.
// A ref carrying only a name resolves with an empty ID; callers that need a
// real identity must go through the store's find-or-create path.
func (r TagRef) Resolve(ownerID string) Tag {
	return Tag{ID: r.ID, Name: r.Name, OwnerID: ownerID}
}

// ResolveTagRefs normalizes a wire tag list into owned Tags.
func ResolveTagRefs(refs []TagRef, ownerID string) []Tag {
	if len(refs) == 0 {
		return nil
	}
	tags := make([]Tag, 0, len(refs))
	for _, r := range refs {
		tags = append(tags, r.Resolve(ownerID))
	}
	return tags
}

// TagNames extracts the name list from a tag set, the shape the backend
// expects on every create/update request.
func TagNames(tags []Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// RemoveTag returns the tag set without the tag with the given ID.
// Used when a tag deletion cascades through bookmarks and categories.
func RemoveTag(tags []Tag, tagID string) []Tag {
	out := tags[:0]
	for _, t := range tags {
		if t.ID != tagID {
			out = append(out, t)
		}
	}
	return out
}
