package store

import (
	"context"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
)

// AddTag creates a tag for the current user. Tag names are unique per owner
// case-insensitively, so adding an existing name returns the existing tag
// unchanged. Tag writes are optimistic.
func (s *Store) AddTag(ctx context.Context, name string) (*domain.Tag, error) {
	return s.FindOrCreateTag(ctx, name)
}

// FindOrCreateTag returns the current user's tag with the given name,
// creating it when absent. The lookup is case-insensitive; the stored
// spelling of an existing tag wins. This is the entry point the import and
// copy flows use so shared tag names dedupe against the user's own set.
func (s *Store) FindOrCreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrInvalidInput.WithMessage("tag name must not be empty")
	}

	if existing, ok := s.tagByName(user.ID, name); ok {
		return &existing, nil
	}

	var t domain.Tag
	payload, err := s.backend.CreateTag(ctx, name)
	if err = tagPolicy.Absorb(s.logger, "add", err); err != nil {
		return nil, err
	}
	if payload != nil {
		t = tagFromPayload(payload, user.ID)
	} else {
		t = domain.Tag{
			ID:      id.MustGenerate(id.PrefixTag),
			Name:    name,
			OwnerID: user.ID,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock; a concurrent call may have won.
	for _, other := range s.state.Tags {
		if other.OwnerID == user.ID && other.NameEquals(name) {
			return &other, nil
		}
	}
	s.state.Tags = append(s.state.Tags, t)
	s.persistLocked()
	return &t, nil
}

// DeleteTag removes an owned tag and cascades the removal through every
// bookmark's and category's tag set. The local cascade proceeds even when
// the remote delete fails.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	current, ok := s.tagByID(tagID)
	if !ok {
		return ErrNotFound
	}
	if current.OwnerID != user.ID {
		return ErrNotOwner
	}

	err = s.backend.DeleteTag(ctx, tagID)
	if err = tagPolicy.Absorb(s.logger, "delete", err); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.state.Tags[:0]
	for _, t := range s.state.Tags {
		if t.ID != tagID {
			kept = append(kept, t)
		}
	}
	s.state.Tags = kept

	for i := range s.state.Bookmarks {
		s.state.Bookmarks[i].Tags = domain.RemoveTag(s.state.Bookmarks[i].Tags, tagID)
	}
	for i := range s.state.Categories {
		s.state.Categories[i].Tags = domain.RemoveTag(s.state.Categories[i].Tags, tagID)
	}
	s.persistLocked()
	s.mu.Unlock()

	return nil
}

// UserTags returns the current user's tags. Empty without a session.
func (s *Store) UserTags() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	var out []domain.Tag
	for _, t := range s.state.Tags {
		if t.OwnerID == s.state.CurrentUser.ID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) tagByID(tagID string) (domain.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.state.Tags {
		if t.ID == tagID {
			return t, true
		}
	}
	return domain.Tag{}, false
}

func (s *Store) tagByName(ownerID, name string) (domain.Tag, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.state.Tags {
		if t.OwnerID == ownerID && t.NameEquals(name) {
			return t, true
		}
	}
	return domain.Tag{}, false
}
