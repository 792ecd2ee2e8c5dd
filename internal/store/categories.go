package store

import (
	"context"
	"time"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// CategoryInput is the create payload for categories.
type CategoryInput struct {
	Title    string
	Tags     []domain.Tag
	IsPublic bool
}

// CategoryUpdate is a partial category update. Nil fields are untouched.
type CategoryUpdate struct {
	Title    *string
	Tags     *[]domain.Tag
	IsPublic *bool
}

// AddCategory creates a category for the current user. Categories write
// optimistically: when the remote create fails the category is stored
// anyway under a locally scoped identity and reconciles on the next bulk
// load.
func (s *Store) AddCategory(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	req := remote.CategoryRequest{
		Title:    in.Title,
		IsPublic: in.IsPublic,
		TagNames: domain.TagNames(in.Tags),
	}

	var c domain.Category
	payload, err := s.backend.CreateCategory(ctx, req)
	if err = categoryPolicy.Absorb(s.logger, "add", err); err != nil {
		return nil, err
	}
	if payload != nil {
		c = categoryFromPayload(payload, user.ID)
		c.Tags = mergeTagIdentities(c.Tags, in.Tags)
	} else {
		now := time.Now()
		c = domain.Category{
			ID:        id.MustGenerate(id.PrefixCategory),
			Title:     in.Title,
			Tags:      in.Tags,
			IsPublic:  in.IsPublic,
			OwnerID:   user.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	s.mu.Lock()
	s.state.Categories = append(s.state.Categories, c)
	s.persistLocked()
	s.mu.Unlock()

	return &c, nil
}

// UpdateCategory applies a partial update to an owned category. A failed
// remote update degrades to a local merge.
func (s *Store) UpdateCategory(ctx context.Context, categoryID string, up CategoryUpdate) (*domain.Category, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	current, ok := s.categoryByID(categoryID)
	if !ok {
		return nil, ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return nil, ErrNotOwner
	}

	req := remote.CategoryUpdateRequest{
		Title:    up.Title,
		IsPublic: up.IsPublic,
	}
	if up.Tags != nil {
		names := domain.TagNames(*up.Tags)
		if names == nil {
			names = []string{}
		}
		req.TagNames = &names
	}

	_, err = s.backend.UpdateCategory(ctx, categoryID, req)
	if err = categoryPolicy.Absorb(s.logger, "update", err); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Categories {
		c := &s.state.Categories[i]
		if c.ID != categoryID {
			continue
		}
		if up.Title != nil {
			c.Title = *up.Title
		}
		if up.Tags != nil {
			c.Tags = *up.Tags
		}
		if up.IsPublic != nil {
			c.IsPublic = *up.IsPublic
		}
		c.UpdatedAt = time.Now()
		out := *c
		s.persistLocked()
		return &out, nil
	}
	return nil, ErrNotFound
}

// DeleteCategory removes an owned category. The local removal proceeds even
// when the remote delete fails. Bookmarks filed under the category keep
// their dangling reference; it is harmless and reconciles on bulk load.
func (s *Store) DeleteCategory(ctx context.Context, categoryID string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	current, ok := s.categoryByID(categoryID)
	if !ok {
		return ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return ErrNotOwner
	}

	err = s.backend.DeleteCategory(ctx, categoryID)
	if err = categoryPolicy.Absorb(s.logger, "delete", err); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.state.Categories[:0]
	for _, c := range s.state.Categories {
		if c.ID != categoryID {
			kept = append(kept, c)
		}
	}
	s.state.Categories = kept
	s.persistLocked()
	s.mu.Unlock()

	return nil
}

// ToggleCategoryVisibility flips an owned category between public and
// private, writing through the dedicated visibility endpoint.
func (s *Store) ToggleCategoryVisibility(ctx context.Context, categoryID string) (*domain.Category, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	current, ok := s.categoryByID(categoryID)
	if !ok {
		return nil, ErrNotFound
	}
	if !current.OwnedBy(user.ID) {
		return nil, ErrNotOwner
	}

	err = s.backend.ToggleVisibility(ctx, categoryID)
	if err = categoryPolicy.Absorb(s.logger, "toggleVisibility", err); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Categories {
		c := &s.state.Categories[i]
		if c.ID != categoryID {
			continue
		}
		c.IsPublic = !c.IsPublic
		c.UpdatedAt = time.Now()
		out := *c
		s.persistLocked()
		return &out, nil
	}
	return nil, ErrNotFound
}

// CopyCategory duplicates an owned category as a new private category. Tag
// references carry over, so tag-matched membership follows the copy on its
// own; direct members stay filed under the original.
func (s *Store) CopyCategory(ctx context.Context, categoryID string, withNewTitle bool) (*domain.Category, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}
	src, ok := s.categoryByID(categoryID)
	if !ok {
		return nil, ErrNotFound
	}
	if !src.OwnedBy(user.ID) {
		return nil, ErrNotOwner
	}

	title := src.Title
	if withNewTitle {
		title += " (copy)"
	}

	return s.AddCategory(ctx, CategoryInput{
		Title: title,
		Tags:  src.Tags,
	})
}

// UserCategories returns the current user's categories. Empty without a
// session.
func (s *Store) UserCategories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	var out []domain.Category
	for _, c := range s.state.Categories {
		if c.OwnedBy(s.state.CurrentUser.ID) {
			out = append(out, c)
		}
	}
	return out
}

// CategoryByID returns a category regardless of owner.
func (s *Store) CategoryByID(categoryID string) (*domain.Category, error) {
	c, ok := s.categoryByID(categoryID)
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

// CategoryBookmarks computes the member bookmarks of a category: direct
// references first, then tag-matched bookmarks, with no double counting.
func (s *Store) CategoryBookmarks(categoryID string) ([]domain.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.state.Categories {
		if c.ID == categoryID {
			return c.Members(s.state.Bookmarks), nil
		}
	}
	return nil, ErrNotFound
}

func (s *Store) categoryByID(categoryID string) (domain.Category, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.state.Categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return domain.Category{}, false
}
