package share

import (
	"context"
	"errors"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// State is the terminal state of a token resolution.
type State int

const (
	// StateNotFound means nothing, local or remote, knows the token.
	StateNotFound State = iota
	// StateError means the token was recognized but its content cannot be
	// shown; Reason says why.
	StateError
	// StateResolvedBookmark means the token resolved to a single bookmark.
	StateResolvedBookmark
	// StateResolvedCategory means the token resolved to a category and its
	// member bookmarks.
	StateResolvedCategory
)

// Resolution is the outcome of resolving a share token.
type Resolution struct {
	State  State
	Token  string
	Reason string // set for StateError

	Bookmark  *domain.Bookmark  // set for StateResolvedBookmark
	Category  *domain.Category  // set for StateResolvedCategory
	Bookmarks []domain.Bookmark // members, set for StateResolvedCategory
	TagNames  []string          // the category's tag names, for import
}

// Resolve works a token through the resolution ladder:
//
//  1. the backend's shared-category endpoint, which returns the category
//     with members already materialized server-side;
//  2. the local share-link collection, falling back to the persisted
//     snapshot when memory has not been hydrated;
//  3. nothing, which is NotFound.
//
// Resolve never surfaces a transport failure as anything but a terminal
// state; an unknown token is an expected outcome, not an error.
func (s *Service) Resolve(ctx context.Context, token string) Resolution {
	if token == "" {
		return Resolution{State: StateNotFound}
	}

	if payload, err := s.gateway.GetSharedCategory(ctx, token); err == nil {
		return resolutionFromPayload(token, payload)
	} else if !errors.Is(err, remote.ErrNotFound) {
		s.logger.Warn("remote share resolution failed, trying local links",
			"error", err)
	}

	link, err := s.store.ShareLinkByToken(token)
	if err != nil {
		link = s.persistedLink(token)
	}
	if link == nil {
		return Resolution{State: StateNotFound, Token: token}
	}

	switch link.Target() {
	case domain.ShareTargetBookmark:
		return s.resolveBookmarkLink(token, link.BookmarkID)
	case domain.ShareTargetCategory:
		return s.resolveCategoryLink(token, link.CategoryID)
	default:
		return Resolution{State: StateError, Token: token, Reason: "share link references nothing"}
	}
}

func (s *Service) resolveBookmarkLink(token, bookmarkID string) Resolution {
	bookmark, err := s.store.BookmarkByID(bookmarkID)
	if err != nil {
		return Resolution{State: StateError, Token: token, Reason: "shared bookmark no longer exists"}
	}
	return Resolution{State: StateResolvedBookmark, Token: token, Bookmark: bookmark}
}

func (s *Service) resolveCategoryLink(token, categoryID string) Resolution {
	category, err := s.store.CategoryByID(categoryID)
	if err != nil {
		return Resolution{State: StateError, Token: token, Reason: "shared category no longer exists"}
	}

	if !category.IsPublic {
		user := s.store.CurrentUser()
		if user == nil || !category.OwnedBy(user.ID) {
			return Resolution{State: StateError, Token: token, Reason: "shared category is private"}
		}
	}

	members, err := s.store.CategoryBookmarks(categoryID)
	if err != nil {
		return Resolution{State: StateError, Token: token, Reason: "shared category no longer exists"}
	}

	return Resolution{
		State:     StateResolvedCategory,
		Token:     token,
		Category:  category,
		Bookmarks: members,
		TagNames:  domain.TagNames(category.Tags),
	}
}

// persistedLink re-reads the snapshot for a link the in-memory collection
// does not have. Covers resolving a link before hydration has run.
func (s *Service) persistedLink(token string) *domain.ShareLink {
	st, err := s.store.PersistedState()
	if err != nil {
		s.logger.Warn("failed to read persisted share links", "error", err)
		return nil
	}
	for i := range st.ShareLinks {
		if st.ShareLinks[i].Token == token {
			return &st.ShareLinks[i]
		}
	}
	return nil
}

// resolutionFromPayload converts the backend's materialized shared category.
// The content belongs to another user: bookmarks are marked integrated and
// stay read-only until imported.
func resolutionFromPayload(token string, payload *remote.SharedCategoryPayload) Resolution {
	category := &domain.Category{
		ID:       payload.ID,
		Title:    payload.Title,
		IsPublic: true,
	}
	for _, name := range payload.TagNames {
		category.Tags = append(category.Tags, domain.Tag{Name: name})
	}

	bookmarks := make([]domain.Bookmark, 0, len(payload.Bookmarks))
	for i := range payload.Bookmarks {
		p := &payload.Bookmarks[i]
		bookmarks = append(bookmarks, domain.Bookmark{
			ID:          p.ID,
			Title:       p.Title,
			URL:         p.URL,
			Description: p.Description,
			Tags:        domain.ResolveTagRefs(p.WireTags(), ""),
			CreatedAt:   remote.ParseTimestamp(p.CreatedAt),
			UpdatedAt:   remote.ParseTimestamp(p.UpdatedAt),
			Integrated:  true,
		})
	}

	return Resolution{
		State:     StateResolvedCategory,
		Token:     token,
		Category:  category,
		Bookmarks: bookmarks,
		TagNames:  payload.TagNames,
	}
}
