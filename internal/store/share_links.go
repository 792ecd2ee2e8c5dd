package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
)

// ShareLinkInput names the content a new share link should point at.
// Exactly one of BookmarkID and CategoryID must be set. Token carries a
// server-issued token; left empty, a fresh one is minted locally.
type ShareLinkInput struct {
	BookmarkID string
	CategoryID string
	Token      string
}

// CreateShareLink records a share link for a bookmark or category owned by
// the current user. A locally minted token is an opaque UUID, matching the
// tokens the backend issues for its own share endpoints.
func (s *Store) CreateShareLink(in ShareLinkInput) (*domain.ShareLink, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	token := in.Token
	if token == "" {
		token = uuid.NewString()
	}

	link := domain.ShareLink{
		ID:         id.MustGenerate(id.PrefixShareLink),
		Token:      token,
		BookmarkID: in.BookmarkID,
		CategoryID: in.CategoryID,
		CreatedAt:  time.Now(),
	}

	switch link.Target() {
	case domain.ShareTargetBookmark:
		b, ok := s.bookmarkByID(in.BookmarkID)
		if !ok {
			return nil, ErrNotFound
		}
		if !b.OwnedBy(user.ID) {
			return nil, ErrNotOwner
		}
	case domain.ShareTargetCategory:
		c, ok := s.categoryByID(in.CategoryID)
		if !ok {
			return nil, ErrNotFound
		}
		if !c.OwnedBy(user.ID) {
			return nil, ErrNotOwner
		}
	default:
		return nil, ErrInvalidInput.WithMessage("share link must reference exactly one of bookmark or category")
	}

	s.mu.Lock()
	s.state.ShareLinks = append(s.state.ShareLinks, link)
	s.persistLocked()
	s.mu.Unlock()

	return &link, nil
}

// ShareLinkByToken resolves a token against the in-memory link collection.
func (s *Store) ShareLinkByToken(token string) (*domain.ShareLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.state.ShareLinks {
		if l.Token == token {
			out := l
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// ShareLinks returns every locally known share link.
func (s *Store) ShareLinks() []domain.ShareLink {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ShareLink, len(s.state.ShareLinks))
	copy(out, s.state.ShareLinks)
	return out
}

// RemoveShareLink deletes a local share link by token. Absent tokens are not
// an error; revocation is idempotent.
func (s *Store) RemoveShareLink(token string) {
	s.mu.Lock()
	kept := s.state.ShareLinks[:0]
	for _, l := range s.state.ShareLinks {
		if l.Token != token {
			kept = append(kept, l)
		}
	}
	s.state.ShareLinks = kept
	s.persistLocked()
	s.mu.Unlock()
}
