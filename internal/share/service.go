// Package share resolves share tokens into viewable content and imports
// copies of shared bookmarks and categories into the current user's account.
package share

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
	"github.com/decollzoq/bookmark-service/internal/store"
)

// ErrShareDeclined is returned when the user declines to publish a private
// category during share creation.
var ErrShareDeclined = errors.New("share declined")

// ErrNotResolved is returned when an import is attempted on a resolution
// that did not land on importable content.
var ErrNotResolved = errors.New("nothing resolved to import")

// Gateway is the slice of the backend the share flows need.
type Gateway interface {
	GetSharedCategory(ctx context.Context, token string) (*remote.SharedCategoryPayload, error)
	GenerateShareToken(ctx context.Context, categoryID string) (string, error)
	DeleteShareToken(ctx context.Context, categoryID string) error
}

// ConfirmFunc asks the user to approve publishing a private category before
// it is shared. Returning false aborts the share.
type ConfirmFunc func(category domain.Category) bool

// Service implements the share-link state machine over the local store and
// the backend share endpoints.
type Service struct {
	store   *store.Store
	gateway Gateway
	logger  *slog.Logger
}

// New creates a share service.
func New(st *store.Store, gateway Gateway, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{store: st, gateway: gateway, logger: logger}
}

// CreateCategoryShare issues a share token for an owned category. Sharing a
// private category requires the user's explicit confirmation, since the
// token exposes its content to anyone holding the link; the category itself
// stays private. A declined confirmation aborts before anything goes
// remote. The backend mints the token when reachable, otherwise a local
// token is minted so the share still works against the local fallback path.
func (s *Service) CreateCategoryShare(ctx context.Context, categoryID string, confirm ConfirmFunc) (*domain.ShareLink, error) {
	user := s.store.CurrentUser()
	if user == nil {
		return nil, store.ErrNoSession
	}

	category, err := s.store.CategoryByID(categoryID)
	if err != nil {
		return nil, err
	}
	if !category.OwnedBy(user.ID) {
		return nil, store.ErrNotOwner
	}

	if !category.IsPublic {
		if confirm == nil || !confirm(*category) {
			return nil, ErrShareDeclined
		}
	}

	token, err := s.gateway.GenerateShareToken(ctx, categoryID)
	if err != nil {
		s.logger.Warn("remote share token failed, minting local token",
			"categoryID", categoryID, "error", err)
		token = ""
	}

	return s.store.CreateShareLink(store.ShareLinkInput{
		CategoryID: categoryID,
		Token:      token,
	})
}

// RevokeCategoryShare deletes the category's share token remotely and drops
// the local link. Revocation is best-effort and idempotent.
func (s *Service) RevokeCategoryShare(ctx context.Context, categoryID, token string) error {
	user := s.store.CurrentUser()
	if user == nil {
		return store.ErrNoSession
	}

	category, err := s.store.CategoryByID(categoryID)
	if err != nil {
		return err
	}
	if !category.OwnedBy(user.ID) {
		return store.ErrNotOwner
	}

	if err := s.gateway.DeleteShareToken(ctx, categoryID); err != nil {
		s.logger.Warn("remote share token delete failed",
			"categoryID", categoryID, "error", err)
	}
	s.store.RemoveShareLink(token)
	return nil
}
