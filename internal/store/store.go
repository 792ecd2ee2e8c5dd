// Package store is the local cache: the single source of truth every read
// goes through. State lives in memory, guarded by a RWMutex, and is written
// to Badger as one snapshot blob after every mutation so a restart can
// restore the whole session.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/decollzoq/bookmark-service/internal/auth"
	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// Backend is the remote API surface the store writes through. Satisfied by
// *remote.Client; tests substitute a fake.
type Backend interface {
	Login(ctx context.Context, email, password string) (*remote.LoginResponse, error)
	Register(ctx context.Context, email, password, nickname string) error
	DeleteAccount(ctx context.Context, password string) error

	ListBookmarks(ctx context.Context) ([]remote.BookmarkPayload, error)
	CreateBookmark(ctx context.Context, req remote.BookmarkRequest) (*remote.BookmarkPayload, error)
	UpdateBookmark(ctx context.Context, bookmarkID string, req remote.BookmarkUpdateRequest) (*remote.BookmarkPayload, error)
	DeleteBookmark(ctx context.Context, bookmarkID string) error
	ToggleFavorite(ctx context.Context, bookmarkID string) error

	ListCategories(ctx context.Context) ([]remote.CategoryPayload, error)
	CreateCategory(ctx context.Context, req remote.CategoryRequest) (*remote.CategoryPayload, error)
	UpdateCategory(ctx context.Context, categoryID string, req remote.CategoryUpdateRequest) (*remote.CategoryPayload, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ToggleVisibility(ctx context.Context, categoryID string) error

	ListTags(ctx context.Context) ([]remote.TagPayload, error)
	CreateTag(ctx context.Context, name string) (*remote.TagPayload, error)
	DeleteTag(ctx context.Context, tagID string) error
}

// Store wraps the in-memory state and its Badger-persisted snapshot.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Remote backend. Set via SetBackend after store creation so the
	// credential store (which lives on the same Badger DB) can be handed
	// to the HTTP client first.
	backend Backend

	mu       sync.RWMutex
	state    State
	hydrated bool
}

// New opens the Badger database and creates the store. The in-memory state
// starts empty; call Hydrate to restore the persisted snapshot.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	logger.Info("Badger database opened successfully", "path", path)

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("Closing database connection")
	return s.db.Close()
}

// SetBackend sets the remote backend. Set after store creation to break the
// cycle between the store's credential storage and the HTTP client.
func (s *Store) SetBackend(b Backend) {
	s.backend = b
}

// Credentials returns a credential store backed by the same Badger DB.
func (s *Store) Credentials() auth.CredentialStore {
	return &Credentials{db: s.db}
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// requireUser returns a copy of the current user, or ErrNoSession.
func (s *Store) requireUser() (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil, ErrNoSession
	}
	u := *s.state.CurrentUser
	return &u, nil
}

// isNotFound reports whether a badger error means the key is absent.
func isNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}
