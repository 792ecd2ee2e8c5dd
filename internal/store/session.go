package store

import (
	"context"

	"github.com/decollzoq/bookmark-service/internal/auth"
	"github.com/decollzoq/bookmark-service/internal/domain"
	"github.com/decollzoq/bookmark-service/internal/id"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// Login authenticates against the backend and establishes the session. The
// remote client persists the token pair; the store installs the user and
// pulls the user's data.
func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := userFromLogin(resp.User, resp.AccessToken, email)

	s.mu.Lock()
	s.state.CurrentUser = user
	s.persistLocked()
	s.mu.Unlock()

	s.loadAll(ctx)

	return user, nil
}

// Register creates an account and logs straight into it.
func (s *Store) Register(ctx context.Context, email, password, nickname string) (*domain.User, error) {
	if err := s.backend.Register(ctx, email, password, nickname); err != nil {
		return nil, err
	}
	return s.Login(ctx, email, password)
}

// Logout clears the credentials and drops the session. Cached entities stay
// on disk; projections go empty until the next login.
func (s *Store) Logout() error {
	err := auth.ClearSession(s.Credentials())

	s.mu.Lock()
	s.state.CurrentUser = nil
	s.persistLocked()
	s.mu.Unlock()

	return err
}

// DeleteAccount removes the account server-side, then tears the session and
// the user's cached entities down.
func (s *Store) DeleteAccount(ctx context.Context, password string) error {
	user, err := s.requireUser()
	if err != nil {
		return err
	}
	if err := s.backend.DeleteAccount(ctx, password); err != nil {
		return err
	}

	_ = auth.ClearSession(s.Credentials())

	s.mu.Lock()
	s.dropUserEntitiesLocked(user.ID)
	s.state.CurrentUser = nil
	s.persistLocked()
	s.mu.Unlock()

	return nil
}

// Hydrate restores the persisted snapshot into memory and bootstraps the
// session. Runs once per process; later calls are no-ops.
//
// Session bootstrap, in order: a restored CurrentUser is used as-is; failing
// that a persisted access token is decoded into a provisional user; failing
// that the client silently stays logged out. With a session in hand the
// user's data is pulled from the backend.
func (s *Store) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return nil
	}
	s.hydrated = true

	if st, err := s.PersistedState(); err != nil {
		s.logger.Warn("failed to restore state snapshot, starting empty", "error", err)
	} else {
		s.state = st
	}
	user := s.state.CurrentUser
	s.mu.Unlock()

	if user == nil {
		user = s.provisionalUser()
		if user != nil {
			s.mu.Lock()
			s.state.CurrentUser = user
			s.persistLocked()
			s.mu.Unlock()
		}
	}

	if user != nil {
		s.logger.Info("session restored", "userID", user.ID)
		s.loadAll(ctx)
	}
	return nil
}

// Hydrated reports whether Hydrate has run.
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// CurrentUser returns a copy of the session user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state.CurrentUser == nil {
		return nil
	}
	u := *s.state.CurrentUser
	return &u
}

// provisionalUser rebuilds a user from persisted credentials, if any. Any
// failure here means "not logged in", never an error the caller sees.
func (s *Store) provisionalUser() *domain.User {
	creds := s.Credentials()

	token, err := creds.Get(auth.KeyAccessToken)
	if err != nil || token == "" {
		return nil
	}
	email, _ := creds.Get(auth.KeyUserEmail)

	user, err := auth.UserFromToken(token, email)
	if err != nil {
		s.logger.Warn("persisted token is malformed, staying logged out", "error", err)
		return nil
	}
	return user
}

// LoadUserBookmarks pulls the user's bookmarks and replaces the collection
// wholesale with the normalized result.
func (s *Store) LoadUserBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	payloads, err := s.backend.ListBookmarks(ctx)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]domain.Bookmark, 0, len(payloads))
	for i := range payloads {
		bookmarks = append(bookmarks, bookmarkFromPayload(&payloads[i], user.ID))
	}

	s.mu.Lock()
	s.state.Bookmarks = bookmarks
	s.persistLocked()
	s.mu.Unlock()

	return bookmarks, nil
}

// LoadUserCategories pulls the user's categories and replaces the collection
// wholesale with the normalized result.
func (s *Store) LoadUserCategories(ctx context.Context) ([]domain.Category, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	payloads, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(payloads))
	for i := range payloads {
		categories = append(categories, categoryFromPayload(&payloads[i], user.ID))
	}

	s.mu.Lock()
	s.state.Categories = categories
	s.persistLocked()
	s.mu.Unlock()

	return categories, nil
}

// LoadUserTags pulls the user's tags and replaces the collection wholesale.
func (s *Store) LoadUserTags(ctx context.Context) ([]domain.Tag, error) {
	user, err := s.requireUser()
	if err != nil {
		return nil, err
	}

	payloads, err := s.backend.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	tags := make([]domain.Tag, 0, len(payloads))
	for i := range payloads {
		tags = append(tags, tagFromPayload(&payloads[i], user.ID))
	}

	s.mu.Lock()
	s.state.Tags = tags
	s.persistLocked()
	s.mu.Unlock()

	return tags, nil
}

// loadAll pulls every collection. Failures are logged, never fatal: a stale
// cache beats a failed login or startup.
func (s *Store) loadAll(ctx context.Context) {
	if _, err := s.LoadUserBookmarks(ctx); err != nil {
		s.logger.Warn("failed to load bookmarks", "error", err)
	}
	if _, err := s.LoadUserCategories(ctx); err != nil {
		s.logger.Warn("failed to load categories", "error", err)
	}
	if _, err := s.LoadUserTags(ctx); err != nil {
		s.logger.Warn("failed to load tags", "error", err)
	}
}

// dropUserEntitiesLocked removes everything the user owns. Callers must hold
// the write lock.
func (s *Store) dropUserEntitiesLocked(userID string) {
	bookmarks := s.state.Bookmarks[:0]
	for _, b := range s.state.Bookmarks {
		if !b.OwnedBy(userID) {
			bookmarks = append(bookmarks, b)
		}
	}
	s.state.Bookmarks = bookmarks

	categories := s.state.Categories[:0]
	for _, c := range s.state.Categories {
		if !c.OwnedBy(userID) {
			categories = append(categories, c)
		}
	}
	s.state.Categories = categories

	tags := s.state.Tags[:0]
	for _, t := range s.state.Tags {
		if t.OwnerID != userID {
			tags = append(tags, t)
		}
	}
	s.state.Tags = tags

	s.state.RecentViews = nil
}

// userFromLogin builds the session user from whatever the login response
// offered: the explicit user object when present, else the token's claims,
// else just the login email.
func userFromLogin(payload *remote.UserPayload, accessToken, email string) *domain.User {
	if payload != nil && payload.ID != "" {
		user := &domain.User{
			ID:       payload.ID,
			Username: payload.Username,
			Email:    payload.Email,
		}
		if user.Email == "" {
			user.Email = email
		}
		if user.Username == "" {
			user.Username = domain.UsernameFromEmail(user.Email)
		}
		return user
	}

	if user, err := auth.UserFromToken(accessToken, email); err == nil {
		return user
	}

	return &domain.User{
		ID:       id.MustGenerate(id.PrefixUser),
		Username: domain.UsernameFromEmail(email),
		Email:    email,
	}
}
