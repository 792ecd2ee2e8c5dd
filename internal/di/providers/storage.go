package providers

import (
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/decollzoq/bookmark-service/internal/config"
	"github.com/decollzoq/bookmark-service/internal/logger"
	"github.com/decollzoq/bookmark-service/internal/store"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the local cache store. The remote backend is wired
// onto it by ProvideRemoteClient, which needs the store's credential storage
// first.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Data.Path, "db")
	st, err := store.New(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Local cache initialized", "path", dbPath)

	return &StoreHandle{Store: st}, nil
}
