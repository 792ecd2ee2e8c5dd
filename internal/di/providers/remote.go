package providers

import (
	"github.com/samber/do/v2"

	"github.com/decollzoq/bookmark-service/internal/config"
	"github.com/decollzoq/bookmark-service/internal/logger"
	"github.com/decollzoq/bookmark-service/internal/remote"
)

// ProvideRemoteClient provides the backend API client and wires it onto the
// store as its write-through backend. The client and the store depend on
// each other (credentials live on the store's database), so the backend is
// set here rather than at store construction.
func ProvideRemoteClient(i do.Injector) (*remote.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	client := remote.New(cfg.API.BaseURL, cfg.API.Timeout, storeHandle.Credentials(), log.Logger)
	storeHandle.SetBackend(client)

	return client, nil
}
