package providers

import (
	"github.com/samber/do/v2"

	"github.com/decollzoq/bookmark-service/internal/logger"
	"github.com/decollzoq/bookmark-service/internal/remote"
	"github.com/decollzoq/bookmark-service/internal/share"
)

// ProvideShareService provides the share resolution and import service.
func ProvideShareService(i do.Injector) (*share.Service, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*remote.Client](i)

	return share.New(storeHandle.Store, client, log.Logger), nil
}
