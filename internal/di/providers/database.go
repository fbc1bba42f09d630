package providers

import (
	"github.com/samber/do/v2"

	"github.com/docketapp/docket-server/internal/config"
	"github.com/docketapp/docket-server/internal/logger"
	"github.com/docketapp/docket-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := cfg.DatabasePath()

	st, err := sqlite.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database opened", "path", dbPath)

	return &StoreHandle{Store: st}, nil
}
