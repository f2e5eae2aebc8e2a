package cli

import (
	"context"
	"fmt"

	"dto-services/internal/config"
	"dto-services/persist"
	"dto-services/persist/memstore"
	"dto-services/persist/sqlstore"
)

// openStore opens the configured store. close is never nil.
func (a *app) openStore(ctx context.Context) (persist.Store, func() error, error) {
	keys := persist.NewKeys(a.cfg.Keys.Names...)

	switch a.cfg.Store.Driver {
	case config.DriverSQLite:
		s, err := sqlstore.Open(ctx, a.cfg.Store.DSN, sqlstore.WithKeys(keys))
		if err != nil {
			return nil, nil, err
		}

		return s, s.Close, nil
	case config.DriverMemory:
		return memstore.New(memstore.WithKeys(keys)), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func (a *app) storeName() string {
	if a.cfg.Store.Driver == config.DriverSQLite {
		return config.DriverSQLite + " " + a.cfg.Store.DSN
	}

	return a.cfg.Store.Driver
}
