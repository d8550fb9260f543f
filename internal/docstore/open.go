package docstore

import (
	"context"
	"fmt"

	"artlog/internal/config"
)

// Open builds the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(cfg.MaxRetries), nil
	case DriverBadger:
		return OpenBadger(cfg.BadgerPath, cfg.MaxRetries)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
