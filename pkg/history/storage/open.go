package storage

import (
	"fmt"
	"log/slog"

	"mercator-hq/huntquery/pkg/config"
	"mercator-hq/huntquery/pkg/history"
)

// DriverMemory selects MemoryStorage.
const DriverMemory = "memory"

// Open returns the history backend selected by cfg.Driver.
func Open(cfg config.HistoryConfig, logger *slog.Logger) (history.Store, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStorage(), nil
	case DriverSQLite, DriverSQLite3, "":
		sqliteCfg := DefaultSQLiteConfig()
		if cfg.Driver != "" {
			sqliteCfg.Driver = cfg.Driver
		}
		if cfg.Path != "" {
			sqliteCfg.Path = cfg.Path
		}
		return NewSQLiteStorage(sqliteCfg, logger)
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", cfg.Driver)
	}
}
