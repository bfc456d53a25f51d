package docstore

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/vitrine/internal/config"
)

// Open creates the store selected by the configuration.
func Open(cfg *config.DocumentsConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("documents config is required")
	}

	switch cfg.Driver {
	case config.DocumentDriverFile:
		log.Info("using file document store", "dir", cfg.DataDir)
		return NewFileStore(cfg.DataDir)
	case config.DocumentDriverSQLite:
		log.Info("using sqlite document store", "path", cfg.SQLitePath)
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown document driver %q", cfg.Driver)
	}
}
