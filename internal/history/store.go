package history

import (
	"context"
	"fmt"
	"path/filepath"

	"tailorai/internal/infra"
)

// OpenStore builds the backend selected by cfg.HistoryBackend.
func OpenStore(ctx context.Context, cfg *infra.ClientConfig, logger infra.Logger) (Store, error) {
	switch cfg.HistoryBackend {
	case infra.HistoryBackendFile, "":
		return NewFileStore(cfg.HistoryPath)
	case infra.HistoryBackendBolt:
		return OpenBoltStore(filepath.Join(cfg.HistoryPath, "history.db"))
	case infra.HistoryBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg.HistoryDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("history: %w", err)
		}
		return NewPostgresStore(infra.NewSQLRunner(pool, logger), cfg.HistoryTable, pool.Close)
	default:
		return nil, fmt.Errorf("history: unknown backend %q", cfg.HistoryBackend)
	}
}
