package oracle

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"spottheai/internal/core"
)

// Open builds the configured oracle: every backend in cfg.Backends in order,
// chained, behind a verdict cache. The returned close function releases
// backend resources.
func Open(cfg *core.OracleConfig, logger *zap.Logger) (core.BlacklistOracle, func() error, error) {
	var (
		backends []core.BlacklistOracle
		closers  []func() error
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	for _, name := range cfg.Backends {
		switch name {
		case core.OracleBackendHTTP:
			if cfg.URL == "" {
				_ = closeAll()
				return nil, nil, fmt.Errorf("oracle backend %q needs an oracle URL", name)
			}
			backends = append(backends, NewHTTPOracle(cfg.URL, cfg.Retries, logger.Named("http")))

		case core.OracleBackendList:
			list := NewListOracle()
			if err := list.LoadFiles(cfg.ListFiles...); err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			logger.Info("Loaded blacklist rule lists",
				zap.Strings("files", cfg.ListFiles),
				zap.Int("artists", list.Size()))
			backends = append(backends, list)

		case core.OracleBackendSQLite:
			if cfg.DBPath == "" {
				_ = closeAll()
				return nil, nil, fmt.Errorf("oracle backend %q needs a database path", name)
			}
			db, err := OpenSQLite(cfg.DBPath)
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			closers = append(closers, db.Close)
			backends = append(backends, db)

		default:
			_ = closeAll()
			return nil, nil, fmt.Errorf("unknown oracle backend %q", name)
		}
	}

	if len(backends) == 0 {
		return nil, nil, fmt.Errorf("no oracle backend configured")
	}

	var oracle core.BlacklistOracle = backends[0]
	if len(backends) > 1 {
		oracle = NewChain(logger, backends...)
	}
	if cfg.CacheTTL > 0 {
		oracle = NewCached(oracle, cfg.CacheSize, cfg.CacheTTL)
	}

	return oracle, closeAll, nil
}
