package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	accounts "well-analysis/internal/accounts/domain"
	accountsmemory "well-analysis/internal/accounts/infrastructure/memory"
	accountsrepo "well-analysis/internal/accounts/infrastructure/postgres"
	apihttp "well-analysis/internal/api/http"
	"well-analysis/internal/audit"
	"well-analysis/internal/config"
	logs "well-analysis/internal/logs/domain"
	logsmemory "well-analysis/internal/logs/infrastructure/memory"
	logsrepo "well-analysis/internal/logs/infrastructure/postgres"
	"well-analysis/internal/observability/metrics"
	petrophysics "well-analysis/internal/petrophysics/domain"
	zonesmemory "well-analysis/internal/petrophysics/infrastructure/memory"
	zonesrepo "well-analysis/internal/petrophysics/infrastructure/postgres"
	wells "well-analysis/internal/wells/domain"
	wellsmemory "well-analysis/internal/wells/infrastructure/memory"
	wellsrepo "well-analysis/internal/wells/infrastructure/postgres"
	"well-analysis/migrations"
)

// Stores groups the repositories of one storage backend.
type Stores struct {
	Users   accounts.Repository
	Wells   wells.Repository
	Samples logs.SampleRepository
	Zones   petrophysics.ZoneRepository
	Audit   audit.Logger
	// Pinger is nil in memory mode.
	Pinger apihttp.Pinger

	closeFn func() error
}

// Close releases the database handle, if any.
func (s *Stores) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

// OpenStores builds the repositories selected by cfg.Storage.
func OpenStores(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Stores, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		metrics.Init(nil, logger)
		return NewMemoryStores(logger, cfg.AuditMemoryLimit), nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}

// NewMemoryStores builds in-process repositories.
func NewMemoryStores(logger logrus.FieldLogger, auditLimit int) *Stores {
	samples := logsmemory.NewSampleRepository()
	zones := zonesmemory.NewZoneRepository()
	return &Stores{
		Users:   accountsmemory.NewUserRepository(),
		Wells:   wellsmemory.NewWellRepository(samples, zones),
		Samples: samples,
		Zones:   zones,
		Audit:   audit.NewLogLogger(logger, auditLimit),
	}
}

func openPostgres(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*Stores, error) {
	if cfg.DatabaseURL == "" {
		return nil, errors.New("database url is required")
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	if cfg.RunMigrations {
		if err := migrations.Up(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		version, dirty, err := migrations.Version(db)
		if err == nil {
			logger.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("schema migrated")
		}
	}
	metrics.Init(db, logger)

	return &Stores{
		Users:   accountsrepo.NewUserRepository(db),
		Wells:   wellsrepo.NewWellRepository(db),
		Samples: logsrepo.NewSampleRepository(db),
		Zones:   zonesrepo.NewZoneRepository(db),
		Audit:   audit.NewRepository(db),
		Pinger:  db,
		closeFn: db.Close,
	}, nil
}
