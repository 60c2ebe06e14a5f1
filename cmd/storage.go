package cmd

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/hours-portal/internal"
	"github.com/frahmantamala/hours-portal/internal/state"
	statepg "github.com/frahmantamala/hours-portal/internal/state/postgres"
	stateredis "github.com/frahmantamala/hours-portal/internal/state/redis"
	"github.com/frahmantamala/hours-portal/internal/transport/rest"
)

// storage is the state backend chosen by configuration, plus what the
// health endpoint should probe and what shutdown must close.
type storage struct {
	KV      state.KeyValue
	DB      *sqlx.DB
	Checks  map[string]rest.Check
	closers []func() error
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}
}

func openStorage(ctx context.Context, cfg *internal.Config) (*storage, error) {
	switch cfg.Storage.Backend {
	case internal.StorageMemory:
		kv := state.NewMemoryKV()
		return &storage{KV: kv, Checks: map[string]rest.Check{"memory": rest.PingCheck(kv)}}, nil

	case internal.StorageRedis:
		client := stateredis.NewClient(cfg.Redis)
		kv := stateredis.NewKV(client)
		if err := kv.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return &storage{
			KV:      kv,
			Checks:  map[string]rest.Check{"redis": rest.PingCheck(kv)},
			closers: []func() error{client.Close},
		}, nil

	default:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		gdb, err := openGorm(db, cfg.Database.Driver)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &storage{
			KV:      statepg.NewKV(gdb),
			DB:      db,
			Checks:  map[string]rest.Check{cfg.Database.Driver: rest.SQLCheck(db)},
			closers: []func() error{db.Close},
		}, nil
	}
}

// initDB opens and verifies the SQL connection pool.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	driver := cfg.SQLDriver()

	db, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Driver, err)
	}

	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	if cfg.Driver == internal.StorageSQLite {
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// openGorm layers gorm over the already-open pool so both share connections.
func openGorm(db *sqlx.DB, driver string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if driver == internal.StoragePostgres {
		dialector = postgres.New(postgres.Config{Conn: db.DB})
	} else {
		dialector = sqlite.New(sqlite.Config{Conn: db.DB})
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	return gdb, nil
}
