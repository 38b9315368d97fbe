package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/db"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/migrate"
	"github.com/angelmondragon/storefront/pkg/ratelimit"
	"github.com/angelmondragon/storefront/pkg/redis"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/angelmondragon/storefront/pkg/storage/badgerkv"
	"github.com/angelmondragon/storefront/pkg/storage/sqlkv"
)

const limiterIdle = 30 * time.Minute

type backend struct {
	store   storage.Store
	pinger  controllers.Pinger
	limiter middleware.Limiter
	closers []func() error
}

func (b *backend) close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	return multierr.Combine(errs...)
}

// openStorage selects the local storage backend. Login throttling shares Redis
// when it is the backend and falls back to in-process buckets otherwise.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*backend, error) {
	b := &backend{}

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		b.store = storage.NewMemory()
		logg.Warn(ctx, "memory storage selected; cart and session are lost on restart")

	case config.StorageDriverBadger:
		kv, err := badgerkv.Open(ctx, cfg.Storage.BadgerPath, cfg.Storage.Namespace, logg)
		if err != nil {
			return nil, err
		}
		b.store, b.pinger = kv, kv
		b.closers = append(b.closers, kv.Close)

	case config.StorageDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, cfg.Storage.Namespace, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		b.store, b.pinger, b.limiter = client, client, client
		b.closers = append(b.closers, client.Close)

	case config.StorageDriverSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		b.closers = append(b.closers, client.Close)
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = b.close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		b.store, b.pinger = sqlkv.New(client.DB(), cfg.Storage.Namespace), client

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if b.limiter == nil {
		keyed := ratelimit.New()
		b.limiter = keyed
		go pruneLimiter(ctx, keyed, logg)
	}
	return b, nil
}

func pruneLimiter(ctx context.Context, keyed *ratelimit.Keyed, logg *logger.Logger) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := keyed.Prune(limiterIdle); n > 0 {
				logg.Debug(logg.WithField(ctx, "pruned", n), "login limiter buckets pruned")
			}
		}
	}
}
