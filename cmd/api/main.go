package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/routes"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/dashboard"
	"github.com/angelmondragon/storefront/internal/listing"
	"github.com/angelmondragon/storefront/internal/reviews"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/dummyjson"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})

	// Prices travel as JSON numbers, matching the remote API.
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	backend, err := openStorage(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.close(); err != nil {
			logg.Error(context.Background(), "error closing storage", err)
		}
	}()
	store := backend.store

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// authSvc is assigned below; the client only calls the hook after startup.
	var authSvc auth.Service
	client, err := dummyjson.NewClient(
		dummyjson.WithBaseURL(cfg.RemoteAPI.BaseURL),
		dummyjson.WithTimeout(cfg.RemoteAPI.Timeout),
		dummyjson.WithRateLimit(cfg.RemoteAPI.RateLimit, cfg.RemoteAPI.Burst),
		dummyjson.WithMetrics(metrics.NewRemoteAPIMetrics(registry)),
		dummyjson.WithTokenSource(func(ctx context.Context) (string, error) {
			return auth.StoredToken(ctx, store)
		}),
		dummyjson.WithUnauthorizedHook(func(ctx context.Context) {
			if authSvc == nil {
				return
			}
			if err := authSvc.Logout(ctx); err != nil {
				logg.Error(ctx, "failed to clear session after 401", err)
			}
		}),
		dummyjson.WithLogger(logg),
	)
	if err != nil {
		return err
	}

	authSvc, err = auth.NewService(auth.ServiceParams{Store: store, Client: client, Logger: logg})
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{Store: store, Logger: logg})
	if err != nil {
		return err
	}
	reviewSvc, err := reviews.NewService(reviews.ServiceParams{Store: store, Logger: logg})
	if err != nil {
		return err
	}
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		Cart:   cartSvc,
		Logger: logg,
		Delay:  cfg.Checkout.SimulatedDelay,
	})
	if err != nil {
		return err
	}
	dashboardSvc, err := dashboard.NewService(dashboard.ServiceParams{API: client, Logger: logg})
	if err != nil {
		return err
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		API:      client,
		Logger:   logg,
		PageSize: cfg.Listing.PageSize,
	})
	if err != nil {
		return err
	}

	posts, err := newListing(ctx, listing.Params[dummyjson.Post]{
		Name: "posts", Key: storage.KeyLocalPosts, Store: store, Source: listing.PostSource(client), Logger: logg,
	})
	if err != nil {
		return err
	}
	comments, err := newListing(ctx, listing.Params[dummyjson.Comment]{
		Name: "comments", Key: storage.KeyLocalComments, Store: store, Source: listing.CommentSource(client), Logger: logg,
	})
	if err != nil {
		return err
	}
	products, err := newListing(ctx, listing.Params[dummyjson.Product]{
		Name: "products", Key: storage.KeyLocalProducts, Store: store, Source: listing.ProductSource(client), Logger: logg,
	})
	if err != nil {
		return err
	}

	ready := map[string]controllers.Pinger{}
	if backend.pinger != nil {
		ready["storage"] = backend.pinger
	}

	handler := routes.NewRouter(routes.Params{
		Config:       cfg,
		Logger:       logg,
		Gatherer:     registry,
		HTTPMetrics:  metrics.NewHTTPMetrics(registry),
		Ready:        ready,
		LoginLimiter: backend.limiter,
		Auth:         authSvc,
		Cart:         cartSvc,
		Checkout:     checkoutSvc,
		Catalog:      catalogSvc,
		Reviews:      reviewSvc,
		Dashboard:    dashboardSvc,
		Posts:        posts,
		Comments:     comments,
		Products:     products,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"storage_driver": cfg.Storage.Driver,
		"remote_api":     cfg.RemoteAPI.BaseURL,
	})
	logg.Info(logCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newListing[T listing.Entity[T]](ctx context.Context, p listing.Params[T]) (*listing.Listing[T], error) {
	l, err := listing.New(p)
	if err != nil {
		return nil, err
	}
	if _, err := l.LoadLocal(ctx); err != nil {
		return nil, err
	}
	return l, nil
}
