package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/storefront/internal/auth"
	"github.com/dmitrymomot/storefront/internal/cart"
	"github.com/dmitrymomot/storefront/internal/catalog"
	"github.com/dmitrymomot/storefront/internal/config"
	"github.com/dmitrymomot/storefront/internal/contact"
	"github.com/dmitrymomot/storefront/internal/handler"
	"github.com/dmitrymomot/storefront/internal/order"
	"github.com/dmitrymomot/storefront/internal/store"
	"github.com/dmitrymomot/storefront/internal/user"
	"github.com/dmitrymomot/storefront/pkg/cookie"
	"github.com/dmitrymomot/storefront/pkg/health"
	"github.com/dmitrymomot/storefront/pkg/logger"
	"github.com/dmitrymomot/storefront/pkg/mailer/resend"
	pkgredis "github.com/dmitrymomot/storefront/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(handler.RequestIDExtractor)

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// MongoDB connection and index bootstrap
	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	closeStore := store.Shutdown(client)
	db := client.Database(cfg.MongoDB)

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	checks := health.Checks{
		"mongodb": func(ctx context.Context) error {
			return client.Ping(ctx, nil)
		},
	}

	// Catalog caches: in-process by default, Redis when configured
	var caches *catalog.Caches
	var closeRedis func(context.Context) error
	switch cfg.CacheDriver {
	case "redis":
		rdb, err := pkgredis.Open(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		closeRedis = pkgredis.Shutdown(rdb)
		caches = catalog.NewRedisCaches(rdb)
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	default:
		caches = catalog.NewMemoryCaches()
	}

	tokens, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Error("failed to init token service", "error", err)
		os.Exit(1)
	}
	cookies := cookie.New(
		cookie.WithSecret(cfg.CookieSecret),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)
	sender := resend.New(cfg.Resend)

	component := func(name string) *slog.Logger {
		return logger.NewComponent(name, handler.RequestIDExtractor)
	}

	catalogSvc := catalog.NewService(store.NewProducts(db), caches, component("catalog"))
	cartsRepo := store.NewCarts(db)
	engine := cart.NewEngine(cartsRepo, catalogSvc, component("cart"))

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: handler.New(handler.Deps{
			Catalog:  catalogSvc,
			Carts:    engine,
			Orders:   order.NewService(store.NewOrders(db), cartsRepo, component("order")),
			Contacts: contact.NewService(store.NewContacts(db), sender, component("contact")),
			Users:    user.NewService(store.NewUsers(db), tokens, component("user")),
			Tokens:   tokens,
			Cookies:  cookies,
			Health:   checks,
			Log:      log,
		}),
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server started", "addr", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if err := caches.Close(); err != nil {
		log.Error("cache shutdown failed", "error", err)
	}
	if closeRedis != nil {
		if err := closeRedis(shutdownCtx); err != nil {
			log.Error("redis shutdown failed", "error", err)
		}
	}
	if err := closeStore(shutdownCtx); err != nil {
		log.Error("mongodb shutdown failed", "error", err)
	}
}
