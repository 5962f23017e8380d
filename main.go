package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raushankrgupta/stylesync/ai"
	"github.com/raushankrgupta/stylesync/api"
	"github.com/raushankrgupta/stylesync/cache"
	"github.com/raushankrgupta/stylesync/config"
	"github.com/raushankrgupta/stylesync/functions"
	"github.com/raushankrgupta/stylesync/logger"
	"github.com/raushankrgupta/stylesync/media"
	"github.com/raushankrgupta/stylesync/notify"
	"github.com/raushankrgupta/stylesync/outfits"
	"github.com/raushankrgupta/stylesync/store"
	"github.com/raushankrgupta/stylesync/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	if cfg.AllowPrivateFetch {
		slog.Warn("ALLOW_PRIVATE_FETCH set, outbound fetches may reach private networks")
		utils.AllowPrivateNetworks(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	uploader, err := media.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to configure media uploads", "error", err)
		os.Exit(1)
	}

	model, err := ai.NewModel(ctx, cfg)
	if err != nil {
		slog.Error("failed to configure AI provider", "error", err)
		os.Exit(1)
	}
	if c, ok := model.(io.Closer); ok {
		defer c.Close()
	}

	var avatars functions.AvatarCreator
	if cfg.RPMAPIKey != "" {
		avatars = ai.NewReadyPlayerMe(cfg.RPMAPIKey, cfg.RPMAppID)
	} else {
		slog.Warn("RPM_API_KEY not set, generateAvatar is disabled")
	}

	svc := functions.NewService(st, model, avatars, functions.WithTimeout(cfg.AITimeout))

	deps := api.Deps{
		Store:          st,
		Media:          uploader,
		Tokens:         utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Functions:      functions.NewRegistry(svc),
		Service:        svc,
		Notifier:       notify.New(cfg.SendGridAPIKey, cfg.EmailFrom),
		OAuth:          api.GoogleOAuthConfig(cfg),
		Limits:         outfits.LimitsFromConfig(cfg),
		MediaRoot:      cfg.MediaFolder,
		AICallsPerHour: cfg.AICallsPerHour,
	}

	if cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(cfg)
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unavailable, AI rate limiting disabled", "error", err)
		} else {
			deps.Limiter = rc
		}
		defer rc.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewHandler(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "store", cfg.StoreDriver, "ai", cfg.AIProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

// openStore connects the backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.StoreDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	ms, err := store.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, err
	}
	if err := ms.EnsureIndexes(ctx); err != nil {
		slog.Warn("failed to ensure indexes", "error", err)
	}
	closeFn := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ms.Close(ctx); err != nil {
			slog.Error("failed to disconnect mongodb", "error", err)
		}
	}
	return ms, closeFn, nil
}
