package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"blogly/handlers"
	"blogly/media"
	"blogly/service"
	"blogly/session"
	"blogly/store"
)

const (
	sessionTTL      = 30 * 24 * time.Hour
	flashTTL        = time.Hour
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the blogly web server on server.addr.

The store is chosen by database.driver. Flash messages go to Redis when
redis.addr is set and avatar uploads go to MinIO when minio.endpoint is set.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	addr := cfg.Server.Addr
	if flagAddr, _ := cmd.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildEngine wires the configured store, flash store and uploader into the
// router. cleanup releases the connections it opened.
func buildEngine(ctx context.Context) (*gin.Engine, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	st, closeStore, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, closeStore)

	policy, err := service.ParseDeletePolicy(cfg.Users.DeletePolicy)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	svc := service.New(st, logger, service.Options{
		DefaultImageURL: cfg.Users.DefaultImageURL,
		DeletePolicy:    policy,
	})

	flash, closeFlash, err := openFlash(ctx)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	closers = append(closers, closeFlash)

	deps := handlers.Deps{Service: svc, Flash: flash, Logger: logger}
	if cfg.MinIO.Endpoint != "" {
		up, err := media.NewMinIO(media.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			UseSSL:    cfg.MinIO.UseSSL,
			Bucket:    cfg.MinIO.Bucket,
			PublicURL: cfg.MinIO.PublicURL,
		})
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if err := up.EnsureBucket(ctx); err != nil {
			cleanup()
			return nil, nil, err
		}
		deps.Uploader = up
		logger.Info("avatar uploads enabled", "endpoint", cfg.MinIO.Endpoint, "bucket", cfg.MinIO.Bucket)
	}

	codec, err := session.NewCodec(cfg.SecretKey, sessionTTL)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if logger.Enabled(ctx, slog.LevelDebug) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := handlers.NewRouter(handlers.New(deps), codec, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return engine, cleanup, nil
}

func openStore() (store.Store, func(), error) {
	memory := cfg.Database.Driver == "memory"
	if memory {
		logger.Warn("using an in-memory SQLite database; data is lost on exit")
	}

	db, err := store.Open(storeOptions(), logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if cfg.Database.AutoMigrate || memory {
		if err := store.Migrate(db); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	return store.NewGorm(db), closeDB, nil
}

func openFlash(ctx context.Context) (session.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		return session.NewMemoryStore(), func() {}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	return session.NewRedisStore(rdb, flashTTL), func() { _ = rdb.Close() }, nil
}
