package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"salimco/pos/internal/archive"
	"salimco/pos/internal/config"
	"salimco/pos/internal/httpapi"
	"salimco/pos/internal/logger"
	"salimco/pos/internal/metrics"
	"salimco/pos/internal/service"
	"salimco/pos/internal/session"
	"salimco/pos/internal/store/sqlstore"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: "stdout"})
	defer func() { _ = log.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatal("invalid security configuration", zap.Error(err))
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 2)

	repo, err := sqlstore.Open(ctx, sqlstore.Config{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpenConns,
		Logger:       logger.NewGormLogger(log, logger.GormLevel(cfg.LogLevel), 200*time.Millisecond),
	})
	if err != nil {
		log.Fatal("database unavailable", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	closers = append(closers, repo.Close)
	log.Info("repository ready", zap.String("driver", cfg.DBDriver))

	sessionStore := session.Store(session.NewMemoryStore())
	if cfg.RedisAddr != "" {
		redisStore := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisStore.Ping(ctx); err != nil {
			log.Warn("redis unavailable, keeping sessions in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			_ = redisStore.Close()
		} else {
			sessionStore = redisStore
			closers = append(closers, redisStore.Close)
			log.Info("sessions: redis", zap.String("addr", cfg.RedisAddr))
		}
	} else {
		log.Info("sessions: memory")
	}

	archiver, err := archive.New(ctx, cfg.Archive, log)
	if err != nil {
		log.Fatal("invalid archive configuration", zap.Error(err))
	}
	log.Info("report archive", zap.String("mode", archiver.Name()))

	m := metrics.New()
	svc := service.New(repo, service.Options{
		ShopName:   cfg.ShopName,
		ReportsDir: cfg.ReportsDir,
		Archiver:   archiver,
		Metrics:    m,
		Logger:     log,
	})
	if err := svc.EnsureDefaultUsers(ctx, cfg.SeedAdminPassword, cfg.SeedCashierPassword); err != nil {
		log.Fatal("seed users failed", zap.Error(err))
	}

	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	api := httpapi.New(svc, sessions, httpapi.Options{
		ShopName:      cfg.ShopName,
		AllowedOrigin: cfg.AllowedOrigin,
		Metrics:       m,
		Logger:        log,
	})

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("POS listening", zap.String("addr", cfg.Address()), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Error("close error", zap.Error(err))
		}
	}

	log.Info("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.SessionSecret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be set and at least 32 characters")
	}
	if cfg.IsProduction() {
		if cfg.SeedAdminPassword == config.DefaultAdminPassword {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed in production")
		}
		if cfg.SeedCashierPassword == config.DefaultCashierPassword {
			return fmt.Errorf("SEED_CASHIER_PASSWORD must be changed in production")
		}
	}
	return nil
}
