package main // Entry point package

import (
	"context"   // startup and shutdown deadlines
	"errors"    // distinguish a clean shutdown from a failed listener
	"log/slog"  // structured logging
	"net/http"  // http.ErrServerClosed
	"os"        // signal notification target
	"os/signal" // graceful shutdown on SIGINT/SIGTERM
	"syscall"   // SIGTERM
	"time"      // token lifetimes and shutdown timeout

	"github.com/iliyamo/condominio-auth/internal/config"     // Internal config loader
	"github.com/iliyamo/condominio-auth/internal/database"   // connection pool and schema
	"github.com/iliyamo/condominio-auth/internal/handler"    // HTTP handlers
	"github.com/iliyamo/condominio-auth/internal/logger"     // slog setup
	"github.com/iliyamo/condominio-auth/internal/queue"      // audit log consumer
	"github.com/iliyamo/condominio-auth/internal/repository" // stores
	"github.com/iliyamo/condominio-auth/internal/router"     // Internal router setup
	"github.com/iliyamo/condominio-auth/internal/service"    // auth and account services
)

func main() {
	cfg := config.Load()         // Load environment config
	log := logger.Init(cfg.Env) // Install the process logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, database.Options{
		Driver: database.Dialect(cfg.DBDriver),
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
		Path:   cfg.DBPath,
	})
	if err != nil {
		logger.Fatal("database connection failed", "err", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db, database.Dialect(cfg.DBDriver)); err != nil {
			logger.Fatal("schema migration failed", "err", err)
		}
	}

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable, rate limiting and response cache disabled")
	} else {
		defer rdb.Close()
	}

	// Account events go to RabbitMQ only when enabled; otherwise they are dropped.
	evCfg := config.LoadEventsConfig()
	var events service.EventPublisher = service.NopPublisher{}
	if evCfg.Enabled {
		events = service.NewAMQPPublisher(evCfg.URL, evCfg.Queue)
		log.Info("account events enabled", slog.String("queue", evCfg.Queue))
	}
	if evCfg.ConsumerEnabled {
		consumer := &queue.AuditConsumer{URL: evCfg.URL, Queue: evCfg.Queue, LogDir: evCfg.LogDir, Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("audit consumer stopped", slog.Any("err", err))
			}
		}()
	}

	accountRepo := repository.NewAccountRepo(db, database.Dialect(cfg.DBDriver))
	unitRepo := repository.NewUnitRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	tokens := service.NewTokenService(cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
		tokenRepo, accountRepo)
	accounts := service.NewAccountService(accountRepo, unitRepo, tokens,
		service.NewPasswordPolicy(cfg.PasswordMinLen), events, cfg.BcryptCost, log)

	e := router.New(router.Deps{
		DB:        db,
		Auth:      handler.NewAuthHandler(service.NewCredentialValidator(accountRepo), tokens, accounts),
		Usuarios:  handler.NewUsuarioHandler(accounts),
		Tokens:    tokens,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
	})

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.Any("err", err))
	}
	log.Info("server stopped")
}
