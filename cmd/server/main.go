package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/usermgmt/accounts-api/internal/api"
	"github.com/usermgmt/accounts-api/internal/api/handler"
	"github.com/usermgmt/accounts-api/internal/core/ports"
	"github.com/usermgmt/accounts-api/internal/core/security"
	"github.com/usermgmt/accounts-api/internal/core/service"
	"github.com/usermgmt/accounts-api/internal/infrastructure/config"
	mongostore "github.com/usermgmt/accounts-api/internal/infrastructure/db/mongo"
	mysqlstore "github.com/usermgmt/accounts-api/internal/infrastructure/db/mysql"
	redisstore "github.com/usermgmt/accounts-api/internal/infrastructure/db/redis"
	"github.com/usermgmt/accounts-api/internal/infrastructure/queue"
	"github.com/usermgmt/accounts-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title Accounts API
// @version 1.0
// @description User management with separate user and admin principals, JWT bearer auth and role-gated endpoints.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{Service: "accounts-api"})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "accounts-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Credential stores ---
	usersDB, err := mysqlstore.Connect(ctx, mysqlstore.Config{DSN: cfg.Database.UsersDSN, MaxOpenConns: cfg.Database.MaxOpen})
	if err != nil {
		return err
	}
	defer mysqlstore.Close(usersDB)

	adminsDB, err := mysqlstore.Connect(ctx, mysqlstore.Config{DSN: cfg.Database.AdminsDSN, MaxOpenConns: cfg.Database.MaxOpen})
	if err != nil {
		return err
	}
	defer mysqlstore.Close(adminsDB)

	if err := mysqlstore.MigrateUsers(usersDB); err != nil {
		return err
	}
	if err := mysqlstore.MigrateAdmins(adminsDB); err != nil {
		return err
	}

	// --- Audit trail ---
	mongoClient, mongoDB, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer mongostore.Disconnect(mongoClient, 5*time.Second)
	if err := mongostore.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Warn().Err(err).Msg("audit index creation failed")
	}

	auditCtx, stopAudit := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, mongostore.NewAuditRepository(mongoDB), log)
	dispatcher.Start(auditCtx)
	defer func() {
		stopAudit()
		dispatcher.Wait()
	}()

	// --- Login throttle ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	throttle := redisstore.NewLoginThrottle(rdb, cfg.Login.MaxFailures, cfg.Login.LockoutWindow())

	// --- Core ---
	tokens, err := security.NewTokenService(cfg.JWT.Secret, cfg.JWT.Algorithm, cfg.JWT.TokenLifetime())
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	store := ports.CredentialStore{
		Users:  mysqlstore.NewUserRepository(usersDB),
		Admins: mysqlstore.NewAdminRepository(adminsDB),
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     service.NewAuthService(store, hasher, tokens, throttle, dispatcher, log),
		Accounts: service.NewAccountService(store, hasher, dispatcher, log),
		Verifier: tokens,
		HealthChecks: map[string]handler.HealthCheck{
			"users_db":  gormCheck(usersDB),
			"admins_db": gormCheck(adminsDB),
			"mongodb":   func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":     func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts api listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func gormCheck(db *gorm.DB) handler.HealthCheck {
	return func(ctx context.Context) error {
		return mysqlstore.Ping(ctx, db)
	}
}
