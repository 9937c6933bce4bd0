// Command api runs the user administration HTTP service.
//
// @title                       User Administration API
// @version                     1.0
// @description                 Account CRUD, role assignment and access control for administrators.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/securelog/admin-api/internal/api"
	"github.com/securelog/admin-api/internal/api/handler"
	"github.com/securelog/admin-api/internal/core/ports"
	"github.com/securelog/admin-api/internal/core/service"
	"github.com/securelog/admin-api/internal/infrastructure/config"
	"github.com/securelog/admin-api/internal/infrastructure/db/memory"
	"github.com/securelog/admin-api/internal/infrastructure/db/mongo"
	"github.com/securelog/admin-api/internal/infrastructure/db/redis"
	"github.com/securelog/admin-api/internal/infrastructure/security"
	"github.com/securelog/admin-api/pkg/logger"
)

const serviceName = "user-admin-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{ServiceName: serviceName})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:       cfg.LogLevel,
		Pretty:      cfg.IsDevelopment(),
		FilePath:    cfg.LogFile,
		ServiceName: serviceName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error")
	}
}

type stores struct {
	accounts ports.AccountRepository
	roles    ports.RoleRepository
	checks   map[string]handler.Checker
	closers  []func(context.Context) error
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		for _, c := range st.closers {
			if err := c(closeCtx); err != nil {
				log.Warn().Err(err).Msg("failed to close store connection")
			}
		}
	}()

	encoder := security.NewBcryptEncoder(cfg.BcryptCost)

	if cfg.Seed.Enabled {
		if cfg.UsesDefaultSeedPasswords() && !cfg.IsDevelopment() {
			log.Warn().Str("env", cfg.Env).Msg("seeding default accounts with passwords equal to their usernames; set SEED_USER_PASSWORD and SEED_ADMIN_PASSWORD")
		}
		seeder := service.NewSeeder(st.accounts, st.roles, encoder, log)
		seeds := service.DefaultSeedAccounts(cfg.Seed.UserPassword, cfg.Seed.AdminPassword)
		if err := seeder.Seed(ctx, seeds); err != nil {
			return err
		}
	}

	accountService := service.NewAccountService(st.accounts, st.roles, encoder, log)
	authService := service.NewAuthService(st.accounts, encoder, cfg.JWTSecret, cfg.JWTTTL, log)

	e := api.NewRouter(api.RouterDeps{
		Accounts:     accountService,
		Auth:         authService,
		Logger:       log,
		HealthChecks: st.checks,
		Registerer:   prometheus.DefaultRegisterer,
		Gatherer:     prometheus.DefaultGatherer,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("http server listening")
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{checks: map[string]handler.Checker{}}

	switch cfg.StoreDriver {
	case config.StoreMemory:
		st.accounts = memory.NewAccountRepository()
		st.roles = memory.NewRoleRepository()
		log.Warn().Msg("using in-memory store; data is lost on restart")

	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
		st.checks["mongodb"] = handler.MongoChecker(db)

		accounts := mongo.NewAccountRepository(db)
		roles := mongo.NewRoleRepository(db)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		if err := roles.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		st.accounts = accounts
		st.roles = roles
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
	}

	if cfg.Redis.Enabled {
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, closeRedis(rdb))
		st.checks["redis"] = handler.RedisChecker(rdb)
		st.roles = redis.NewRoleCache(rdb, st.roles, cfg.Redis.RoleTTL, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("role cache enabled")
	}

	return st, nil
}

func closeRedis(rdb *goredis.Client) func(context.Context) error {
	return func(context.Context) error { return rdb.Close() }
}
