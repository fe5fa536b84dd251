package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/ringside/blackjack-api/internal/api"
	"github.com/ringside/blackjack-api/internal/api/handler"
	"github.com/ringside/blackjack-api/internal/core/service"
	"github.com/ringside/blackjack-api/internal/infrastructure/db/mongo"
	"github.com/ringside/blackjack-api/internal/infrastructure/db/postgres"
	"github.com/ringside/blackjack-api/internal/infrastructure/db/redis"
	"github.com/ringside/blackjack-api/internal/infrastructure/queue"
	"github.com/ringside/blackjack-api/internal/pkg/random"
	"github.com/ringside/blackjack-api/pkg/logger"
)

func newServeCmd(a *app) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if migrate {
				if err := a.migrate(cmd.Context()); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", false, "run schema migrations before serving")

	return cmd
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, log := a.cfg, a.log

	// --- Stores ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL, MaxConns: cfg.Postgres.MaxConns}, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	// --- Audit trail ---
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()

	var (
		sink service.EventSink
		mdb  *mongodriver.Database
	)
	if cfg.AuditEnabled() {
		client, database, err := mongo.Connect(ctx, a.mongoConfig())
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Disconnect(client, cfg.ShutdownTimeout) }()
		mdb = database

		eventRepo := mongo.NewRoundEventRepository(mdb)
		if err := eventRepo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure round_events indexes")
		}
		auditLog := logger.Component(log, "audit")
		dispatcher := queue.NewDispatcher(cfg.Audit.Workers, service.NewRoundEventService(eventRepo, auditLog), auditLog)
		dispatcher.Start(auditCtx)
		defer func() {
			stopAudit()
			dispatcher.Wait()
		}()
		sink = dispatcher
	} else {
		log.Info().Msg("MONGO_URI not set, round audit trail disabled")
	}

	// --- Services ---
	authService := service.NewAuthService(postgres.NewUserRepository(db), cfg.JWTSecret, cfg.TokenTTL, logger.Component(log, "auth"))
	roundService := service.NewRoundService(random.New(), sink, logger.Component(log, "rounds"))
	historyService := service.NewHistoryService(
		postgres.NewGameRepository(db),
		redis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL),
		logger.Component(log, "history"),
	)

	e := api.NewRouter(api.RouterConfig{
		Log:            log,
		JWTSecret:      cfg.JWTSecret,
		CORSOrigins:    cfg.CORSOrigins,
		AuthService:    authService,
		RoundService:   roundService,
		HistoryService: historyService,
		Readiness:      handler.NewHealthDependenciesHandler(db, rdb, mdb),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
