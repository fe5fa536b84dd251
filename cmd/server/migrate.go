package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ringside/blackjack-api/internal/infrastructure/db/mongo"
	"github.com/ringside/blackjack-api/internal/infrastructure/db/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `migrate creates the users and game_history tables in Postgres and, when
MONGO_URI is set, the round_events indexes in MongoDB.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.migrate(cmd.Context())
		},
	}
}

func (a *app) migrate(ctx context.Context) error {
	db, err := postgres.Connect(ctx, postgres.Config{DSN: a.cfg.Postgres.URL, MaxConns: 1}, a.log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	a.log.Info().Msg("postgres schema migrated")

	if !a.cfg.AuditEnabled() {
		return nil
	}

	client, mdb, err := mongo.Connect(ctx, a.mongoConfig())
	if err != nil {
		return err
	}
	defer func() { _ = mongo.Disconnect(client, a.cfg.ShutdownTimeout) }()

	if err := mongo.NewRoundEventRepository(mdb).EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("mongo indexes: %w", err)
	}
	a.log.Info().Msg("mongo indexes ensured")
	return nil
}

func (a *app) mongoConfig() mongo.Config {
	return mongo.Config{
		URI:         a.cfg.Mongo.URI,
		Database:    a.cfg.Mongo.Database,
		AppName:     serviceName,
		MaxPoolSize: a.cfg.Mongo.PoolSize,
	}
}
