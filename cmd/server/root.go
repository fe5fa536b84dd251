package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ringside/blackjack-api/internal/pkg/config"
	"github.com/ringside/blackjack-api/pkg/logger"
)

const serviceName = "blackjack-api"

// app holds what every subcommand needs once the root command has run.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "blackjack-api",
		Short: "Blackjack game API server",
		Long: `blackjack-api serves user accounts, the blackjack round engine and the
per-player game history over HTTP.

Configuration is read from the environment, optionally seeded from a .env
file in the working directory.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: serviceName,
			})
			return nil
		},
		SilenceUsage: true,
	}

	serveCmd := newServeCmd(a)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newMigrateCmd(a))

	// Running the binary without a subcommand serves.
	rootCmd.RunE = serveCmd.RunE
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	return rootCmd
}
