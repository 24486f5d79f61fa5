package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suhelali14/SafarWay-sub004/config"
	"github.com/suhelali14/SafarWay-sub004/internal/observability"
	"github.com/suhelali14/SafarWay-sub004/internal/store"
	"github.com/suhelali14/SafarWay-sub004/pkg/database"
)

var (
	envFile     string
	catalogPath string
	cfg         *config.Config
)

// Execute runs the safarway command tree.
func Execute() error {
	root := &cobra.Command{
		Use:           "safarway",
		Short:         "SafarWay travel site and agency dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.Load(files...)
			if err != nil {
				return err
			}
			cfg = loaded
			observability.InitLogger("safarway", cfg.Log.Level, cfg.Log.Format)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default .env)")
	root.AddCommand(serveCmd(), migrateCmd(), createAdminCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}

// openStore connects to the configured database; migrations run on connect.
func openStore(ctx context.Context) (*database.DB, *store.Store, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return db, store.New(db), nil
}
