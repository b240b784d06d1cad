// Package cli implements the foodgram command line: serving the API,
// migrating the schema and importing the ingredient catalog.
package cli

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/foodgram-backend/internal/config"
	"github.com/tbourn/foodgram-backend/internal/repo"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Version string
}

// NewRootCommand creates the root command for the foodgram CLI.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}

	cmd := &cobra.Command{
		Use:     "foodgram",
		Short:   "Foodgram recipe sharing API",
		Long:    "Recipes with tags and ingredient amounts, favorites, shopping cart and subscriptions.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnv(opts.EnvFile)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading configuration (missing file is ignored)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewLoadIngredientsCommand(opts))

	return cmd
}

// loadEnv loads KEY=VALUE pairs from path without overriding variables that
// are already set.
func loadEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// migrateStore brings the schema up to date; tests swap it to force failures.
var migrateStore = repo.AutoMigrate

// openStore opens the configured database, enables SQL tracing and brings
// the schema up to date. The connection is closed if any step fails.
func openStore(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB.Driver, cfg.DB.Path, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := repo.EnableTracing(db); err != nil {
		closeStore(db)
		return nil, err
	}
	if err := migrateStore(db); err != nil {
		closeStore(db)
		return nil, err
	}
	return db, nil
}

func closeStore(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
