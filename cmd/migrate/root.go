package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var dir string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply artlog document store migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		loadEnvFiles()
		if dir == "" {
			dir = migrationsDir()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default $MIGRATIONS_DIR or db/migrations)")

	rootCmd.AddCommand(newGooseCmd("up", "Apply all pending migrations", goose.Up))
	rootCmd.AddCommand(newGooseCmd("down", "Roll back the latest migration", goose.Down))
	rootCmd.AddCommand(newGooseCmd("status", "Show migration status", goose.Status))
	rootCmd.AddCommand(newCreateCmd())
}

func newGooseCmd(use, short string, run func(db *sql.DB, dir string, opts ...goose.OptionsFunc) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, closeDB, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			if err := run(db, dir); err != nil {
				return fmt.Errorf("%s: %w", use, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: ok\n", use)
			return nil
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
				return fmt.Errorf("create migration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migration created: %s\n", args[0])
			return nil
		},
	}
}

func openDB(ctx context.Context) (*sql.DB, func(), error) {
	pool, err := pgxpool.New(ctx, postgresDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)

	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		pool.Close()
		return nil, nil, err
	}
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}
