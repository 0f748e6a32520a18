package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/profiles/internal/profiles/app"
	"github.com/aussiebroadwan/profiles/internal/profiles/service"
	"github.com/aussiebroadwan/profiles/internal/profiles/store"
)

func main() {
	cfg := app.LoadConfig()

	root := &cobra.Command{
		Use:           "profiles",
		Short:         "Identity-linked profile service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}

	root.PersistentFlags().StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Store driver: dynamodb|sqlite|memory (env STORE_DRIVER)")
	root.PersistentFlags().StringVar(&cfg.UsersTable, "table", cfg.UsersTable, "Users table name (env USERS_TABLE)")
	root.PersistentFlags().StringVar(&cfg.DatabaseFile, "db", cfg.DatabaseFile, "SQLite database file (env DATABASE_FILE)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cfg)
		},
	}
	serveCmd.Flags().IntVar(&cfg.Port, "port", cfg.Port, "HTTP port (env PORT)")

	// migrate only needs the table settings
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the users table or apply schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd.Context(), cfg, func(ctx context.Context, t store.Table) error {
				if err := t.ApplyMigrations(ctx); err != nil {
					return fmt.Errorf("migrate failed: %w", err)
				}
				fmt.Printf("table %q ready (%s)\n", cfg.UsersTable, cfg.StoreDriver)
				return nil
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a stored profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd.Context(), cfg, func(ctx context.Context, t store.Table) error {
				svc := &service.ProfileService{Store: store.NewProfileStore(t)}
				err := svc.Delete(ctx, args[0])
				if errors.Is(err, service.ErrProfileNotFound) {
					return fmt.Errorf("no profile for user %q", args[0])
				}
				if err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
				fmt.Printf("deleted %s\n", args[0])
				return nil
			})
		},
	}

	root.AddCommand(serveCmd, migrateCmd, deleteCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serve(cfg app.Config) error {
	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func withTable(ctx context.Context, cfg app.Config, fn func(context.Context, store.Table) error) error {
	if cfg.UsersTable == "" {
		return errors.New("USERS_TABLE is required (flag --table)")
	}

	app.NewLogger(cfg)

	t, err := app.OpenTable(ctx, cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	return fn(ctx, t)
}
