package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"pocketbook-server/src/api"
	"pocketbook-server/src/config"
	"pocketbook-server/src/db"
	"pocketbook-server/src/db/postgres"
	"pocketbook-server/src/db/sqlite"
	"pocketbook-server/src/handlers"
	"pocketbook-server/src/notify"
	"pocketbook-server/src/seed"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type migratingStore interface {
	db.Store
	Migrate(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config.Config) (migratingStore, error) {
	switch cfg.DatabaseDriver {
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath)
	default:
		return postgres.Connect(ctx, cfg.DatabaseURL)
	}
}

// connect opens the configured store and brings its schema up to date.
func connect(ctx context.Context, cfg config.Config) (migratingStore, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("DB connection failed: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func serve(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}

	cache, err := db.NewCache()
	if err != nil {
		store.Close()
		return err
	}
	cachedStore := db.NewCachedStore(store, cache)
	defer cachedStore.Close()

	publisher, err := notify.New(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	router := api.NewRouter(cachedStore, publisher, api.Options{
		Auth: handlers.AuthConfig{
			JWTSecret:  cfg.JWTSecret,
			TokenTTL:   cfg.TokenTTL,
			BcryptCost: cfg.BcryptCost,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Println("API server running on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("INFO: Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func migrate(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	ctx := context.Background()
	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	log.Printf("INFO: Schema up to date (%s)", cfg.DatabaseDriver)
	return nil
}

func runSeed(v *viper.Viper, reset bool) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	ctx := context.Background()
	store, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := seed.Run(ctx, store, seed.Options{Reset: reset})
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("INFO: Seeded %d users, %d accounts, %d transactions, %d budgets, %d goals, %d bills",
		summary.Users, summary.Accounts, summary.Transactions, summary.Budgets, summary.Goals, summary.Bills)
	return nil
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "pocketbook-server",
		Short:         "Personal finance API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("db-driver", "", "database driver: postgres or sqlite")
	root.PersistentFlags().String("database-url", "", "postgres connection string")
	root.PersistentFlags().String("sqlite-path", "", "sqlite database file")
	bindFlag(v, "DATABASE_DRIVER", root.PersistentFlags().Lookup("db-driver"))
	bindFlag(v, "DATABASE_URL", root.PersistentFlags().Lookup("database-url"))
	bindFlag(v, "SQLITE_PATH", root.PersistentFlags().Lookup("sqlite-path"))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(v)
		},
	}
	serveCmd.Flags().String("port", "", "port to listen on")
	serveCmd.Flags().Bool("demo", false, "reject writes other than login, register and logout")
	bindFlag(v, "PORT", serveCmd.Flags().Lookup("port"))
	bindFlag(v, "DEMO_MODE", serveCmd.Flags().Lookup("demo"))

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(v)
		},
	}

	var reset bool
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with demo users and data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(v, reset)
		},
	}
	seedCmd.Flags().BoolVar(&reset, "reset", false, "delete all existing data first")

	root.AddCommand(serveCmd, migrateCmd, seedCmd)
	return root
}

// bindFlag lets an explicitly set flag override the environment. Unset flags
// fall through to the env value or default.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		log.Fatalf("failed to bind flag %s: %v", key, err)
	}
}

func main() {
	v := config.New()
	if err := newRootCommand(v).Execute(); err != nil {
		log.Fatal(err)
	}
}
