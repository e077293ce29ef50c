package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/cryptostarter/cryptostarter/cmd/cli/ui"
	"github.com/cryptostarter/cryptostarter/internal/auth"
	"github.com/cryptostarter/cryptostarter/internal/config"
	"github.com/cryptostarter/cryptostarter/internal/database"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/user"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cryptostarter-admin",
		Short:         "Operator tasks for a CryptoStarter deployment",
		Long:          "Runs database migrations and inspects or revokes user sessions, using the same environment as the API server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}

	// user command group
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Inspect user accounts",
	}

	userShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Show an account by email",
		RunE:  runUserShow,
	}
	userShowCmd.Flags().String("email", "", "Account email (exact match)")
	_ = userShowCmd.MarkFlagRequired("email")
	userCmd.AddCommand(userShowCmd)

	// session command group
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Manage login sessions",
	}

	sessionRevokeCmd := &cobra.Command{
		Use:   "revoke",
		Short: "End the active session of an account",
		RunE:  runSessionRevoke,
	}
	sessionRevokeCmd.Flags().String("email", "", "Account email (exact match)")
	_ = sessionRevokeCmd.MarkFlagRequired("email")
	sessionCmd.AddCommand(sessionRevokeCmd)

	rootCmd.AddCommand(migrateCmd, userCmd, sessionCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.PrintError(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sqlDB, err := database.Open(cmd.Context(), cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.Migrate(cmd.Context(), sqlDB); err != nil {
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Migrations applied")
	return nil
}

func runUserShow(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openBun(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	u, err := user.NewRepository(db).FindByEmail(cmd.Context(), email)
	if errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf("no account with email %q", email)
	}
	if err != nil {
		return err
	}

	ui.PrintUser(cmd.OutOrStdout(), u, time.Now())
	return nil
}

func runSessionRevoke(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.NewLogger(cfg.Server.IsDevelopment())

	db, err := openBun(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient, err := database.OpenRedis(cmd.Context(), cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	service := newAuthService(db, redisClient, logger, cfg.Auth.SessionTTL)
	if err := service.Revoke(cmd.Context(), email); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return fmt.Errorf("no account with email %q", email)
		}
		return err
	}

	ui.PrintSuccess(cmd.OutOrStdout(), "Session revoked for "+email)
	return nil
}

func openBun(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	sqlDB, err := database.Open(ctx, cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	return database.NewBunDB(sqlDB), nil
}

func newAuthService(db *bun.DB, rdb *redis.Client, logger *logging.Logger, ttl time.Duration) *auth.Service {
	return auth.NewService(
		user.NewRepository(db),
		auth.NewRedisSessionCache(rdb),
		auth.NewArgon2idHasher(auth.DefaultArgon2Params),
		logger,
		ttl,
	)
}
