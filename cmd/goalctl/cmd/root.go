package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalpace/internal/app"
	"github.com/templui/goalpace/internal/config"
	"github.com/templui/goalpace/internal/logger"
	"github.com/templui/goalpace/internal/model"
)

// NewRootCmd assembles every subcommand. main and tests share it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "goalctl",
		Short:        "Operate a Goalpace database from the command line",
		SilenceUsage: true,
	}

	root.AddCommand(MigrateCmd())
	root.AddCommand(GoalsCmd())
	root.AddCommand(StatsCmd())
	root.AddCommand(VerifyCmd())
	return root
}

func loadConfig() *config.Config {
	cfg := config.Load()
	// keep stdout for command output
	logger.Init(logger.Options{Development: cfg.IsDevelopment(), Level: "warn", File: cfg.LogFile})
	return cfg
}

func openApp(ctx context.Context) (*app.App, error) {
	return app.New(ctx, loadConfig())
}

// withUser opens the app and resolves the --user email before calling fn.
func withUser(cmd *cobra.Command, email string, fn func(a *app.App, user *model.User) error) error {
	if email == "" {
		return fmt.Errorf("--user is required")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := a.AuthService.UserByEmail(email)
	if err != nil {
		return fmt.Errorf("user %s: %w", email, err)
	}

	return fn(a, user)
}
