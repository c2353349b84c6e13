// Package cli implements brewctl, the storefront's operator command line.
package cli

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"brewleaf/internal/app"
	"brewleaf/internal/platform/config"
	"brewleaf/internal/platform/logger"
	"brewleaf/internal/platform/postgres"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:           "brewctl",
		Short:         "Operate the Brew & Leaf storefront",
		Long:          "brewctl seeds the catalog, repairs rating aggregates and previews pricing and quiz results against the configured backends.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level to stderr")
	cmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if !verbose {
			cmd.SetContext(withLogger(cmd.Context(), logger.Discard()))
			return
		}
		cmd.SetContext(withLogger(cmd.Context(), logger.NewWithWriter(cmd.ErrOrStderr(), "debug", true)))
	}

	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newRecomputeCmd())
	cmd.AddCommand(newPriceCmd())
	cmd.AddCommand(newQuizCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return logger.Discard()
}

// openApp builds the app against DATABASE_URL when set, otherwise against
// fresh in-memory stores. The returned func releases the database.
func openApp(ctx context.Context) (*app.App, func(), error) {
	cfg := config.FromEnv()
	log := loggerFrom(ctx)

	var backends app.Backends
	closeFn := func() {}
	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		backends.DB = db
		closeFn = func() { _ = db.Close() }
	}

	a, err := app.New(cfg, backends, log, prometheus.NewRegistry())
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return a, closeFn, nil
}
