// Package commands implements the pragatictl command tree.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/pragati/internal/app"
	"github.com/okian/pragati/internal/config"
	"github.com/okian/pragati/pkg/logger"
)

// globalOptions override the loaded configuration.
type globalOptions struct {
	store      string
	sqlitePath string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "pragatictl",
		Short: "Pragati - status update analysis from the command line",
		Long: `pragatictl works directly against the Pragati update store.

It prints tiered ratings and stall signals, seeds synthetic updates,
submits load to a running service and serves the analyses as MCP tools
over stdio. Configuration is read like the service reads it (PRAGATI_*
variables and PRAGATI_CONFIG); flags override it.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// stdout carries command output and the MCP protocol
			if err := logger.SetOutput(cmd.ErrOrStderr()); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.store, "store", "", "store driver: memory or sqlite (default from config)")
	pf.StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite database file (default from config)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newReportCmd(opts),
		newSeedCmd(opts),
		newLoadCmd(),
		newMCPCmd(opts),
	)
	return root
}

// Execute runs the command tree against os.Args.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd(version)
	err := root.ExecuteContext(ctx)
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

// loadConfig reads the configuration and applies the global flags.
func (o *globalOptions) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if o.store != "" {
		cfg.StoreDriver = o.store
	}
	if o.sqlitePath != "" {
		cfg.SQLitePath = o.sqlitePath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openService builds a service over the configured store. The caller must
// call the returned close function.
func (o *globalOptions) openService(ctx context.Context) (*service.Service, *config.Config, func(), error) {
	cfg, err := o.loadConfig(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	svc, cleanup, err := service.NewFromConfig(ctx, cfg, logger.Get().Named("pragatictl"))
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("open service: %w", err)
	}
	return svc, cfg, func() {
		svc.Stop()
		cleanup()
	}, nil
}
