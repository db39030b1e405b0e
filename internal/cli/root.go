// Package cli implements docctl, the admin command line for the document store.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"scopedocs/internal/config"
	"scopedocs/internal/logging"
	"scopedocs/internal/service"
	"scopedocs/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for docctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "docctl",
		Short: "Administer the scoped document store",
		Long: `docctl lists, adds, removes and imports documents filed under a scope.

The store is selected with the same environment variables as the API server
(STORE_DRIVER, SQLITE_PATH, BLOB_BACKEND, BLOB_DIR, DB_*, MINIO_*).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))

	return cmd
}

// session bundles what a command needs to talk to the store.
type session struct {
	engine  *store.Engine
	catalog service.CatalogService
	bridge  service.LibraryBridge
	log     *zap.Logger
}

func (s *session) Close() {
	_ = s.engine.Close()
	_ = s.log.Sync()
}

// openSession opens the store configured through the environment. Logs go to
// stderr so they never mix with command output.
func openSession(ctx context.Context, opts *RootOptions) (*session, error) {
	cfg := config.Load()
	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	log, err := logging.New(config.LogConfig{Level: level, Format: "console"})
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize logger", err)
	}

	engine, err := store.Open(ctx, cfg.Store, log)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open document store", err)
	}
	catalog := service.NewCatalogService(engine, ingestOptions(log)...)
	return &session{
		engine:  engine,
		catalog: catalog,
		bridge:  service.NewLibraryBridge(engine, catalog, log),
		log:     log,
	}, nil
}
