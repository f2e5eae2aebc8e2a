// Package cli provides the command-line interface for dto-services.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"dto-services/internal/config"
	"dto-services/internal/logging"
	"dto-services/internal/match"
	"dto-services/internal/report"
	"dto-services/registry"
)

// Version information (set at build time).
var Version = "0.1.0"

type appKey struct{}

// app is what every command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	output string
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile, output string

	rootCmd := &cobra.Command{
		Use:   "dto-services",
		Short: "Inspect and exercise DTO to entity mappings",
		Long: `dto-services checks how DTO types link to entities, which construction
style each entity gets, and runs create/read/update/delete against an
in-memory or sqlite store.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			cmd.SetContext(context.WithValue(cmd.Context(), appKey{}, &app{cfg: cfg, logger: logger, output: output}))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.ConfigFileName+")")
	flags.StringVarP(&output, "output", "o", report.FormatTable, "Output format (table|yaml)")
	flags.String("names", "", "Name matching mode (fold|normalized)")
	flags.StringSlice("key-names", nil, "Key property names, {Entity} is the entity name")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("log-format", "", "Log format (text|json)")
	flags.String("store", "", "Store driver (memory|sqlite)")
	flags.String("dsn", "", "sqlite data source name")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{report.FormatTable, report.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newStylesCommand())
	rootCmd.AddCommand(newMigrateCommand())
	rootCmd.AddCommand(newDemoCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		return err
	}

	return nil
}

func getApp(ctx context.Context) *app {
	if a, ok := ctx.Value(appKey{}).(*app); ok {
		return a
	}

	return &app{cfg: config.Default(), logger: logging.Discard(), output: report.FormatTable}
}

// nameMode never fails on a validated config.
func (a *app) nameMode() match.NameMode {
	m, _ := a.cfg.NameMode()

	return m
}

func (a *app) registry() *registry.Registry {
	return registry.New(
		registry.WithNameMode(a.nameMode()),
		registry.WithKeyNames(a.cfg.Keys.Names...),
		registry.WithLogger(a.logger),
	)
}
