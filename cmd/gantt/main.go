package main

import (
	"context"
	"fmt"
	"os"

	"shiftgantt/internal/config"
	"shiftgantt/internal/logging"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultDataFile is rendered when no data file is given.
const DefaultDataFile = "sample.json"

// skipConfig marks commands that must run without loading the config file.
const skipConfig = "skip-config"

// cli holds global flags and the resolved configuration for one invocation.
type cli struct {
	// Global flags
	verbose    bool
	configPath string
	output     string
	title      string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	rootCmd := &cobra.Command{
		Use:   "gantt [data-file]",
		Short: "Render shift schedules as Gantt charts",
		Long: `gantt draws a horizontal bar chart from a JSON list of named shifts.

Each shift is a bar from its start to its end time on a 12-hour AM/PM axis.
Shifts that end at or before their start run past midnight.

Run without a subcommand to save the chart image and then show it in the
terminal. The data file defaults to sample.json.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return app.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logging.Sync()
		},
		RunE: app.runDefault,
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&app.output, "output", "o", "", "Image output path, .png or .svg (default from config)")
	rootCmd.PersistentFlags().StringVar(&app.title, "title", "", "Chart title (default from config)")

	rootCmd.AddCommand(
		app.saveCmd(),
		app.showCmd(),
		app.ticksCmd(),
		app.summaryCmd(),
		app.watchCmd(),
		app.configCmd(),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and starts logging.
func (a *cli) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.output != "" {
		cfg.Output.Path = a.output
	}
	if a.title != "" {
		cfg.Chart.Title = a.title
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	if err := logging.Initialize(cfg.Logging, a.verbose, zap.String("run", uuid.NewString())); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.BootDebug("config resolved from %s", a.configPath)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
