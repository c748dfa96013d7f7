package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"shiftgantt/internal/config"
	"shiftgantt/internal/gantt"
	"shiftgantt/internal/logging"
	"shiftgantt/internal/plot"
	"shiftgantt/internal/ui"
	"shiftgantt/internal/watch"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func dataFile(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultDataFile
}

func (a *cli) chartOptions() gantt.Options {
	return gantt.Options{Title: a.cfg.Chart.Title, XLabel: a.cfg.Chart.XLabel}
}

func (a *cli) renderer() (*plot.Renderer, error) {
	return plot.New(plot.Options{
		Width:      a.cfg.Output.Width,
		Height:     a.cfg.Output.Height,
		DPI:        a.cfg.Output.DPI,
		BarColor:   a.cfg.Chart.BarColor,
		LabelColor: a.cfg.Chart.LabelColor,
		FontFile:   a.cfg.Output.FontFile,
	})
}

func (a *cli) styles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(a.cfg.Display.Theme)).
		WithBarColors(a.cfg.Chart.BarColor, a.cfg.Chart.LabelColor)
}

func (a *cli) display(out io.Writer, interactive bool) *ui.Display {
	return &ui.Display{
		Out:         out,
		Styles:      a.styles(),
		Width:       a.cfg.Display.Width,
		Interactive: interactive && a.cfg.Display.Interactive,
	}
}

// runDefault saves the chart image, then shows the chart.
func (a *cli) runDefault(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r, err := a.renderer()
	if err != nil {
		return err
	}
	p := &gantt.Pipeline{
		Options:    a.chartOptions(),
		Saver:      r,
		OutputPath: a.cfg.Output.Path,
		Displayer:  a.display(cmd.OutOrStdout(), true),
	}
	_, err = p.Run(ctx, dataFile(args))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *cli) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <data-file>",
		Short: "Render the chart to an image file",
		Long: `Renders the chart and writes it to the output path. The format follows
the file extension: .png or .svg.

Example:
  gantt save shifts.json -o img/rota.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			p := &gantt.Pipeline{Options: a.chartOptions(), Saver: r, OutputPath: a.cfg.Output.Path}
			if _, err := p.Run(commandContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved chart to %s\n", a.cfg.Output.Path)
			return nil
		},
	}
}

func (a *cli) showCmd() *cobra.Command {
	var static bool
	cmd := &cobra.Command{
		Use:   "show <data-file>",
		Short: "Show the chart in the terminal",
		Long: `Shows the chart in an interactive viewer when stdout is a terminal.
Use --static, or pipe the output, to print it once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p := &gantt.Pipeline{Options: a.chartOptions(), Displayer: a.display(cmd.OutOrStdout(), !static)}
			_, err := p.Run(ctx, args[0])
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&static, "static", false, "Print the chart once instead of starting the viewer")
	return cmd
}

func (a *cli) ticksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ticks <data-file>",
		Short: "Print the time axis ticks and labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &gantt.Pipeline{Options: a.chartOptions()}
			c, err := p.Build(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			xmin, xmax := c.XRange()
			fmt.Fprintf(out, "axis %g..%g, %d ticks\n", xmin, xmax, len(c.Ticks))
			for _, t := range c.Ticks {
				fmt.Fprintf(out, "%d\t%s\n", t.Value, t.Label)
			}
			return nil
		},
	}
}

func (a *cli) summaryCmd() *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "summary <data-file>",
		Short: "Print a table of shifts, times and durations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &gantt.Pipeline{Options: a.chartOptions()}
			c, err := p.Build(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			width := a.cfg.Display.Width
			if width == 0 {
				width = ui.TerminalWidth(out)
			}
			text, err := ui.RenderSummary(c, width, ui.ThemeFor(a.cfg.Display.Theme), plain || !ui.IsTerminal(out))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(out, text)
			return err
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Print raw markdown")
	return cmd
}

func (a *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <data-file>",
		Short: "Re-render the chart image whenever the data file changes",
		Long: `Saves the chart, then watches the data file and saves again after every
change until interrupted. Bad data is reported and the watcher waits for the
next edit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			p := &gantt.Pipeline{Options: a.chartOptions(), Saver: r, OutputPath: a.cfg.Output.Path}
			return a.runWatch(commandContext(cmd), cmd.OutOrStdout(), p, args[0])
		},
	}
}

// runWatch arms the watcher, renders once, then rebuilds on every settled
// change until ctx is cancelled or the process is interrupted. The watcher is
// armed before the first render so no edit after it is missed.
func (a *cli) runWatch(ctx context.Context, out io.Writer, p *gantt.Pipeline, dataPath string) error {
	rebuild := func(ctx context.Context) error {
		if _, err := p.Run(ctx, dataPath); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return err
		}
		fmt.Fprintf(out, "Saved chart to %s\n", p.OutputPath)
		return nil
	}

	w, err := watch.New(dataPath, a.cfg.GetWatchDebounce(), rebuild)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	if err := rebuild(ctx); err != nil {
		logging.Get(logging.CategoryWatch).Warnf("initial render failed: %v", err)
	}
	fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", dataPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-w.Done():
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			logging.Watch("interrupted, stopping watcher")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	return g.Wait()
}

func (a *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:         "init [path]",
		Short:       "Write the default configuration as YAML",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.DefaultConfig().Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
