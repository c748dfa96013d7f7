package gantt

import (
	"context"
	"fmt"

	"shiftgantt/internal/logging"
	"shiftgantt/internal/shift"
)

// Saver writes a chart to an image file.
type Saver interface {
	Save(c *Chart, path string) error
}

// Displayer shows a chart to the user, interactively or as static output.
type Displayer interface {
	Display(ctx context.Context, c *Chart) error
}

// Pipeline loads a data file, builds the chart and passes it to the
// configured renderers. A nil Saver or empty OutputPath skips saving; a nil
// Displayer skips display.
type Pipeline struct {
	Options    Options
	Saver      Saver
	OutputPath string
	Displayer  Displayer
}

// Build loads and builds the chart without rendering it.
func (p *Pipeline) Build(dataPath string) (*Chart, error) {
	logging.Load("loading shifts from %s", dataPath)
	shifts, err := shift.LoadFile(dataPath)
	if err != nil {
		return nil, err
	}
	logging.LoadDebug("loaded %d shifts", len(shifts))

	c, err := Build(shifts, p.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataPath, err)
	}
	return c, nil
}

// Run builds the chart, saves it, then displays it. The first error aborts
// the run.
func (p *Pipeline) Run(ctx context.Context, dataPath string) (*Chart, error) {
	c, err := p.Build(dataPath)
	if err != nil {
		return nil, err
	}

	if p.Saver != nil && p.OutputPath != "" {
		if err := p.Saver.Save(c, p.OutputPath); err != nil {
			return c, fmt.Errorf("save chart: %w", err)
		}
		logging.Render("saved chart to %s", p.OutputPath)
	}

	if p.Displayer != nil {
		if err := ctx.Err(); err != nil {
			return c, err
		}
		if err := p.Displayer.Display(ctx, c); err != nil {
			return c, fmt.Errorf("display chart: %w", err)
		}
	}
	return c, nil
}
