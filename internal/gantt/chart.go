// Package gantt builds chart geometry from a shift list and hands it to the
// renderers that draw, save or display it.
package gantt

import (
	"fmt"

	"shiftgantt/internal/config"
	"shiftgantt/internal/logging"
	"shiftgantt/internal/shift"
	"shiftgantt/internal/timemodel"
)

const (
	// DefaultTitle is used when Options.Title is empty.
	DefaultTitle = config.DefaultTitle
	// DefaultXLabel is used when Options.XLabel is empty.
	DefaultXLabel = config.DefaultXLabel
)

// Bar is one shift placed on the chart.
type Bar struct {
	// Row counts from the top, starting at 1, in load order.
	Row int
	// Position is the numeric y coordinate: the first shift has the largest
	// value (n) and the last has 1.
	Position float64
	Name     string
	Start    float64
	Duration float64
	Wraps    bool
	// Text is the label drawn on the bar: "name | start ~ end".
	Text   string
	Legend string
	Shift  shift.Shift
}

// End returns the bar's right edge on the axis. It exceeds 24 for
// overnight shifts.
func (b Bar) End() float64 { return b.Start + b.Duration }

// Tick is one labelled position on the time axis.
type Tick struct {
	Value int
	Label string
}

// Chart is the derived, render-ready view of a shift list.
type Chart struct {
	Title  string
	XLabel string
	Bars   []Bar
	Ticks  []Tick
	// AxisMin is the left bound of the axis and AxisSpan the number of ticks.
	AxisMin  int
	AxisSpan int
}

// Options controls the non-geometric parts of a chart.
type Options struct {
	Title  string
	XLabel string
}

// Build validates shifts and derives bar geometry and axis ticks. Nothing is
// returned for a list that fails validation.
func Build(shifts []shift.Shift, opts Options) (*Chart, error) {
	if err := shift.Validate(shifts); err != nil {
		return nil, err
	}

	starts, ends := shift.Starts(shifts), shift.Ends(shifts)
	lower, err := timemodel.MinTime(starts)
	if err != nil {
		return nil, fmt.Errorf("axis minimum: %w", err)
	}
	span, err := timemodel.MaxTime(starts, ends)
	if err != nil {
		return nil, fmt.Errorf("axis span: %w", err)
	}

	c := &Chart{
		Title:    opts.Title,
		XLabel:   opts.XLabel,
		AxisMin:  lower,
		AxisSpan: span,
		Bars:     make([]Bar, 0, len(shifts)),
	}
	if c.Title == "" {
		c.Title = DefaultTitle
	}
	if c.XLabel == "" {
		c.XLabel = DefaultXLabel
	}

	n := len(shifts)
	for i, s := range shifts {
		start, end, err := s.Hours()
		if err != nil {
			return nil, err
		}
		c.Bars = append(c.Bars, Bar{
			Row:      i + 1,
			Position: float64(n - i),
			Name:     s.Name,
			Start:    start,
			Duration: timemodel.Duration(start, end),
			Wraps:    timemodel.Wraps(start, end),
			Text:     s.Name + " | " + s.Start + " ~ " + s.End,
			Legend:   s.Legend,
			Shift:    s,
		})
	}

	for _, t := range timemodel.Ticks(lower, span) {
		c.Ticks = append(c.Ticks, Tick{Value: t, Label: timemodel.TickLabel(t)})
	}

	logging.ChartDebug("built chart: %d bars, axis %d..%d, %d ticks", n, lower, lower+span, len(c.Ticks))
	return c, nil
}

// XRange returns the padded horizontal extent of the axis.
func (c *Chart) XRange() (min, max float64) {
	return float64(c.AxisMin), float64(c.AxisMin + c.AxisSpan)
}

// YRange returns the vertical extent, leaving half a row above and below.
func (c *Chart) YRange() (min, max float64) {
	return 0.5, float64(len(c.Bars)) + 0.5
}

// Names returns the shift names in row order.
func (c *Chart) Names() []string {
	out := make([]string, len(c.Bars))
	for i, b := range c.Bars {
		out[i] = b.Name
	}
	return out
}

// Starts returns the numeric start of every bar in row order.
func (c *Chart) Starts() []float64 {
	out := make([]float64, len(c.Bars))
	for i, b := range c.Bars {
		out[i] = b.Start
	}
	return out
}

// Durations returns the width in hours of every bar in row order.
func (c *Chart) Durations() []float64 {
	out := make([]float64, len(c.Bars))
	for i, b := range c.Bars {
		out[i] = b.Duration
	}
	return out
}
