// Package plot renders a gantt.Chart to PNG or SVG with go-chart.
package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"shiftgantt/internal/gantt"
	"shiftgantt/internal/logging"

	"github.com/golang/freetype/truetype"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	barHeight     = 0.5
	labelFontSize = 10.0
	minFontSize   = 7.0
	rowHeightPx   = 60
	minHeightPx   = 240
)

// Options configures image output.
type Options struct {
	Width      int
	Height     int // 0 sizes the image to the number of bars
	DPI        float64
	BarColor   string
	LabelColor string
	// FontFile, when set, is a TrueType font used for all text.
	FontFile string
}

// Renderer draws charts with go-chart. It implements gantt.Saver.
type Renderer struct {
	opts       Options
	font       *truetype.Font
	barColor   drawing.Color
	labelColor drawing.Color
}

// New creates a Renderer, loading the font file if one is configured.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		opts:       opts,
		barColor:   parseColor(opts.BarColor, drawing.ColorFromHex("01388f")),
		labelColor: parseColor(opts.LabelColor, drawing.ColorWhite),
	}
	if opts.FontFile != "" {
		data, err := os.ReadFile(opts.FontFile)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", opts.FontFile, err)
		}
		r.font = f
	}
	return r, nil
}

// ProviderFor picks the go-chart backend from a file extension.
func ProviderFor(path string) (chart.RendererProvider, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return chart.PNG, nil
	case ".svg":
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("unsupported image format %q (valid: .png, .svg)", filepath.Ext(path))
	}
}

// Save writes the chart to path, creating parent directories as needed.
func (r *Renderer) Save(c *gantt.Chart, path string) (err error) {
	provider, err := ProviderFor(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	logging.RenderDebug("rendering %d bars to %s", len(c.Bars), path)
	return r.Render(c, provider, f)
}

// Render draws the chart with the given backend.
func (r *Renderer) Render(c *gantt.Chart, provider chart.RendererProvider, w io.Writer) error {
	gc := r.Chart(c)
	if err := gc.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// Chart converts the gantt geometry into a go-chart definition.
func (r *Renderer) Chart(c *gantt.Chart) chart.Chart {
	xmin, xmax := c.XRange()
	ymin, ymax := c.YRange()

	ticks := make([]chart.Tick, 0, len(c.Ticks)+1)
	grid := make([]chart.GridLine, 0, len(c.Ticks))
	for _, t := range c.Ticks {
		ticks = append(ticks, chart.Tick{Value: float64(t.Value), Label: t.Label})
		grid = append(grid, chart.GridLine{Value: float64(t.Value)})
	}
	// Unlabelled closing tick keeps the right-hand padding inside the axis range.
	ticks = append(ticks, chart.Tick{Value: xmax})

	height := r.opts.Height
	if height == 0 {
		height = max(minHeightPx, 120+rowHeightPx*len(c.Bars))
	}

	longest := 0
	for _, b := range c.Bars {
		longest = max(longest, utf8.RuneCountInString(b.Name))
	}

	return chart.Chart{
		Title:  c.Title,
		Width:  r.opts.Width,
		Height: height,
		DPI:    r.opts.DPI,
		Font:   r.font,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: max(60, longest*8+30), Right: 30, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  c.XLabel,
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
			GridMajorStyle: chart.Style{
				StrokeColor: drawing.ColorFromHex("d0d0d0"),
				StrokeWidth: 1,
			},
			GridLines: grid,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: []chart.Series{
			&barSeries{
				bars:       c.Bars,
				barColor:   r.barColor,
				labelColor: r.labelColor,
			},
		},
	}
}

// barSeries draws one horizontal bar per shift, its centred label, and the
// shift name to the left of the plot area.
type barSeries struct {
	bars       []gantt.Bar
	barColor   drawing.Color
	labelColor drawing.Color
}

func (s *barSeries) GetName() string { return "shifts" }
func (s *barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (s *barSeries) GetStyle() chart.Style { return chart.Style{} }

func (s *barSeries) Validate() error {
	if len(s.bars) == 0 {
		return errors.New("shift series has no bars")
	}
	return nil
}

func (s *barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := s.GetStyle().InheritFrom(defaults)

	for _, b := range s.bars {
		left := canvasBox.Left + xrange.Translate(b.Start)
		right := canvasBox.Left + xrange.Translate(b.End())
		top := canvasBox.Bottom - yrange.Translate(b.Position+barHeight/2)
		bottom := canvasBox.Bottom - yrange.Translate(b.Position-barHeight/2)

		r.SetFillColor(s.barColor)
		r.SetStrokeColor(s.barColor)
		r.SetStrokeWidth(1)
		r.MoveTo(left, top)
		r.LineTo(right, top)
		r.LineTo(right, bottom)
		r.LineTo(left, bottom)
		r.Close()
		r.FillStroke()
		r.ResetStyle()

		cy := (top + bottom) / 2
		if style.Font != nil {
			r.SetFont(style.Font)
		}

		size := labelFontSize
		r.SetFontSize(size)
		box := r.MeasureText(b.Text)
		for box.Width() > right-left-4 && size > minFontSize {
			size--
			r.SetFontSize(size)
			box = r.MeasureText(b.Text)
		}
		r.SetFontColor(s.labelColor)
		r.Text(b.Text, (left+right)/2-box.Width()/2, cy+box.Height()/2)

		r.SetFontSize(labelFontSize)
		r.SetFontColor(drawing.ColorBlack)
		nameBox := r.MeasureText(b.Name)
		r.Text(b.Name, canvasBox.Left-nameBox.Width()-10, cy+nameBox.Height()/2)
	}
}

// parseColor accepts "#rgb", "#rrggbb" or the same without '#'.
func parseColor(hex string, fallback drawing.Color) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return fallback
	}
	return drawing.ColorFromHex(hex)
}
