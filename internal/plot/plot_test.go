package plot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shiftgantt/internal/gantt"
	"shiftgantt/internal/shift"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func testChart(t *testing.T) *gantt.Chart {
	t.Helper()
	c, err := gantt.Build([]shift.Shift{
		{Name: "Shift A", Start: "8:00", End: "16:00"},
		{Name: "Shift B", Start: "16:00", End: "0:00"},
		{Name: "Night", Start: "22:00", End: "6:00"},
	}, gantt.Options{})
	require.NoError(t, err)
	return c
}

func testRenderer(t *testing.T, height int) *Renderer {
	t.Helper()
	r, err := New(Options{Width: 800, Height: height, DPI: 96, BarColor: "#01388f", LabelColor: "#fff"})
	require.NoError(t, err)
	return r
}

func TestRender_PNG(t *testing.T) {
	r := testRenderer(t, 0)
	var buf bytes.Buffer
	require.NoError(t, r.Render(testChart(t), chart.PNG, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 120+rowHeightPx*3, img.Bounds().Dy())
}

func TestRender_PNGFixedHeight(t *testing.T) {
	r := testRenderer(t, 400)
	var buf bytes.Buffer
	require.NoError(t, r.Render(testChart(t), chart.PNG, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestRender_SVG(t *testing.T) {
	r := testRenderer(t, 0)
	var buf bytes.Buffer
	require.NoError(t, r.Render(testChart(t), chart.SVG, &buf))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"), "expected a closed svg document")
	assert.Contains(t, out, "Gantt Chart For Shifts")
	assert.Contains(t, out, "Shift B")
	assert.Contains(t, out, "7A")
	assert.Contains(t, out, "12A")
}

func TestChart_Geometry(t *testing.T) {
	r := testRenderer(t, 0)
	c := testChart(t)
	gc := r.Chart(c)

	// 7A..6A next day, plus the unlabelled closing tick
	require.Len(t, gc.XAxis.Ticks, len(c.Ticks)+1)
	first, last := gc.XAxis.Ticks[0], gc.XAxis.Ticks[len(gc.XAxis.Ticks)-1]
	assert.Equal(t, 7.0, first.Value)
	assert.Equal(t, "7A", first.Label)
	_, xmax := c.XRange()
	assert.Equal(t, xmax, last.Value)
	assert.Empty(t, last.Label)

	assert.Equal(t, "time(Day)", gc.XAxis.Name)
	assert.True(t, gc.YAxis.Style.Hidden)
	assert.Equal(t, 0.5, gc.YAxis.Range.GetMin())
	assert.Equal(t, 3.5, gc.YAxis.Range.GetMax())
	require.Len(t, gc.Series, 1)
	assert.NoError(t, gc.Series[0].Validate())
}

func TestSave(t *testing.T) {
	r := testRenderer(t, 0)
	c := testChart(t)
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "img", "GANTT.png")
	require.NoError(t, r.Save(c, pngPath))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)

	svgPath := filepath.Join(dir, "out.svg")
	require.NoError(t, r.Save(c, svgPath))
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")

	err = r.Save(c, filepath.Join(dir, "chart.gif"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
	_, statErr := os.Stat(filepath.Join(dir, "chart.gif"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written for an unsupported format")
}

func TestNew_FontErrors(t *testing.T) {
	_, err := New(Options{FontFile: filepath.Join(t.TempDir(), "missing.ttf")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read font")

	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	require.NoError(t, os.WriteFile(bogus, []byte("not a font"), 0644))
	_, err = New(Options{FontFile: bogus})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse font")
}

func TestParseColor(t *testing.T) {
	fallback := drawing.ColorRed
	assert.Equal(t, drawing.ColorFromHex("01388f"), parseColor("#01388f", fallback))
	assert.Equal(t, drawing.ColorFromHex("ffffff"), parseColor("fff", fallback))
	assert.Equal(t, fallback, parseColor("", fallback))
	assert.Equal(t, fallback, parseColor("#12345", fallback))
}
