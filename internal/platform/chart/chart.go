// Package chart renders time-series line charts into mount points.
//
// A widget is rendered once when it is constructed, the same way a browser
// chart draws itself into its element. Rows of data are [x, y1, ..., yn] and
// nil cells are gaps.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	// DefaultWidth and DefaultHeight are the rendered size in pixels.
	DefaultWidth  = 1024
	DefaultHeight = 400

	dotWidth = 3.0
)

var (
	// ErrNoMountPoint is returned when a widget is constructed without a mount point.
	ErrNoMountPoint = errors.New("chart: no mount point")

	// ErrLabelMismatch is returned when a data row is not as wide as the labels.
	ErrLabelMismatch = errors.New("chart: labels do not match data width")
)

// Mount is the element a widget renders into.
type Mount interface {
	ID() string
	Open() (io.WriteCloser, error)
}

// Options configures a widget.
type Options struct {
	Title  string
	Labels []string
	// ConnectSeparatedPoints draws lines across nil cells instead of breaking them.
	ConnectSeparatedPoints bool
	// DrawPoints marks every data point with a dot.
	DrawPoints bool
	Width      int
	Height     int
}

// Widget is a line chart bound to a mount point.
type Widget struct {
	mount Mount
	graph gochart.Chart
}

// New builds a line chart from data and renders it into mount.
func New(mount Mount, data [][]*float64, opts Options) (*Widget, error) {
	if mount == nil {
		return nil, ErrNoMountPoint
	}
	series, err := buildSeries(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", mount.ID(), err)
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	w := &Widget{
		mount: mount,
		graph: gochart.Chart{
			Title:      opts.Title,
			Width:      width,
			Height:     height,
			Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
			XAxis:      gochart.XAxis{Name: xLabel(opts.Labels)},
			Series:     series,
		},
	}
	fixDegenerateRanges(&w.graph)

	// Continuation segments have no name and stay out of the legend.
	if named := namedSeries(series); len(named) > 0 {
		legend := w.graph
		legend.Series = named
		w.graph.Elements = []gochart.Renderable{gochart.Legend(&legend)}
	}

	if err := w.Render(); err != nil {
		return nil, err
	}
	return w, nil
}

// MountID returns the id of the element the widget is bound to.
func (w *Widget) MountID() string {
	return w.mount.ID()
}

// Render draws the chart as PNG into the mount point.
// The mount is only opened once the image has been rendered completely.
func (w *Widget) Render() error {
	var buf bytes.Buffer
	if err := w.graph.Render(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("render %s: %w", w.mount.ID(), err)
	}

	out, err := w.mount.Open()
	if err != nil {
		return fmt.Errorf("open mount %s: %w", w.mount.ID(), err)
	}
	if _, err := buf.WriteTo(out); err != nil {
		_ = out.Close()
		return fmt.Errorf("write mount %s: %w", w.mount.ID(), err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close mount %s: %w", w.mount.ID(), err)
	}
	return nil
}

func xLabel(labels []string) string {
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// buildSeries converts rows into one line per y column.
// Without ConnectSeparatedPoints a column is split into several segments at its gaps.
func buildSeries(data [][]*float64, opts Options) ([]gochart.Series, error) {
	width := len(opts.Labels)
	for i, row := range data {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d values for %d labels: %w", i, len(row), width, ErrLabelMismatch)
		}
	}

	var out []gochart.Series
	for col := 1; col < width; col++ {
		style := gochart.Style{
			StrokeColor: gochart.GetDefaultColor(col - 1),
			DotColor:    gochart.GetDefaultColor(col - 1),
		}
		if opts.DrawPoints {
			style.DotWidth = dotWidth
		}

		seg := gochart.ContinuousSeries{Name: opts.Labels[col], Style: style}
		flush := func() {
			if len(seg.XValues) == 0 {
				return
			}
			out = append(out, seg)
			seg = gochart.ContinuousSeries{Style: style}
		}
		for _, row := range data {
			x, y := row[0], row[col]
			if x == nil {
				continue
			}
			if y == nil {
				if !opts.ConnectSeparatedPoints {
					flush()
				}
				continue
			}
			seg.XValues = append(seg.XValues, *x)
			seg.YValues = append(seg.YValues, *y)
		}
		flush()
	}
	return out, nil
}

// namedSeries returns the series that appear in the legend.
func namedSeries(series []gochart.Series) []gochart.Series {
	var out []gochart.Series
	for _, s := range series {
		if s.GetName() != "" {
			out = append(out, s)
		}
	}
	return out
}

// fixDegenerateRanges sets explicit axis ranges when the data spans no width
// on an axis (a single sample, constant values) or has no points at all, so
// such charts still render.
func fixDegenerateRanges(c *gochart.Chart) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		cs, ok := s.(gochart.ContinuousSeries)
		if !ok {
			continue
		}
		for i := range cs.XValues {
			minX, maxX = math.Min(minX, cs.XValues[i]), math.Max(maxX, cs.XValues[i])
			minY, maxY = math.Min(minY, cs.YValues[i]), math.Max(maxY, cs.YValues[i])
		}
	}

	if len(c.Series) == 0 {
		// go-chart needs a series; a hidden one keeps the axes and title.
		c.Series = []gochart.Series{gochart.ContinuousSeries{
			Style:   gochart.Style{Hidden: true},
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
		}}
		c.XAxis.Range = &gochart.ContinuousRange{Min: 0, Max: 1}
		c.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: 1}
		return
	}
	if minX == maxX {
		c.XAxis.Range = &gochart.ContinuousRange{Min: minX - 0.5, Max: maxX + 0.5}
	}
	if minY == maxY {
		pad := math.Max(math.Abs(minY)*0.1, 0.5)
		c.YAxis.Range = &gochart.ContinuousRange{Min: minY - pad, Max: maxY + pad}
	}
}
