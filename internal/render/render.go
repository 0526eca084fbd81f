// Package render draws a plot response to PNG. It is the renderer side of
// the pipeline: it only consumes samples and the AxisSpec.
package render

import (
	"errors"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	funcplotter "github.com/Zaituny/FuncPlotter"
)

var ErrNothingToDraw = errors.New("render: response has no drawable points")

// Options sizes the image.
type Options struct {
	Width  int
	Height int
}

func lineStyle() chart.Style {
	return chart.Style{
		StrokeWidth: 2,
		StrokeColor: drawing.ColorBlue,
	}
}

// PNG renders resp to w. NaN samples split the curve into separate
// segments so undefined regions show as gaps.
func PNG(w io.Writer, resp funcplotter.Response, opts Options) error {
	if !resp.Drawable() {
		return ErrNothingToDraw
	}
	segments := Segments(resp.X, resp.Y)
	if len(segments) == 0 && !resp.Axes.Clamped {
		return ErrNothingToDraw
	}

	series := make([]chart.Series, 0, len(segments))
	for _, s := range segments {
		series = append(series, chart.ContinuousSeries{
			Name:    resp.Expr.String(),
			XValues: s.X,
			YValues: s.Y,
			Style:   lineStyle(),
		})
	}

	xr, yr := viewport(resp, segments)
	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 16, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: resp.Axes.XLabel, Range: xr},
		YAxis:      chart.YAxis{Name: resp.Axes.YLabel, Range: yr},
		Series:     series,
	}
	if len(series) == 0 {
		// go-chart needs at least one series; an invisible one keeps the
		// clamped viewport.
		ch.Series = []chart.Series{chart.ContinuousSeries{
			XValues: []float64{-funcplotter.AxisClamp, funcplotter.AxisClamp},
			YValues: []float64{0, 0},
			Style:   chart.Style{Hidden: true},
		}}
	}
	return ch.Render(chart.PNG, w)
}

// Segments splits samples at NaN or infinite points. A segment with a
// single point is padded to two so the chart library accepts it.
func Segments(xs, ys []float64) []funcplotter.SampleSet {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	var out []funcplotter.SampleSet
	var cur funcplotter.SampleSet
	flush := func() {
		switch len(cur.X) {
		case 0:
		case 1:
			cur.X = append(cur.X, cur.X[0])
			cur.Y = append(cur.Y, cur.Y[0])
			out = append(out, cur)
		default:
			out = append(out, cur)
		}
		cur = funcplotter.SampleSet{}
	}
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			flush()
			continue
		}
		cur.X = append(cur.X, xs[i])
		cur.Y = append(cur.Y, ys[i])
	}
	flush()
	return out
}

func viewport(resp funcplotter.Response, segments []funcplotter.SampleSet) (x, y *chart.ContinuousRange) {
	if resp.Axes.Clamped {
		lo, hi := resp.Axes.Bounds()
		return &chart.ContinuousRange{Min: lo, Max: hi}, &chart.ContinuousRange{Min: lo, Max: hi}
	}
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range segments {
		for i := range s.X {
			xmin, xmax = math.Min(xmin, s.X[i]), math.Max(xmax, s.X[i])
			ymin, ymax = math.Min(ymin, s.Y[i]), math.Max(ymax, s.Y[i])
		}
	}
	return padded(xmin, xmax), padded(ymin, ymax)
}

// padded widens a degenerate interval; go-chart rejects zero-width ranges.
func padded(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
