package render

import (
	"bytes"
	"fmt"

	"github.com/user/riskboard-go/internal/models"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// GoChartName identifies the go-chart engine.
const GoChartName = "gochart"

// GoChartPainter draws charts with github.com/wcharczuk/go-chart/v2.
// Radar charts are not supported.
type GoChartPainter struct{}

// NewGoChartPainter returns a go-chart painter.
func NewGoChartPainter() *GoChartPainter { return &GoChartPainter{} }

// Name implements Painter.
func (g *GoChartPainter) Name() string { return GoChartName }

// Paint implements Painter.
func (g *GoChartPainter) Paint(cfg models.ChartConfiguration, width, height int) (models.Frame, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch cfg.Kind {
	case models.KindBar:
		err = goChartBar(&buf, cfg, width, height)
	case models.KindLine:
		err = goChartLine(&buf, cfg, width, height)
	case models.KindPie:
		err = goChartPie(&buf, cfg, width, height)
	case models.KindScatter:
		err = goChartScatter(&buf, cfg, width, height)
	default:
		err = fmt.Errorf("%w: %s on %s", ErrUnsupportedKind, cfg.Kind, GoChartName)
	}
	if err != nil {
		return models.Frame{}, err
	}
	return models.Frame{Format: "png", Width: width, Height: height, Data: buf.Bytes()}, nil
}

func canvasStyle(cfg models.ChartConfiguration) chart.Style {
	return chart.Style{FillColor: background(cfg)}
}

func axisStyle(a models.Axis) chart.Style {
	return chart.Style{
		FontColor:           textColor(a.LabelColor),
		StrokeColor:         textColor(a.LabelColor),
		TextRotationDegrees: a.LabelRotate,
	}
}

func categoryTicks(cats []string) []chart.Tick {
	ticks := make([]chart.Tick, 0, len(cats))
	for i, c := range cats {
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: c})
	}
	return ticks
}

// goChartBar flattens grouped series into one bar per category and series,
// since go-chart's BarChart draws a single series.
func goChartBar(buf *bytes.Buffer, cfg models.ChartConfiguration, width, height int) error {
	var bars []chart.Value
	cats := cfg.XAxis.Categories
	for ci := 0; ; ci++ {
		added := false
		for si, s := range cfg.Series {
			if ci >= len(s.Values) {
				continue
			}
			label := s.Name
			if ci < len(cats) {
				label = cats[ci]
				if len(cfg.Series) > 1 {
					label = cats[ci] + " " + s.Name
				}
			}
			c := seriesColor(s, si)
			bars = append(bars, chart.Value{
				Value: s.Values[ci],
				Label: label,
				Style: chart.Style{FillColor: c, StrokeColor: c},
			})
			added = true
		}
		if !added {
			break
		}
	}
	if len(bars) == 0 {
		return ErrNoData
	}
	// Leave room for the y axis and keep every bar inside the canvas.
	unit := (width - 100) / len(bars)
	if unit < 5 {
		unit = 5
	}
	barWidth := unit * 6 / 10
	spacing := unit - barWidth
	bc := chart.BarChart{
		Title:      cfg.Title,
		TitleStyle: chart.Style{FontColor: textColor(cfg.Legend.TextColor)},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: canvasStyle(cfg),
		Canvas:     canvasStyle(cfg),
		XAxis:      axisStyle(cfg.XAxis),
		YAxis:      chart.YAxis{Style: axisStyle(cfg.YAxis)},
		Bars:       bars,
	}
	if err := bc.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

func goChartLine(buf *bytes.Buffer, cfg models.ChartConfiguration, width, height int) error {
	var series []chart.Series
	for i, s := range cfg.Series {
		if len(s.Values) == 0 {
			continue
		}
		steps := 1
		if s.Smooth {
			steps = 12
		}
		xs, ys := smooth(s.Values, steps)
		if len(xs) == 1 {
			// go-chart needs two points to establish a range.
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		c := seriesColor(s, i)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}
	xa := chart.XAxis{Name: cfg.XAxis.Name, NameStyle: axisStyle(cfg.XAxis), Style: axisStyle(cfg.XAxis)}
	if n := len(cfg.XAxis.Categories); n > 0 {
		xa.Ticks = categoryTicks(cfg.XAxis.Categories)
		xa.Range = &chart.ContinuousRange{Min: 0, Max: float64(n - 1)}
	}
	return renderXY(buf, cfg, width, height, xa, series)
}

func goChartScatter(buf *bytes.Buffer, cfg models.ChartConfiguration, width, height int) error {
	var series []chart.Series
	for si, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i], ys[i] = p.X, p.Y
		}
		base := seriesColor(s, si)
		src := s
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: drawing.ColorTransparent,
				DotWidthProvider: func(_, _ chart.Range, index int, _, _ float64) float64 {
					return symbolSize(src, src.Points[index]) / 2
				},
				DotColorProvider: func(_, yr chart.Range, _ int, _, y float64) drawing.Color {
					t := 0.0
					if yr.GetDelta() > 0 {
						t = 1 - (y-yr.GetMin())/yr.GetDelta()
					}
					return gradientAt(src.Gradient, t, base)
				},
			},
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}
	xa := chart.XAxis{Name: cfg.XAxis.Name, NameStyle: axisStyle(cfg.XAxis), Style: axisStyle(cfg.XAxis)}
	return renderXY(buf, cfg, width, height, xa, series)
}

func renderXY(buf *bytes.Buffer, cfg models.ChartConfiguration, width, height int, xa chart.XAxis, series []chart.Series) error {
	ch := chart.Chart{
		Title:      cfg.Title,
		TitleStyle: chart.Style{FontColor: textColor(cfg.Legend.TextColor)},
		Width:      width,
		Height:     height,
		Background: chart.Style{FillColor: background(cfg), Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 12}},
		Canvas:     canvasStyle(cfg),
		XAxis:      xa,
		YAxis:      chart.YAxis{Name: cfg.YAxis.Name, NameStyle: axisStyle(cfg.YAxis), Style: axisStyle(cfg.YAxis)},
		Series:     series,
	}
	if cfg.Legend.Show {
		ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{
			FillColor: background(cfg),
			FontColor: textColor(cfg.Legend.TextColor),
		})}
	}
	if err := ch.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", cfg.Kind, err)
	}
	return nil
}

func goChartPie(buf *bytes.Buffer, cfg models.ChartConfiguration, width, height int) error {
	if len(cfg.Series) == 0 {
		return ErrNoData
	}
	s := cfg.Series[0]
	total := sumSlices(s.Slices)
	if total <= 0 {
		return ErrNoData
	}
	values := make([]chart.Value, 0, len(s.Slices))
	for i, sl := range s.Slices {
		if sl.Value <= 0 {
			continue
		}
		c := sliceColor(sl, i)
		values = append(values, chart.Value{
			Value: sl.Value,
			Label: models.FormatTooltip(cfg.Tooltip.Format, s.Name, sl.Name, sl.Value, total),
			Style: chart.Style{FillColor: c, StrokeColor: background(cfg), FontColor: textColor(cfg.Legend.TextColor)},
		})
	}
	pc := chart.PieChart{
		Title:      cfg.Title,
		TitleStyle: chart.Style{FontColor: textColor(cfg.Legend.TextColor)},
		Width:      width,
		Height:     height,
		Background: canvasStyle(cfg),
		Canvas:     canvasStyle(cfg),
		Values:     values,
	}
	if err := pc.Render(chart.PNG, buf); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}
