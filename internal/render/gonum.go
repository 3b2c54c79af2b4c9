package render

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/user/riskboard-go/internal/models"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// GonumName identifies the gonum/plot engine.
const GonumName = "gonum"

// pngDPI is the resolution vgimg uses for PNG output.
const pngDPI = 96

// GonumPainter draws charts with gonum.org/v1/plot.
type GonumPainter struct{}

// NewGonumPainter returns the default painter.
func NewGonumPainter() *GonumPainter { return &GonumPainter{} }

// Name implements Painter.
func (g *GonumPainter) Name() string { return GonumName }

// Paint implements Painter.
func (g *GonumPainter) Paint(cfg models.ChartConfiguration, width, height int) (models.Frame, error) {
	p := plot.New()
	applyGonumTheme(p, cfg)

	var err error
	switch cfg.Kind {
	case models.KindBar:
		err = gonumBar(p, cfg, width)
	case models.KindLine:
		err = gonumLine(p, cfg)
	case models.KindPie:
		err = gonumPie(p, cfg)
	case models.KindRadar:
		err = gonumRadar(p, cfg)
	case models.KindScatter:
		err = gonumScatter(p, cfg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedKind, cfg.Kind)
	}
	if err != nil {
		return models.Frame{}, err
	}

	data, err := plotPNG(p, width, height)
	if err != nil {
		return models.Frame{}, err
	}
	return models.Frame{Format: "png", Width: width, Height: height, Data: data}, nil
}

func plotPNG(p *plot.Plot, width, height int) ([]byte, error) {
	w := vg.Length(width) * vg.Inch / pngDPI
	h := vg.Length(height) * vg.Inch / pngDPI
	writer, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create plot writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write plot to buffer: %w", err)
	}
	return buf.Bytes(), nil
}

func applyGonumTheme(p *plot.Plot, cfg models.ChartConfiguration) {
	bg := rgba(background(cfg))
	xText := rgba(textColor(cfg.XAxis.LabelColor))
	yText := rgba(textColor(cfg.YAxis.LabelColor))
	legendText := rgba(textColor(cfg.Legend.TextColor))

	p.BackgroundColor = bg
	p.Title.Text = cfg.Title
	p.Title.TextStyle.Color = legendText

	p.X.Label.Text = cfg.XAxis.Name
	p.X.Label.TextStyle.Color = xText
	p.X.Color = xText
	p.X.LineStyle.Color = xText
	p.X.Tick.Label.Color = xText
	p.X.Tick.LineStyle.Color = xText
	if cfg.XAxis.LabelRotate != 0 {
		p.X.Tick.Label.Rotation = cfg.XAxis.LabelRotate * math.Pi / 180
		p.X.Tick.Label.XAlign = draw.XRight
		p.X.Tick.Label.YAlign = draw.YCenter
	}

	p.Y.Label.Text = cfg.YAxis.Name
	p.Y.Label.TextStyle.Color = yText
	p.Y.Color = yText
	p.Y.LineStyle.Color = yText
	p.Y.Tick.Label.Color = yText
	p.Y.Tick.LineStyle.Color = yText

	p.Legend.TextStyle.Color = legendText
	p.Legend.Top = true
	if cfg.Legend.Position == "left" {
		p.Legend.Left = true
	}
}

func gonumBar(p *plot.Plot, cfg models.ChartConfiguration, width int) error {
	n := len(cfg.Series)
	cats := len(cfg.XAxis.Categories)
	if cats == 0 && n > 0 {
		cats = len(cfg.Series[0].Values)
	}
	if n == 0 || cats == 0 {
		return ErrNoData
	}
	// Pixel width of one bar, converted to points.
	barPx := float64(width) / float64(cats+1) * 0.7 / float64(n)
	barWidth := vg.Points(barPx * 72 / pngDPI)

	for i, s := range cfg.Series {
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), barWidth)
		if err != nil {
			return fmt.Errorf("failed to create bar series %q: %w", s.Name, err)
		}
		bars.Color = rgba(seriesColor(s, i))
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * barWidth
		p.Add(bars)
		if cfg.Legend.Show {
			p.Legend.Add(s.Name, bars)
		}
	}
	if len(cfg.XAxis.Categories) > 0 {
		p.NominalX(cfg.XAxis.Categories...)
	}
	addGrid(p)
	return nil
}

func gonumLine(p *plot.Plot, cfg models.ChartConfiguration) error {
	drawn := 0
	for i, s := range cfg.Series {
		if len(s.Values) == 0 {
			continue
		}
		xs, ys := smooth(s.Values, 1)
		if s.Smooth {
			xs, ys = smooth(s.Values, 12)
		}
		pts := make(plotter.XYs, len(xs))
		for j := range xs {
			pts[j] = plotter.XY{X: xs[j], Y: ys[j]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to create line series %q: %w", s.Name, err)
		}
		line.Color = rgba(seriesColor(s, i))
		line.Width = vg.Points(2)
		p.Add(line)
		if cfg.Legend.Show {
			p.Legend.Add(s.Name, line)
		}
		drawn++
	}
	if drawn == 0 {
		return ErrNoData
	}
	if len(cfg.XAxis.Categories) > 0 {
		p.NominalX(cfg.XAxis.Categories...)
	}
	addGrid(p)
	return nil
}

func gonumPie(p *plot.Plot, cfg models.ChartConfiguration) error {
	if len(cfg.Series) == 0 {
		return ErrNoData
	}
	s := cfg.Series[0]
	total := sumSlices(s.Slices)
	if total <= 0 {
		return ErrNoData
	}
	const radius = 0.7
	p.HideAxes()
	p.X.Min, p.X.Max = -1.3, 1.3
	p.Y.Min, p.Y.Max = -1.1, 1.1

	var label plotter.XYLabels
	start := math.Pi / 2
	for i, sl := range s.Slices {
		if sl.Value <= 0 {
			continue
		}
		sweep := sl.Value / total * 2 * math.Pi
		wedge := plotter.XYs{{X: 0, Y: 0}}
		steps := int(math.Max(2, sweep/(math.Pi/90)))
		for k := 0; k <= steps; k++ {
			a := start - sweep*float64(k)/float64(steps)
			wedge = append(wedge, plotter.XY{X: radius * math.Cos(a), Y: radius * math.Sin(a)})
		}
		poly, err := plotter.NewPolygon(wedge)
		if err != nil {
			return fmt.Errorf("failed to create pie slice %q: %w", sl.Name, err)
		}
		poly.Color = rgba(sliceColor(sl, i))
		poly.LineStyle.Color = rgba(background(cfg))
		p.Add(poly)
		if cfg.Legend.Show {
			p.Legend.Add(sl.Name, poly)
		}

		mid := start - sweep/2
		label.XYs = append(label.XYs, plotter.XY{X: 0.85 * math.Cos(mid), Y: 0.85 * math.Sin(mid)})
		label.Labels = append(label.Labels, models.FormatTooltip(cfg.Tooltip.Format, s.Name, sl.Name, sl.Value, total))
		start -= sweep
	}
	return addLabels(p, label, textColor(cfg.Legend.TextColor))
}

func gonumRadar(p *plot.Plot, cfg models.ChartConfiguration) error {
	if cfg.Radar == nil || len(cfg.Radar.Indicators) < 3 {
		return ErrNoData
	}
	ind := cfg.Radar.Indicators
	n := len(ind)
	angle := func(i int) float64 { return math.Pi/2 - 2*math.Pi*float64(i)/float64(n) }

	p.HideAxes()
	p.X.Min, p.X.Max = -1.4, 1.4
	p.Y.Min, p.Y.Max = -1.25, 1.25

	split := rgba(parseColor(cfg.Radar.SplitLineColor, parseColor(models.RadarSplitColor, textColor(""))))
	for ring := 1; ring <= 5; ring++ {
		r := float64(ring) / 5
		pts := make(plotter.XYs, 0, n+1)
		for i := 0; i <= n; i++ {
			pts = append(pts, plotter.XY{X: r * math.Cos(angle(i%n)), Y: r * math.Sin(angle(i%n))})
		}
		web, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("failed to create radar ring: %w", err)
		}
		web.Color = split
		p.Add(web)
	}

	var names plotter.XYLabels
	for i, in := range ind {
		spoke, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: math.Cos(angle(i)), Y: math.Sin(angle(i))}})
		if err != nil {
			return fmt.Errorf("failed to create radar spoke: %w", err)
		}
		spoke.Color = split
		p.Add(spoke)
		names.XYs = append(names.XYs, plotter.XY{X: 1.15 * math.Cos(angle(i)), Y: 1.1 * math.Sin(angle(i))})
		names.Labels = append(names.Labels, in.Name)
	}

	for si, s := range cfg.Series {
		pts := make(plotter.XYs, 0, n)
		for i, v := range s.Values {
			if i >= n {
				break
			}
			r := 0.0
			if ind[i].Max > 0 {
				r = math.Min(v/ind[i].Max, 1)
			}
			pts = append(pts, plotter.XY{X: r * math.Cos(angle(i)), Y: r * math.Sin(angle(i))})
		}
		area, err := plotter.NewPolygon(pts)
		if err != nil {
			return fmt.Errorf("failed to create radar series %q: %w", s.Name, err)
		}
		c := seriesColor(s, si)
		area.Color = rgba(withOpacity(c, s.AreaOpacity))
		area.LineStyle.Color = rgba(c)
		area.LineStyle.Width = vg.Points(1.5)
		p.Add(area)
		if cfg.Legend.Show {
			p.Legend.Add(s.Name, area)
		}
	}
	return addLabels(p, names, textColor(cfg.Radar.NameColor))
}

func gonumScatter(p *plot.Plot, cfg models.ChartConfiguration) error {
	drawn := 0
	for si, s := range cfg.Series {
		if len(s.Points) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Points))
		minY, maxY := math.Inf(1), math.Inf(-1)
		for i, pt := range s.Points {
			pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
			minY = math.Min(minY, pt.Y)
			maxY = math.Max(maxY, pt.Y)
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("failed to create scatter series %q: %w", s.Name, err)
		}
		base := seriesColor(s, si)
		series := s
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			pt := series.Points[i]
			t := 0.0
			if maxY > minY {
				// Gradient offset 0 is the top of the plot.
				t = 1 - (pt.Y-minY)/(maxY-minY)
			}
			return draw.GlyphStyle{
				Color:  rgba(gradientAt(series.Gradient, t, base)),
				Radius: vg.Points(symbolSize(series, pt) / 2 * 72 / pngDPI),
				Shape:  draw.CircleGlyph{},
			}
		}
		p.Add(sc)
		if cfg.Legend.Show && s.Name != "" {
			p.Legend.Add(s.Name, sc)
		}
		drawn++
	}
	if drawn == 0 {
		return ErrNoData
	}
	addGrid(p)
	return nil
}

func addGrid(p *plot.Plot) {
	grid := plotter.NewGrid()
	grid.Vertical.Color = rgba(parseColor(models.RadarSplitColor, textColor("")))
	grid.Horizontal.Color = grid.Vertical.Color
	p.Add(grid)
}

func addLabels(p *plot.Plot, l plotter.XYLabels, c color.Color) error {
	if len(l.Labels) == 0 {
		return nil
	}
	labels, err := plotter.NewLabels(l)
	if err != nil {
		return fmt.Errorf("failed to create labels: %w", err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Color = c
		labels.TextStyle[i].XAlign = draw.XCenter
	}
	p.Add(labels)
	return nil
}
