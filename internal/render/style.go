package render

import (
	"image/color"
	"math"
	"strings"

	"github.com/user/riskboard-go/internal/models"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// palette is used for series without an explicit color.
var palette = []string{"#FF6B6B", "#4ECDC4", "#FF9F43", "#00F5D4", "#FF0099", "#5B8FF9"}

// parseColor accepts "#rgb" and "#rrggbb". Empty strings yield fallback.
func parseColor(hex string, fallback drawing.Color) drawing.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return fallback
	}
	return drawing.ColorFromHex(hex)
}

func seriesColor(s models.Series, i int) drawing.Color {
	fallback := drawing.ColorFromHex(strings.TrimPrefix(palette[i%len(palette)], "#"))
	if s.Color == "" && len(s.Gradient) > 0 {
		return parseColor(s.Gradient[0].Color, fallback)
	}
	return parseColor(s.Color, fallback)
}

func sliceColor(sl models.Slice, i int) drawing.Color {
	return parseColor(sl.Color, drawing.ColorFromHex(strings.TrimPrefix(palette[i%len(palette)], "#")))
}

func background(cfg models.ChartConfiguration) drawing.Color {
	return parseColor(cfg.Background, parseColor(models.DarkBackground, drawing.ColorBlack))
}

func textColor(hex string) drawing.Color {
	return parseColor(hex, drawing.ColorWhite)
}

// rgba converts to a non-premultiplied color for gonum/plot.
func rgba(c drawing.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// withOpacity scales the alpha channel; opacity outside (0,1] leaves c unchanged.
func withOpacity(c drawing.Color, opacity float64) drawing.Color {
	if opacity <= 0 || opacity > 1 {
		return c
	}
	return c.WithAlpha(uint8(math.Round(opacity * 255)))
}

// gradientAt interpolates stops at t in [0,1].
func gradientAt(stops []models.ColorStop, t float64, fallback drawing.Color) drawing.Color {
	if len(stops) == 0 {
		return fallback
	}
	t = math.Max(0, math.Min(1, t))
	prev := stops[0]
	if t <= prev.Offset {
		return parseColor(prev.Color, fallback)
	}
	for _, next := range stops[1:] {
		if t <= next.Offset {
			span := next.Offset - prev.Offset
			f := 0.0
			if span > 0 {
				f = (t - prev.Offset) / span
			}
			a := parseColor(prev.Color, fallback)
			b := parseColor(next.Color, fallback)
			return drawing.Color{
				R: lerp8(a.R, b.R, f),
				G: lerp8(a.G, b.G, f),
				B: lerp8(a.B, b.B, f),
				A: lerp8(a.A, b.A, f),
			}
		}
		prev = next
	}
	return parseColor(prev.Color, fallback)
}

func lerp8(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

// smooth returns a Catmull-Rom interpolation of ys sampled steps times per
// segment, as x/y pairs with x in index units.
func smooth(ys []float64, steps int) (xs, out []float64) {
	if len(ys) < 3 || steps < 2 {
		for i, y := range ys {
			xs = append(xs, float64(i))
			out = append(out, y)
		}
		return xs, out
	}
	at := func(i int) float64 {
		if i < 0 {
			return ys[0]
		}
		if i >= len(ys) {
			return ys[len(ys)-1]
		}
		return ys[i]
	}
	for i := 0; i < len(ys)-1; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		for s := 0; s < steps; s++ {
			t := float64(s) / float64(steps)
			t2, t3 := t*t, t*t*t
			y := 0.5 * ((2 * p1) + (-p0+p2)*t + (2*p0-5*p1+4*p2-p3)*t2 + (-p0+3*p1-3*p2+p3)*t3)
			xs = append(xs, float64(i)+t)
			out = append(out, y)
		}
	}
	xs = append(xs, float64(len(ys)-1))
	out = append(out, ys[len(ys)-1])
	return xs, out
}

// symbolSize is the scatter glyph diameter in pixels for a point.
func symbolSize(s models.Series, p models.Point) float64 {
	scale := s.SymbolScale
	if scale <= 0 {
		return 8
	}
	return math.Sqrt(math.Max(p.X, 0)) * scale
}

func sumSlices(slices []models.Slice) float64 {
	total := 0.0
	for _, sl := range slices {
		total += sl.Value
	}
	return total
}
