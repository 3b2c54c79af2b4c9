package models

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrInvalidConfiguration is returned by Validate for structurally broken configurations.
var ErrInvalidConfiguration = errors.New("invalid chart configuration")

// Kind discriminates the visual encoding of a chart.
type Kind string

const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindPie     Kind = "pie"
	KindRadar   Kind = "radar"
	KindScatter Kind = "scatter"
)

// Kinds lists every supported chart kind.
func Kinds() []Kind {
	return []Kind{KindBar, KindLine, KindPie, KindRadar, KindScatter}
}

// AxisType is either a category axis (named buckets) or a value axis.
type AxisType string

const (
	AxisCategory AxisType = "category"
	AxisValue    AxisType = "value"
)

// Theme colors used by every dashboard chart.
const (
	DarkBackground  = "#1a1a1a"
	LightText       = "#fff"
	RadarSplitColor = "#333"
)

// ChartConfiguration is the declarative description of a chart's data and appearance.
// Treat it as an immutable value: build a new one (or Clone) when the data changes.
type ChartConfiguration struct {
	Kind       Kind     `json:"kind" yaml:"kind"`
	Title      string   `json:"title,omitempty" yaml:"title,omitempty"`
	Background string   `json:"background,omitempty" yaml:"background,omitempty"`
	Tooltip    Tooltip  `json:"tooltip" yaml:"tooltip"`
	Legend     Legend   `json:"legend" yaml:"legend"`
	XAxis      Axis     `json:"x_axis" yaml:"x_axis"`
	YAxis      Axis     `json:"y_axis" yaml:"y_axis"`
	Radar      *Radar   `json:"radar,omitempty" yaml:"radar,omitempty"`
	Series     []Series `json:"series" yaml:"series"`
}

// Tooltip describes hover presentation. Format uses {a} series, {b} name,
// {c} value and {d} percent; scatter points use {x} and {y} instead.
type Tooltip struct {
	Show    bool   `json:"show" yaml:"show"`
	Trigger string `json:"trigger,omitempty" yaml:"trigger,omitempty"` // "axis" or "item"
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Legend describes legend placement.
type Legend struct {
	Show      bool     `json:"show" yaml:"show"`
	Orient    string   `json:"orient,omitempty" yaml:"orient,omitempty"` // "horizontal" or "vertical"
	Position  string   `json:"position,omitempty" yaml:"position,omitempty"`
	TextColor string   `json:"text_color,omitempty" yaml:"text_color,omitempty"`
	Data      []string `json:"data,omitempty" yaml:"data,omitempty"`
}

// Axis describes one cartesian axis.
type Axis struct {
	Type        AxisType `json:"type,omitempty" yaml:"type,omitempty"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	LabelRotate float64  `json:"label_rotate,omitempty" yaml:"label_rotate,omitempty"`
	LabelColor  string   `json:"label_color,omitempty" yaml:"label_color,omitempty"`
}

// Radar holds the indicator web of a radar chart.
type Radar struct {
	Indicators     []Indicator `json:"indicators" yaml:"indicators"`
	NameColor      string      `json:"name_color,omitempty" yaml:"name_color,omitempty"`
	SplitLineColor string      `json:"split_line_color,omitempty" yaml:"split_line_color,omitempty"`
}

// Indicator is one spoke of a radar chart.
type Indicator struct {
	Name string  `json:"name" yaml:"name"`
	Max  float64 `json:"max" yaml:"max"`
}

// Series is one data series. Which data field is used depends on the chart kind:
// Values for bar, line and radar, Points for scatter, Slices for pie.
type Series struct {
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	Color       string      `json:"color,omitempty" yaml:"color,omitempty"`
	Gradient    []ColorStop `json:"gradient,omitempty" yaml:"gradient,omitempty"`
	Smooth      bool        `json:"smooth,omitempty" yaml:"smooth,omitempty"`
	AreaOpacity float64     `json:"area_opacity,omitempty" yaml:"area_opacity,omitempty"`
	SymbolScale float64     `json:"symbol_scale,omitempty" yaml:"symbol_scale,omitempty"`
	Values      []float64   `json:"values,omitempty" yaml:"values,omitempty"`
	Points      []Point     `json:"points,omitempty" yaml:"points,omitempty"`
	Slices      []Slice     `json:"slices,omitempty" yaml:"slices,omitempty"`
}

// Point is an XY pair for scatter series.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Slice is one named wedge of a pie series.
type Slice struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// ColorStop is one stop of a vertical gradient, Offset in [0,1] from top to bottom.
type ColorStop struct {
	Offset float64 `json:"offset" yaml:"offset"`
	Color  string  `json:"color" yaml:"color"`
}

// Equal reports whether two configurations describe the same chart.
func (c ChartConfiguration) Equal(other ChartConfiguration) bool {
	return reflect.DeepEqual(c, other)
}

// Clone returns a deep copy that shares no slices with c.
func (c ChartConfiguration) Clone() ChartConfiguration {
	out := c
	out.Legend.Data = append([]string(nil), c.Legend.Data...)
	out.XAxis.Categories = append([]string(nil), c.XAxis.Categories...)
	out.YAxis.Categories = append([]string(nil), c.YAxis.Categories...)
	if c.Radar != nil {
		r := *c.Radar
		r.Indicators = append([]Indicator(nil), c.Radar.Indicators...)
		out.Radar = &r
	}
	if c.Series != nil {
		out.Series = make([]Series, len(c.Series))
		for i, s := range c.Series {
			s.Gradient = append([]ColorStop(nil), s.Gradient...)
			s.Values = append([]float64(nil), s.Values...)
			s.Points = append([]Point(nil), s.Points...)
			s.Slices = append([]Slice(nil), s.Slices...)
			out.Series[i] = s
		}
	}
	return out
}

// Validate checks that the series data matches the chart kind.
func (c ChartConfiguration) Validate() error {
	switch c.Kind {
	case KindBar, KindLine:
		n := len(c.XAxis.Categories)
		for _, s := range c.Series {
			if n > 0 && len(s.Values) != n {
				return fmt.Errorf("%w: series %q has %d values for %d categories", ErrInvalidConfiguration, s.Name, len(s.Values), n)
			}
		}
	case KindPie:
		for _, s := range c.Series {
			for _, sl := range s.Slices {
				if sl.Value < 0 {
					return fmt.Errorf("%w: pie slice %q is negative", ErrInvalidConfiguration, sl.Name)
				}
			}
		}
	case KindRadar:
		if c.Radar == nil || len(c.Radar.Indicators) < 3 {
			return fmt.Errorf("%w: radar chart needs at least 3 indicators", ErrInvalidConfiguration)
		}
		for _, s := range c.Series {
			if len(s.Values) != len(c.Radar.Indicators) {
				return fmt.Errorf("%w: radar series %q has %d values for %d indicators", ErrInvalidConfiguration, s.Name, len(s.Values), len(c.Radar.Indicators))
			}
		}
	case KindScatter:
	default:
		return fmt.Errorf("%w: unknown kind %q (valid: %v)", ErrInvalidConfiguration, c.Kind, Kinds())
	}
	if len(c.Series) == 0 {
		return fmt.Errorf("%w: no series", ErrInvalidConfiguration)
	}
	return nil
}

// SeriesNames returns the names of all series, in order.
func (c ChartConfiguration) SeriesNames() []string {
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		names = append(names, s.Name)
	}
	return names
}

// FormatTooltip expands a tooltip template for one data item.
// total is the sum of the series, used for the {d} percentage.
func FormatTooltip(format, series, name string, value, total float64) string {
	if format == "" {
		format = "{b}: {c}"
	}
	pct := 0.0
	if total > 0 {
		pct = value / total * 100
	}
	r := strings.NewReplacer(
		"{a}", series,
		"{b}", name,
		"{c}", trimFloat(value),
		"{d}", fmt.Sprintf("%.2f", pct),
	)
	return r.Replace(format)
}

// FormatPointTooltip expands a tooltip template for one scatter point.
func FormatPointTooltip(format, series string, p Point) string {
	if format == "" {
		format = "{x}, {y}"
	}
	r := strings.NewReplacer(
		"{a}", series,
		"{x}", trimFloat(p.X),
		"{y}", trimFloat(p.Y),
	)
	return r.Replace(format)
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
