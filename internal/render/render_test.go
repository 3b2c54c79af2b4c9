package render

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"
	"log/slog"
	"strings"
	"testing"

	"github.com/user/riskboard-go/internal/config"
	"github.com/user/riskboard-go/internal/models"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type testTarget struct {
	id     string
	w, h   int
	frames []models.Frame
}

func (t *testTarget) ID() string { return t.id }
func (t *testTarget) Bounds() (int, int) { return t.w, t.h }
func (t *testTarget) Present(frame models.Frame) { t.frames = append(t.frames, frame) }

type countingPainter struct {
	sizes [][2]int
	err   error
}

func (c *countingPainter) Name() string { return "counting" }

func (c *countingPainter) Paint(cfg models.ChartConfiguration, width, height int) (models.Frame, error) {
	if c.err != nil {
		return models.Frame{}, c.err
	}
	c.sizes = append(c.sizes, [2]int{width, height})
	return models.Frame{Format: "png", Width: width, Height: height, Data: []byte{1}}, nil
}

func sampleConfigs() map[models.Kind]models.ChartConfiguration {
	return map[models.Kind]models.ChartConfiguration{
		models.KindBar: {
			Kind:   models.KindBar,
			Legend: models.Legend{Show: true},
			XAxis:  models.Axis{Type: models.AxisCategory, Categories: []string{"Q1", "Q2", "Q3"}, LabelRotate: 45},
			Series: []models.Series{
				{Name: "2023", Color: "#FF6B6B", Values: []float64{1, 2, 3}},
				{Name: "2024", Color: "#4ECDC4", Values: []float64{2, 3, 4}},
			},
		},
		models.KindLine: {
			Kind:   models.KindLine,
			Legend: models.Legend{Show: true},
			XAxis:  models.Axis{Type: models.AxisCategory, Categories: []string{"Jan", "Feb", "Mar", "Apr"}},
			Series: []models.Series{{Name: "Revenue", Smooth: true, Values: []float64{3, 1, 4, 1}}},
		},
		models.KindPie: {
			Kind:    models.KindPie,
			Tooltip: models.Tooltip{Show: true, Format: "{b}: {c} ({d}%)"},
			Legend:  models.Legend{Show: true, Position: "left"},
			Series: []models.Series{{Name: "Sales", Slices: []models.Slice{
				{Name: "Online", Value: 3, Color: "#FF0099"},
				{Name: "Retail", Value: 1},
			}}},
		},
		models.KindRadar: {
			Kind: models.KindRadar,
			Radar: &models.Radar{Indicators: []models.Indicator{
				{Name: "A", Max: 100}, {Name: "B", Max: 100}, {Name: "C", Max: 100},
			}},
			Series: []models.Series{{Name: "Actual", AreaOpacity: 0.3, Values: []float64{80, 50, 20}}},
		},
		models.KindScatter: {
			Kind: models.KindScatter,
			Series: []models.Series{{
				SymbolScale: 1.5,
				Gradient:    []models.ColorStop{{Offset: 0, Color: "#FF0099"}, {Offset: 1, Color: "#00F5D4"}},
				Points:      []models.Point{{X: 28, Y: 8}, {X: 55, Y: 12}, {X: 91, Y: 28}},
			}},
		},
	}
}

func TestEngine_Lifecycle(t *testing.T) {
	painter := &countingPainter{}
	engine := NewEngine(painter)
	target := &testTarget{id: "t", w: 300, h: 200}
	cfg := sampleConfigs()[models.KindBar]

	h, err := engine.Create(target, cfg)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(target.frames) != 1 {
		t.Fatalf("frames after Create() = %d, want 1", len(target.frames))
	}

	next := cfg.Clone()
	next.Series[0].Values[0] = 10
	if err := engine.SetOptions(h, next); err != nil {
		t.Fatalf("SetOptions() error = %v", err)
	}

	target.w = 500
	if err := engine.Resize(h); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := painter.sizes[len(painter.sizes)-1]; got != [2]int{500, 200} {
		t.Errorf("Resize() painted at %v, want [500 200]", got)
	}

	if err := engine.Dispose(h); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if engine.Live() != 0 {
		t.Errorf("Live() = %d, want 0", engine.Live())
	}
	if err := engine.Dispose(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("second Dispose() error = %v, want ErrUnknownHandle", err)
	}
	if err := engine.Resize(h); !errors.Is(err, ErrUnknownHandle) {
		t.Errorf("Resize() after dispose error = %v, want ErrUnknownHandle", err)
	}
}

func TestEngine_CreateRejectsInvalidConfig(t *testing.T) {
	engine := NewEngine(&countingPainter{})
	_, err := engine.Create(&testTarget{id: "t", w: 1, h: 1}, models.ChartConfiguration{Kind: "donut"})
	if !errors.Is(err, models.ErrInvalidConfiguration) {
		t.Errorf("Create() error = %v, want ErrInvalidConfiguration", err)
	}
	if engine.Live() != 0 {
		t.Errorf("Live() = %d after failed create", engine.Live())
	}
}

func TestEngine_TracesFrames(t *testing.T) {
	var buf bytes.Buffer
	engine := NewEngine(&countingPainter{})
	engine.SetLogger(config.NewLogger(&buf, config.LevelTrace))
	if _, err := engine.Create(&testTarget{id: "bar", w: 300, h: 200}, sampleConfigs()[models.KindBar]); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"level=TRACE", `msg="frame painted"`, "chart=bar", "width=300", "height=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("trace output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	engine.SetLogger(config.NewLogger(&buf, slog.LevelDebug))
	if _, err := engine.Create(&testTarget{id: "bar", w: 300, h: 200}, sampleConfigs()[models.KindBar]); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("frame traced above trace level: %s", buf.String())
	}
}

func TestEngine_PainterFailure(t *testing.T) {
	engine := NewEngine(&countingPainter{err: ErrNoData})
	_, err := engine.Create(&testTarget{id: "t", w: 1, h: 1}, sampleConfigs()[models.KindLine])
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Create() error = %v, want ErrNoData", err)
	}
}

func TestPainters_AllKinds(t *testing.T) {
	painters := []Painter{NewGonumPainter(), NewGoChartPainter()}
	for _, p := range painters {
		for kind, cfg := range sampleConfigs() {
			t.Run(p.Name()+"/"+string(kind), func(t *testing.T) {
				frame, err := p.Paint(cfg, 480, 320)
				if p.Name() == GoChartName && kind == models.KindRadar {
					if !errors.Is(err, ErrUnsupportedKind) {
						t.Fatalf("Paint() error = %v, want ErrUnsupportedKind", err)
					}
					return
				}
				if err != nil {
					t.Fatalf("Paint() error = %v", err)
				}
				img, format, err := image.DecodeConfig(bytes.NewReader(frame.Data))
				if err != nil {
					t.Fatalf("frame is not a decodable image: %v", err)
				}
				if format != "png" {
					t.Errorf("format = %s, want png", format)
				}
				if abs(img.Width-480) > 1 || abs(img.Height-320) > 1 {
					t.Errorf("image size = %dx%d, want about 480x320", img.Width, img.Height)
				}
			})
		}
	}
}

func TestNew(t *testing.T) {
	for _, name := range append(Names(), "") {
		if _, err := New(name); err != nil {
			t.Errorf("New(%q) error = %v", name, err)
		}
	}
	if _, err := New("echarts"); err == nil {
		t.Errorf("New(echarts) expected an error")
	}
}

func TestGradientAt(t *testing.T) {
	stops := []models.ColorStop{{Offset: 0, Color: "#000000"}, {Offset: 1, Color: "#ffffff"}}
	mid := gradientAt(stops, 0.5, drawing.Color{R: 255, A: 255})
	if mid.R < 126 || mid.R > 129 {
		t.Errorf("gradientAt(0.5).R = %d, want about 128", mid.R)
	}
	if c := gradientAt(nil, 0.5, drawing.ColorBlack); c != drawing.ColorBlack {
		t.Errorf("gradientAt(nil) = %v, want fallback", c)
	}
}

func TestSmooth(t *testing.T) {
	xs, ys := smooth([]float64{1, 2, 3}, 4)
	if len(xs) != 9 || len(ys) != 9 {
		t.Fatalf("smooth() returned %d points, want 9", len(xs))
	}
	if ys[0] != 1 || ys[4] != 2 || ys[8] != 3 {
		t.Errorf("smooth() does not pass through the source points: %v", ys)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
