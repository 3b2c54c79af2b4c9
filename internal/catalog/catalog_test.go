package catalog

import (
	"testing"

	"github.com/user/riskboard-go/internal/models"
	"github.com/user/riskboard-go/internal/sample"
)

func TestComponents_BuildValidConfigs(t *testing.T) {
	ds := NewDataset(sample.New(1))
	for _, c := range All() {
		cfg := c.Config(ds)
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s: Validate() error = %v", c.Name, err)
		}
		if cfg.Kind != c.Kind {
			t.Errorf("%s: kind = %s, want %s", c.Name, cfg.Kind, c.Kind)
		}
		if cfg.Title == "" {
			t.Errorf("%s: empty title", c.Name)
		}
	}
}

func TestScatterTooltip(t *testing.T) {
	cfg := ScatterConfig()
	got := models.FormatPointTooltip(cfg.Tooltip.Format, "", cfg.Series[0].Points[0])
	if want := "Revenue: 28K, Profit: 8K"; got != want {
		t.Errorf("scatter tooltip = %q, want %q", got, want)
	}
}

func TestLookup(t *testing.T) {
	c, err := Lookup(Pie)
	if err != nil {
		t.Fatalf("Lookup(pie) error = %v", err)
	}
	if got := c.Config(Dataset{}).Series[0].Slices[0].Value; got != 1048 {
		t.Errorf("first pie slice = %v, want 1048", got)
	}
	if _, err := Lookup("gauge"); err == nil {
		t.Errorf("Lookup(gauge) expected an error")
	}
}

func TestStaticConfigsAreStable(t *testing.T) {
	a := BarConfig()
	b := BarConfig()
	if !a.Equal(b) {
		t.Errorf("BarConfig() differs between calls")
	}
	a.Series[0].Values[0] = 0
	if BarConfig().Series[0].Values[0] != 120 {
		t.Errorf("BarConfig() shares state between calls")
	}
}

func TestSecurityFigures_Consistent(t *testing.T) {
	f := NewSecurityFigures(sample.New(99))
	if n := len(f.RiskHistory); n != 12 {
		t.Fatalf("risk history has %d months, want 12", n)
	}
	if last := f.RiskHistory[len(f.RiskHistory)-1]; int(last) != f.RiskScore {
		t.Errorf("last risk point = %v, want current score %d", last, f.RiskScore)
	}
	sum := 0
	for _, s := range f.Services {
		if s.Exposed > s.Open {
			t.Errorf("%s: exposed %d > open %d", s.Name, s.Exposed, s.Open)
		}
		sum += s.Exposed
	}
	if sum != f.Exposed {
		t.Errorf("Exposed = %d, want sum %d", f.Exposed, sum)
	}
	for i := range f.Findings {
		if f.Remediated[i] > f.Findings[i] {
			t.Errorf("severity %s: remediated > findings", SeverityNames[i])
		}
	}
}

func TestSecurityFigures_Reseed(t *testing.T) {
	a := RiskOverviewConfig(NewDataset(sample.New(5)))
	b := RiskOverviewConfig(NewDataset(sample.New(5)))
	if !a.Equal(b) {
		t.Errorf("same seed produced different risk overview")
	}
}

func TestRiskLevel(t *testing.T) {
	tests := map[int]string{0: "Low", 29: "Low", 30: "Medium", 49: "Medium", 60: "High", 80: "Critical", 100: "Critical"}
	for score, want := range tests {
		if got := RiskLevel(score); got != want {
			t.Errorf("RiskLevel(%d) = %s, want %s", score, got, want)
		}
	}
}
