// Package catalog holds the named chart variants shown on the dashboards.
// Every chart is the same parameterized Component; only the configuration
// it builds differs.
package catalog

import (
	"fmt"

	"github.com/user/riskboard-go/internal/models"
	"github.com/user/riskboard-go/internal/sample"
)

// Dataset is the sample data one render of a page draws from.
type Dataset struct {
	Gen      *sample.Generator
	Security SecurityFigures
}

// NewDataset draws a fresh set of figures from gen.
func NewDataset(gen *sample.Generator) Dataset {
	return Dataset{Gen: gen, Security: NewSecurityFigures(gen)}
}

// BuildFunc produces the configuration of a component for one render.
type BuildFunc func(ds Dataset) models.ChartConfiguration

// Component binds a name to a configuration builder.
type Component struct {
	Name  string
	Title string
	Kind  models.Kind
	Build BuildFunc
}

// Config builds the component's configuration for ds.
func (c Component) Config(ds Dataset) models.ChartConfiguration {
	cfg := c.Build(ds)
	if cfg.Title == "" {
		cfg.Title = c.Title
	}
	return cfg
}

// Names of the built-in components.
const (
	Bar             = "bar"
	Line            = "line"
	Pie             = "pie"
	RadarChart      = "radar"
	Scatter         = "scatter"
	RiskOverview    = "risk-overview"
	Services        = "services"
	Vulnerabilities = "vulnerabilities"
)

var components = []Component{
	{Name: Bar, Title: "Quarterly Sales", Kind: models.KindBar, Build: func(Dataset) models.ChartConfiguration { return BarConfig() }},
	{Name: Line, Title: "Revenue & Profit", Kind: models.KindLine, Build: func(Dataset) models.ChartConfiguration { return LineConfig() }},
	{Name: Pie, Title: "Sales Distribution", Kind: models.KindPie, Build: func(Dataset) models.ChartConfiguration { return PieConfig() }},
	{Name: RadarChart, Title: "Budget Allocation", Kind: models.KindRadar, Build: func(Dataset) models.ChartConfiguration { return RadarConfig() }},
	{Name: Scatter, Title: "Revenue vs Profit", Kind: models.KindScatter, Build: func(Dataset) models.ChartConfiguration { return ScatterConfig() }},
	{Name: RiskOverview, Title: "Risk Overview", Kind: models.KindLine, Build: RiskOverviewConfig},
	{Name: Services, Title: "Exposed Services", Kind: models.KindBar, Build: ServicesConfig},
	{Name: Vulnerabilities, Title: "Vulnerability Assessment", Kind: models.KindRadar, Build: VulnerabilityConfig},
}

// All returns every registered component.
func All() []Component {
	return append([]Component(nil), components...)
}

// Lookup returns the component registered under name.
func Lookup(name string) (Component, error) {
	for _, c := range components {
		if c.Name == name {
			return c, nil
		}
	}
	return Component{}, fmt.Errorf("unknown chart %q", name)
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) Component {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// dark returns the shared dashboard chrome for a chart kind.
func dark(kind models.Kind) models.ChartConfiguration {
	return models.ChartConfiguration{
		Kind:       kind,
		Background: models.DarkBackground,
		Legend:     models.Legend{Show: true, TextColor: models.LightText},
		XAxis:      models.Axis{LabelColor: models.LightText},
		YAxis:      models.Axis{Type: models.AxisValue, LabelColor: models.LightText},
	}
}
