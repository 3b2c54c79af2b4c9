package catalog

import (
	"github.com/user/riskboard-go/internal/models"
	"github.com/user/riskboard-go/internal/sample"
)

// ServiceNames are the network services tracked by the services chart.
var ServiceNames = []string{"HTTP", "HTTPS", "SSH", "RDP", "SMB", "DNS"}

// SeverityNames are the vulnerability classes of the assessment radar.
var SeverityNames = []string{"Critical", "High", "Medium", "Low", "Info"}

var months = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// ServiceExposure counts open and internet-exposed endpoints of one service.
type ServiceExposure struct {
	Name    string
	Open    int
	Exposed int
}

// SecurityFigures are the sample numbers behind the security page. The
// summary widgets and the charts read the same figures, so they agree.
type SecurityFigures struct {
	RiskScore   int
	RiskHistory []float64
	Services    []ServiceExposure
	Exposed     int
	Coverage    int
	Findings    []float64
	Remediated  []float64
}

// NewSecurityFigures draws a consistent set of security figures.
func NewSecurityFigures(gen *sample.Generator) SecurityFigures {
	f := SecurityFigures{RiskScore: gen.RiskScore()}

	f.RiskHistory = gen.Walk(len(months)-1, float64(f.RiskScore), 12, 0, 100)
	f.RiskHistory = append(f.RiskHistory, float64(f.RiskScore))

	for _, name := range ServiceNames {
		open := gen.Int(0, 40)
		exposed := 0
		if open > 0 {
			exposed = gen.Int(0, open/4)
		}
		f.Services = append(f.Services, ServiceExposure{Name: name, Open: open, Exposed: exposed})
		f.Exposed += exposed
	}
	f.Coverage = gen.Int(0, 100)

	for range SeverityNames {
		found := gen.Int(0, 100)
		f.Findings = append(f.Findings, float64(found))
		f.Remediated = append(f.Remediated, float64(gen.Int(0, found)))
	}
	return f
}

// RiskLevel names the band a 0-100 risk score falls in.
func RiskLevel(score int) string {
	switch {
	case score >= 80:
		return "Critical"
	case score >= 60:
		return "High"
	case score >= 30:
		return "Medium"
	default:
		return "Low"
	}
}

// RiskOverviewConfig plots the risk score over the past year.
func RiskOverviewConfig(ds Dataset) models.ChartConfiguration {
	cfg := dark(models.KindLine)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "axis"}
	cfg.Legend.Data = []string{"Risk Score"}
	cfg.XAxis = models.Axis{Type: models.AxisCategory, Categories: append([]string(nil), months...), LabelColor: models.LightText}
	cfg.YAxis = models.Axis{Type: models.AxisValue, Name: "Score", LabelColor: models.LightText}
	cfg.Series = []models.Series{{
		Name:   "Risk Score",
		Color:  "#FF9F43",
		Smooth: true,
		Values: append([]float64(nil), ds.Security.RiskHistory...),
	}}
	return cfg
}

// ServicesConfig compares open and exposed endpoints per service.
func ServicesConfig(ds Dataset) models.ChartConfiguration {
	cfg := dark(models.KindBar)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "axis"}
	cfg.Legend.Data = []string{"Open", "Exposed"}
	open := make([]float64, 0, len(ds.Security.Services))
	exposed := make([]float64, 0, len(ds.Security.Services))
	names := make([]string, 0, len(ds.Security.Services))
	for _, s := range ds.Security.Services {
		names = append(names, s.Name)
		open = append(open, float64(s.Open))
		exposed = append(exposed, float64(s.Exposed))
	}
	cfg.XAxis = models.Axis{Type: models.AxisCategory, Categories: names, LabelColor: models.LightText}
	cfg.Series = []models.Series{
		{Name: "Open", Color: "#4ECDC4", Values: open},
		{Name: "Exposed", Color: "#FF6B6B", Values: exposed},
	}
	return cfg
}

// VulnerabilityConfig compares findings and remediations per severity.
func VulnerabilityConfig(ds Dataset) models.ChartConfiguration {
	cfg := dark(models.KindRadar)
	cfg.Tooltip = models.Tooltip{Show: true}
	cfg.Legend.Data = []string{"Findings", "Remediated"}
	indicators := make([]models.Indicator, 0, len(SeverityNames))
	for _, name := range SeverityNames {
		indicators = append(indicators, models.Indicator{Name: name, Max: 100})
	}
	cfg.Radar = &models.Radar{
		Indicators:     indicators,
		NameColor:      models.LightText,
		SplitLineColor: models.RadarSplitColor,
	}
	cfg.Series = []models.Series{
		{Name: "Findings", Color: "#FF0099", AreaOpacity: 0.3, Values: append([]float64(nil), ds.Security.Findings...)},
		{Name: "Remediated", Color: "#00F5D4", AreaOpacity: 0.3, Values: append([]float64(nil), ds.Security.Remediated...)},
	}
	return cfg
}
