// Package dashboard arranges chart components and summary widgets into
// pages and mounts them as live sessions.
package dashboard

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/user/riskboard-go/internal/catalog"
	"github.com/user/riskboard-go/internal/models"
)

// ErrUnknownPage is returned by Lookup for unregistered page names.
var ErrUnknownPage = errors.New("unknown page")

// Page names.
const (
	SecurityPageName  = "security"
	AnalyticsPageName = "analytics"
)

// StatsFunc builds the summary widgets of a page for one render.
type StatsFunc func(ds catalog.Dataset) []models.StatCard

// Page is a layout of summary widgets followed by charts.
type Page struct {
	Name     string
	Title    string
	Subtitle string
	Charts   []catalog.Component
	Stats    StatsFunc
}

// SecurityPage shows the risk summary and the security charts.
func SecurityPage() Page {
	return Page{
		Name:     SecurityPageName,
		Title:    "Security Dashboard",
		Subtitle: "Real-time security metrics and analysis",
		Charts: []catalog.Component{
			catalog.MustLookup(catalog.RiskOverview),
			catalog.MustLookup(catalog.Services),
			catalog.MustLookup(catalog.Vulnerabilities),
		},
		Stats: securityStats,
	}
}

// AnalyticsPage shows the generic analytics charts.
func AnalyticsPage() Page {
	return Page{
		Name:     AnalyticsPageName,
		Title:    "Analytics Dashboard",
		Subtitle: "Sales, revenue and budget overview",
		Charts: []catalog.Component{
			catalog.MustLookup(catalog.Bar),
			catalog.MustLookup(catalog.Line),
			catalog.MustLookup(catalog.Pie),
			catalog.MustLookup(catalog.RadarChart),
			catalog.MustLookup(catalog.Scatter),
		},
		Stats: analyticsStats,
	}
}

// Pages returns every page in display order.
func Pages() []Page {
	return []Page{SecurityPage(), AnalyticsPage()}
}

// Lookup finds a page by name.
func Lookup(name string) (Page, error) {
	for _, p := range Pages() {
		if p.Name == name {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

// Chart returns the component named name on the page.
func (p Page) Chart(name string) (catalog.Component, bool) {
	for _, c := range p.Charts {
		if c.Name == name {
			return c, true
		}
	}
	return catalog.Component{}, false
}

func securityStats(ds catalog.Dataset) []models.StatCard {
	f := ds.Security
	level := catalog.RiskLevel(f.RiskScore)
	tone := models.ToneWarning
	switch level {
	case "Low":
		tone = models.ToneGood
	case "High", "Critical":
		tone = models.ToneDanger
	}

	alertTone := models.ToneInfo
	if f.Exposed > 0 {
		alertTone = models.ToneWarning
	}
	service := "Services"
	if f.Exposed == 1 {
		service = "Service"
	}

	coverageTone := models.ToneGood
	if f.Coverage < 50 {
		coverageTone = models.ToneWarning
	}

	return []models.StatCard{
		{Label: "Current Risk Level", Value: fmt.Sprintf("%s (%d/100)", level, f.RiskScore), Tone: tone},
		{Label: "Active Alerts", Value: fmt.Sprintf("%s %s Exposed", humanize.Comma(int64(f.Exposed)), service), Tone: alertTone},
		{Label: "Security Coverage", Value: fmt.Sprintf("%d%% Protected", f.Coverage), Tone: coverageTone},
	}
}

func analyticsStats(catalog.Dataset) []models.StatCard {
	return []models.StatCard{
		{Label: "Revenue (Jun)", Value: "$" + humanize.Comma(1330) + "K", Tone: models.ToneGood},
		{Label: "Sales Channels", Value: humanize.Comma(4), Tone: models.ToneInfo},
		{Label: "Units Sold (2024)", Value: humanize.Comma(750), Tone: models.ToneInfo},
	}
}
