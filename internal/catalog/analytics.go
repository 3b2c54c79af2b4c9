package catalog

import "github.com/user/riskboard-go/internal/models"

// BarConfig is the quarterly sales comparison.
func BarConfig() models.ChartConfiguration {
	cfg := dark(models.KindBar)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "axis"}
	cfg.Legend.Data = []string{"2023", "2024"}
	cfg.XAxis = models.Axis{
		Type:        models.AxisCategory,
		Categories:  []string{"Q1", "Q2", "Q3", "Q4"},
		LabelRotate: 45,
		LabelColor:  models.LightText,
	}
	cfg.Series = []models.Series{
		{Name: "2023", Color: "#FF6B6B", Values: []float64{120, 200, 150, 180}},
		{Name: "2024", Color: "#4ECDC4", Values: []float64{140, 230, 170, 210}},
	}
	return cfg
}

// LineConfig is the monthly revenue and profit trend.
func LineConfig() models.ChartConfiguration {
	cfg := dark(models.KindLine)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "axis"}
	cfg.Legend.Data = []string{"Revenue", "Profit"}
	cfg.XAxis = models.Axis{
		Type:       models.AxisCategory,
		Categories: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"},
		LabelColor: models.LightText,
	}
	cfg.Series = []models.Series{
		{Name: "Revenue", Color: "#FF0099", Smooth: true, Values: []float64{820, 932, 901, 934, 1290, 1330}},
		{Name: "Profit", Color: "#00F5D4", Smooth: true, Values: []float64{320, 432, 501, 634, 890, 930}},
	}
	return cfg
}

// PieConfig is the sales split per channel.
func PieConfig() models.ChartConfiguration {
	cfg := dark(models.KindPie)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "item", Format: "{b}: {c} ({d}%)"}
	cfg.Legend.Orient = "vertical"
	cfg.Legend.Position = "left"
	cfg.Series = []models.Series{{
		Name: "Sales Distribution",
		Slices: []models.Slice{
			{Name: "Online", Value: 1048, Color: "#FF0099"},
			{Name: "Retail", Value: 735, Color: "#FF6B6B"},
			{Name: "Partners", Value: 580, Color: "#FF9F43"},
			{Name: "Others", Value: 484, Color: "#00F5D4"},
		},
	}}
	return cfg
}

// RadarConfig compares allocated and actual budget per department.
func RadarConfig() models.ChartConfiguration {
	cfg := dark(models.KindRadar)
	cfg.Tooltip = models.Tooltip{Show: true}
	cfg.Legend.Data = []string{"Allocated", "Actual"}
	cfg.Radar = &models.Radar{
		Indicators: []models.Indicator{
			{Name: "Sales", Max: 100},
			{Name: "Marketing", Max: 100},
			{Name: "Development", Max: 100},
			{Name: "Support", Max: 100},
			{Name: "Operations", Max: 100},
		},
		NameColor:      models.LightText,
		SplitLineColor: models.RadarSplitColor,
	}
	cfg.Series = []models.Series{
		{Name: "Allocated", Color: "#FF9F43", AreaOpacity: 0.3, Values: []float64{80, 70, 90, 85, 75}},
		{Name: "Actual", Color: "#00F5D4", AreaOpacity: 0.3, Values: []float64{85, 65, 88, 90, 70}},
	}
	return cfg
}

// ScatterConfig plots profit against revenue; glyph size grows with revenue.
func ScatterConfig() models.ChartConfiguration {
	cfg := dark(models.KindScatter)
	cfg.Tooltip = models.Tooltip{Show: true, Trigger: "item", Format: "Revenue: {x}K, Profit: {y}K"}
	cfg.Legend.Show = false
	cfg.XAxis = models.Axis{Type: models.AxisValue, Name: "Revenue (K)", LabelColor: models.LightText}
	cfg.YAxis = models.Axis{Type: models.AxisValue, Name: "Profit (K)", LabelColor: models.LightText}
	cfg.Series = []models.Series{{
		SymbolScale: 1.5,
		Gradient: []models.ColorStop{
			{Offset: 0, Color: "#FF0099"},
			{Offset: 1, Color: "#00F5D4"},
		},
		Points: []models.Point{
			{X: 28, Y: 8}, {X: 55, Y: 12}, {X: 43, Y: 15}, {X: 91, Y: 28},
			{X: 81, Y: 25}, {X: 53, Y: 17}, {X: 19, Y: 5}, {X: 87, Y: 29},
		},
	}}
	return cfg
}
