package models

import "time"

// Tone hints how a summary widget should be colored.
type Tone string

const (
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneGood    Tone = "good"
	ToneDanger  Tone = "danger"
)

// StatCard is a static summary widget shown above the charts of a page.
type StatCard struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Tone  Tone   `json:"tone"`
}

// Frame is one rendered image of a chart.
type Frame struct {
	Format string `json:"format"` // "png"
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

// ChartSnapshot pairs a chart's configuration with the last frame it produced.
type ChartSnapshot struct {
	Name   string             `json:"name"`
	Title  string             `json:"title"`
	Config ChartConfiguration `json:"config"`
	Frame  *Frame             `json:"frame,omitempty"`
}

// PageSnapshot is everything needed to write a report for one mounted page.
type PageSnapshot struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Subtitle    string          `json:"subtitle,omitempty"`
	Engine      string          `json:"engine"`
	GeneratedAt time.Time       `json:"generated_at"`
	Seed        uint64          `json:"seed"`
	Stats       []StatCard      `json:"stats"`
	Charts      []ChartSnapshot `json:"charts"`
	Revision    *Revision       `json:"revision,omitempty"`
}

// Revision identifies the source tree a report was produced from.
type Revision struct {
	URL     string    `json:"url"`
	Branch  string    `json:"branch"`
	SHA     string    `json:"sha"`
	Date    time.Time `json:"date"`
	Author  string    `json:"author"` // Format: "Name (email)"
	Subject string    `json:"subject,omitempty"`
}
