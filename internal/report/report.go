// Package report writes page snapshots to files.
package report

import (
	"bytes"
	"embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/user/riskboard-go/internal/models"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// ErrUnknownFormat is returned by New for an unsupported report format.
var ErrUnknownFormat = errors.New("unknown report format")

// ReportAdapter defines the interface for generating different report formats.
type ReportAdapter interface {
	PrepareData(snap *models.PageSnapshot) error
	Write(outputFilePath string) error
}

// New returns the adapter for format: "html", "json" or "xlsx".
func New(format string) (ReportAdapter, error) {
	switch format {
	case "html":
		return &HTMLReportAdapter{}, nil
	case "json":
		return &JSONReportAdapter{}, nil
	case "xlsx":
		return &XLSXReportAdapter{}, nil
	default:
		return nil, fmt.Errorf("%w %q. Must be 'html', 'json' or 'xlsx'", ErrUnknownFormat, format)
	}
}

// DefaultFileName is used when no output path is given.
func DefaultFileName(page, format string) string {
	return fmt.Sprintf("riskboard-%s.%s", page, format)
}

func writeFile(outputFilePath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outputFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for report file %s: %w", outputFilePath, err)
	}
	return os.WriteFile(outputFilePath, data, 0644)
}

// --- JSON Report Adapter ---

// JSONReportAdapter writes the snapshot as indented JSON. Chart images are
// omitted; configurations and frame sizes are kept.
type JSONReportAdapter struct {
	reportData []byte
}

// PrepareData marshals the snapshot.
func (jra *JSONReportAdapter) PrepareData(snap *models.PageSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	jra.reportData = data
	return nil
}

// Write saves the JSON report data to the specified output file.
func (jra *JSONReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, jra.reportData)
}

// --- HTML Report Adapter ---

// HTMLReportAdapter renders a standalone HTML page with the chart frames
// inlined as data URIs.
type HTMLReportAdapter struct {
	reportBuf bytes.Buffer
}

// TemplateFuncs are the helpers available to the HTML report template.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"ToUpper": strings.ToUpper,
		"FormatDateTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
		"ShortSha": func(sha string) string {
			if len(sha) > 8 {
				return sha[:8]
			}
			return sha
		},
		"AuthorName": func(author string) string {
			return strings.Split(author, " (")[0]
		},
		"Ago":   humanize.Time,
		"Bytes": func(n int) string { return humanize.Bytes(uint64(n)) },
		"DataURI": func(f *models.Frame) template.URL {
			if f == nil || len(f.Data) == 0 {
				return ""
			}
			return template.URL("data:image/" + f.Format + ";base64," + base64.StdEncoding.EncodeToString(f.Data))
		},
	}
}

// PrepareData renders the report page.
func (hra *HTMLReportAdapter) PrepareData(snap *models.PageSnapshot) error {
	tmpl, err := template.New("report.html.tmpl").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}

	hra.reportBuf.Reset()
	if err := tmpl.Execute(&hra.reportBuf, snap); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return nil
}

// Write saves the HTML report data to the specified output file.
func (hra *HTMLReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, hra.reportBuf.Bytes())
}
