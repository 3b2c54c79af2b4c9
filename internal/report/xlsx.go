package report

import (
	"fmt"

	"github.com/user/riskboard-go/internal/models"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// XLSXReportAdapter writes a workbook with a summary sheet and one sheet per
// chart holding its data table and rendered frame.
type XLSXReportAdapter struct {
	reportData []byte
}

// PrepareData builds the workbook in memory.
func (xra *XLSXReportAdapter) PrepareData(snap *models.PageSnapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummary(f, snap); err != nil {
		return err
	}

	for _, c := range snap.Charts {
		if _, err := f.NewSheet(c.Name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", c.Name, err)
		}
		rows := chartTable(c.Config)
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(c.Name, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s data: %w", c.Name, err)
			}
		}
		if c.Frame == nil || len(c.Frame.Data) == 0 {
			continue
		}
		width := 2
		if len(rows) > 0 {
			width = len(rows[0])
		}
		cell, _ := excelize.CoordinatesToCellName(width+2, 1)
		if err := f.AddPictureFromBytes(c.Name, cell, &excelize.Picture{
			Extension: "." + c.Frame.Format,
			File:      c.Frame.Data,
			Format:    &excelize.GraphicOptions{AltText: c.Title},
		}); err != nil {
			return fmt.Errorf("failed to embed %s frame: %w", c.Name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	xra.reportData = buf.Bytes()
	return nil
}

// Write saves the workbook to the specified output file.
func (xra *XLSXReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, xra.reportData)
}

func writeSummary(f *excelize.File, snap *models.PageSnapshot) error {
	rows := [][]interface{}{
		{"Page", snap.Title},
		{"Generated", snap.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
		{"Engine", snap.Engine},
		{"Seed", snap.Seed},
	}
	if rev := snap.Revision; rev != nil {
		rows = append(rows,
			[]interface{}{"Revision", rev.SHA},
			[]interface{}{"Branch", rev.Branch},
			[]interface{}{"Subject", rev.Subject},
		)
	}
	rows = append(rows, []interface{}{})
	for _, s := range snap.Stats {
		rows = append(rows, []interface{}{s.Label, s.Value})
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(summarySheet, "A", "B", 28)
}

// chartTable flattens a configuration into a header row plus data rows.
func chartTable(cfg models.ChartConfiguration) [][]interface{} {
	var rows [][]interface{}
	switch cfg.Kind {
	case models.KindPie:
		rows = append(rows, []interface{}{"Series", "Name", "Value"})
		for _, s := range cfg.Series {
			for _, sl := range s.Slices {
				rows = append(rows, []interface{}{s.Name, sl.Name, sl.Value})
			}
		}
	case models.KindScatter:
		rows = append(rows, []interface{}{"Series", "X", "Y", "Label"})
		for _, s := range cfg.Series {
			for _, p := range s.Points {
				rows = append(rows, []interface{}{s.Name, p.X, p.Y, models.FormatPointTooltip(cfg.Tooltip.Format, s.Name, p)})
			}
		}
	case models.KindRadar:
		header := []interface{}{"Indicator", "Max"}
		for _, s := range cfg.Series {
			header = append(header, s.Name)
		}
		rows = append(rows, header)
		if cfg.Radar == nil {
			break
		}
		for i, ind := range cfg.Radar.Indicators {
			row := []interface{}{ind.Name, ind.Max}
			for _, s := range cfg.Series {
				row = append(row, valueAt(s.Values, i))
			}
			rows = append(rows, row)
		}
	default:
		header := []interface{}{"Category"}
		for _, s := range cfg.Series {
			header = append(header, s.Name)
		}
		rows = append(rows, header)
		for i, cat := range cfg.XAxis.Categories {
			row := []interface{}{cat}
			for _, s := range cfg.Series {
				row = append(row, valueAt(s.Values, i))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func valueAt(values []float64, i int) interface{} {
	if i < len(values) {
		return values[i]
	}
	return nil
}
