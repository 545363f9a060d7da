package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Excel limits worksheet names to 31 characters.
const maxSheetName = 31

const defaultSheet = "Sheet1"

// XLSXWriter writes each table to its own worksheet.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_exporter"))}
}

// Write builds the workbook and streams it to w. An empty table list still
// produces a valid workbook with a single empty sheet.
func (x *XLSXWriter) Write(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := x.fill(f, tables); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile writes the workbook to filePath, creating parent directories.
func (x *XLSXWriter) WriteFile(filePath string, tables []Table) error {
	x.logger.Info("Writing XLSX file",
		slog.String("file_path", filePath),
		slog.Int("table_count", len(tables)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := x.Write(file, tables); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (x *XLSXWriter) fill(f *excelize.File, tables []Table) error {
	if len(tables) == 0 {
		return nil
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	first := -1
	for _, t := range tables {
		name := sheetName(t.Name)
		idx, err := f.NewSheet(name)
		if err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if first < 0 {
			first = idx
		}

		header := make([]interface{}, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", name, err)
		}
		if len(t.Headers) > 0 {
			last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
			if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
				return fmt.Errorf("failed to style %s header: %w", name, err)
			}
		}

		for i, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := cellValues(row)
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", name, i, err)
			}
		}
	}

	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	// Indexes shift once the default sheet is gone.
	if idx, err := f.GetSheetIndex(sheetName(tables[0].Name)); err == nil && idx >= 0 {
		f.SetActiveSheet(idx)
	}

	x.logger.Debug("XLSX workbook built", slog.Int("sheet_count", len(tables)))
	return nil
}

// cellValues keeps numbers numeric so spreadsheet formulas work on them.
func cellValues(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			out[i] = n
		} else if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[i] = f
		} else {
			out[i] = v
		}
	}
	return out
}

func sheetName(name string) string {
	if len(name) > maxSheetName {
		return name[:maxSheetName]
	}
	return name
}
