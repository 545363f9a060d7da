package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LongHeaders are the columns of the long-format CSV export.
var LongHeaders = []string{"table", "category", "metric", "value"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_exporter"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Write streams all tables to w in long format: one line per
// (table, category, metric) cell.
func (c *CSVWriter) Write(w io.Writer, tables []Table, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(LongHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	lines := 0
	for _, t := range tables {
		for i, row := range t.Rows {
			if len(row) == 0 {
				continue
			}
			for j := 1; j < len(row) && j < len(t.Headers); j++ {
				if err := writer.Write([]string{t.Name, row[0], t.Headers[j], row[j]}); err != nil {
					return fmt.Errorf("failed to write %s row %d: %w", t.Name, i, err)
				}
				lines++
			}
		}
	}
	writer.Flush()

	c.logger.Debug("CSV export written",
		slog.Int("table_count", len(tables)),
		slog.Int("line_count", lines))
	return writer.Error()
}

// WriteFile writes the export to filePath, creating parent directories.
func (c *CSVWriter) WriteFile(filePath string, tables []Table) error {
	c.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("table_count", len(tables)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := c.Write(file, tables, WriteOptions{BOMPrefix: true}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
