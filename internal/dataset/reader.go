package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// rawTable is a header plus string cells, before typing.
type rawTable struct {
	header []string
	rows   [][]string
}

// readTable reads a .csv or the first sheet of an .xlsx file.
func readTable(path string) (*rawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return readCSV(f)
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}

func readCSV(r io.Reader) (*rawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return splitHeader(records)
}

func readXLSX(path string) (*rawTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return splitHeader(rows)
}

func splitHeader(records [][]string) (*rawTable, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return &rawTable{header: header, rows: records[1:]}, nil
}

// columnIndex maps column names to positions. The first occurrence wins.
func (t *rawTable) columnIndex() map[string]int {
	idx := make(map[string]int, len(t.header))
	for i, name := range t.header {
		if name == "" {
			continue
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func cell(row []string, idx map[string]int, column string) (string, bool) {
	pos, ok := idx[column]
	if !ok || pos >= len(row) {
		return "", ok
	}
	return strings.TrimSpace(row[pos]), true
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
