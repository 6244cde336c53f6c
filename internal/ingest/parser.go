package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrParse           = errors.New("unreadable file")
)

// Table is a parsed file: a header row and data rows padded or trimmed to
// the header width.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Column returns the index of the header matching name after trimming,
// case-insensitively, or -1.
func (t Table) Column(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Parse reads a .csv or .xlsx upload.
func Parse(filename string, r io.Reader) (Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	slog.Debug("[Ingest] Parsing upload",
		slog.String("filename", filename),
		slog.Int("size", len(content)))

	switch ext {
	case ".csv":
		return parseCSV(content)
	case ".xlsx":
		return parseExcel(content)
	default:
		return Table{}, fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFile, filename)
	}
}

func parseCSV(content []byte) (Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to parse CSV: %v", ErrParse, err)
	}
	if len(allRows) == 0 {
		return Table{}, fmt.Errorf("%w: empty CSV file", ErrParse)
	}

	return newTable(allRows), nil
}

// skipSheets are sheet names that never hold the data table.
var skipSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

func parseExcel(content []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to open Excel file: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("%w: no sheets in Excel file", ErrParse)
	}

	sheetName := sheets[0]
	for _, sheet := range sheets {
		if !skipSheets[strings.ToLower(sheet)] {
			sheetName = sheet
			break
		}
	}

	allRows, err := f.GetRows(sheetName)
	if err != nil {
		return Table{}, fmt.Errorf("%w: failed to read Excel rows: %v", ErrParse, err)
	}
	if len(allRows) == 0 {
		return Table{}, fmt.Errorf("%w: empty Excel sheet %q", ErrParse, sheetName)
	}

	return newTable(allRows), nil
}

func newTable(allRows [][]string) Table {
	headers := allRows[0]
	rows := allRows[1:]

	for i, row := range rows {
		if len(row) < len(headers) {
			padded := make([]string, len(headers))
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > len(headers) {
			rows[i] = row[:len(headers)]
		}
	}

	return Table{Headers: headers, Rows: rows}
}
