package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spacesedan/sentiboard/internal/models"
)

const (
	IDColumn   = "ID"
	TextColumn = "review_text"
)

var (
	ErrWrongSchema = errors.New("wrong schema")
	ErrNoValidRows = errors.New("no rows with review text")
)

// missingValues are cell values read as missing rather than text. The set
// follows the NA tokens spreadsheet and dataframe tools emit.
var missingValues = map[string]bool{
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

func IsMissing(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || missingValues[v]
}

// Sanitize keeps the rows with usable review text, trimmed, in file order,
// and returns at most maxRows of them (maxRows <= 0 keeps all). It fails
// with ErrWrongSchema when the ID or review_text column is absent.
func Sanitize(table Table, maxRows int) ([]models.ReviewRow, error) {
	idCol := table.Column(IDColumn)
	textCol := table.Column(TextColumn)

	var missing []string
	if idCol < 0 {
		missing = append(missing, IDColumn)
	}
	if textCol < 0 {
		missing = append(missing, TextColumn)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required column(s) %s", ErrWrongSchema, strings.Join(missing, ", "))
	}

	var rows []models.ReviewRow
	for _, row := range table.Rows {
		if maxRows > 0 && len(rows) == maxRows {
			break
		}
		text := cell(row, textCol)
		if IsMissing(text) {
			continue
		}
		rows = append(rows, models.ReviewRow{
			ID:   strings.TrimSpace(cell(row, idCol)),
			Text: strings.TrimSpace(text),
		})
	}
	return rows, nil
}

// Texts returns the review texts of rows in order.
func Texts(rows []models.ReviewRow) []string {
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	return texts
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Load parses an upload and sanitizes it. It returns ErrNoValidRows when no
// row survives sanitization.
func Load(filename string, r io.Reader, maxRows int) ([]models.ReviewRow, error) {
	table, err := Parse(filename, r)
	if err != nil {
		return nil, err
	}
	rows, err := Sanitize(table, maxRows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoValidRows
	}
	return rows, nil
}
