package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Reviews"

var templateRows = [][]string{
	{IDColumn, TextColumn},
	{"1", "The delivery was fast and the product works perfectly."},
	{"2", "It does what it says. Nothing more, nothing less."},
	{"3", "Broke after two days and support never answered."},
}

// TemplateCSV returns a sample upload file with the required columns.
func TemplateCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.WriteAll(templateRows)
	return buf.Bytes()
}

// TemplateXLSX returns the same sample as an Excel workbook.
func TemplateXLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	for i, row := range templateRows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(templateSheet, cellRef, &values); err != nil {
			return nil, fmt.Errorf("failed to write template row: %w", err)
		}
	}
	if err := f.SetColWidth(templateSheet, "B", "B", 60); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
