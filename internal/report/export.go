package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/spacesedan/sentiboard/internal/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Results"

var exportHeader = []string{"ID", "review_text", "Sentiment", "Positive Score", "Neutral Score", "Negative Score", "Detail"}

func exportRecord(r models.ResultRow) []string {
	return []string{
		r.ID,
		r.Text,
		string(r.Sentiment),
		strconv.FormatFloat(r.Positive, 'f', -1, 64),
		strconv.FormatFloat(r.Neutral, 'f', -1, 64),
		strconv.FormatFloat(r.Negative, 'f', -1, 64),
		r.Detail,
	}
}

func WriteCSV(w io.Writer, table models.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range table.Rows {
		if err := cw.Write(exportRecord(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, table models.ResultTable) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range table.Rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{r.ID, r.Text, string(r.Sentiment), r.Positive, r.Neutral, r.Negative, r.Detail}
		if err := f.SetSheetRow(exportSheet, cellRef, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
