package export

import (
	"fmt"
	"time"

	"go-factory-planner/internal/planner"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Suggestion"

// SuggestionXLSX writes the report as a single-sheet workbook.
func SuggestionXLSX(report planner.Report, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	cells := [][]interface{}{
		{title},
		{stamp(generatedAt)},
		{},
	}
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	cells = append(cells, header)
	for _, r := range rowsOf(report) {
		cells = append(cells, []interface{}{r.Product, r.Quantity, r.UnitPrice.InexactFloat64(), r.LineTotal.InexactFloat64()})
	}
	cells = append(cells, []interface{}{"Total", nil, nil, report.TotalValue.InexactFloat64()})

	for i, values := range cells {
		for j, v := range values {
			if v == nil {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, ref, v); err != nil {
				return nil, fmt.Errorf("set %s: %w", ref, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	headerRow := 4
	totalRow := len(cells)
	if err := f.SetCellStyle(sheetName, "A1", "A1", bold); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, headerRow, headerRow, bold); err != nil {
		return nil, err
	}
	if err := f.SetRowStyle(sheetName, totalRow, totalRow, bold); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "B", "D", 14); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
