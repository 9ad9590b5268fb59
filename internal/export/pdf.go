package export

import (
	"bytes"
	"fmt"
	"time"

	"go-factory-planner/internal/planner"

	"github.com/go-pdf/fpdf"
)

// Page layout constants (A4 portrait in mm).
const (
	marginLeft = 15.0
	marginTop  = 15.0
	rowHeight  = 8.0
)

var colWidths = []float64{80, 30, 35, 35}

// SuggestionPDF renders the report as a one-table PDF document.
func SuggestionPDF(report planner.Report, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginLeft)
	pdf.SetTitle(title, true)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, stamp(generatedAt), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, c := range columns {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(colWidths[i], rowHeight, c, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	rows := rowsOf(report)
	if len(rows) == 0 {
		pdf.CellFormat(sum(colWidths), rowHeight, "Nothing can be produced from current stock.", "1", 1, "C", false, 0, "")
	}
	for _, r := range rows {
		pdf.CellFormat(colWidths[0], rowHeight, r.Product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], rowHeight, fmt.Sprintf("%d", r.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], rowHeight, r.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[3], rowHeight, r.LineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// Total
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2], rowHeight, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[3], rowHeight, report.TotalValue.StringFixed(2), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
