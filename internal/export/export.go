// Package export renders a production suggestion as a downloadable file.
package export

import (
	"time"

	"go-factory-planner/internal/planner"

	"github.com/shopspring/decimal"
)

const title = "Production Suggestion"

var columns = []string{"Product", "Quantity", "Unit Price", "Line Total"}

type row struct {
	Product   string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

func rowsOf(report planner.Report) []row {
	rows := make([]row, 0, len(report.SuggestedProducts))
	for _, item := range report.SuggestedProducts {
		rows = append(rows, row{
			Product:   item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return rows
}

func stamp(at time.Time) string {
	return "Generated " + at.UTC().Format("2006-01-02 15:04 UTC")
}
