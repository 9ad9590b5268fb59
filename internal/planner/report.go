package planner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuggestionItem is one product of the suggestion with the units to make.
type SuggestionItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// Report is the priced production suggestion returned to clients.
type Report struct {
	SuggestedProducts []SuggestionItem `json:"suggestedProducts"`
	TotalValue        decimal.Decimal  `json:"totalValue"`
}

// BuildReport prices a plan, skipping allocations with no units.
func BuildReport(plan Plan) Report {
	report := Report{
		SuggestedProducts: make([]SuggestionItem, 0, len(plan.Allocations)),
		TotalValue:        decimal.Zero,
	}

	for _, alloc := range plan.Allocations {
		if alloc.Quantity <= 0 {
			continue
		}
		report.SuggestedProducts = append(report.SuggestedProducts, SuggestionItem{
			ProductID:   alloc.Recipe.ProductID,
			ProductName: alloc.Recipe.Name,
			Quantity:    alloc.Quantity,
			UnitPrice:   alloc.Recipe.Price,
		})
		itemTotal := alloc.Recipe.Price.Mul(decimal.NewFromInt(int64(alloc.Quantity)))
		report.TotalValue = report.TotalValue.Add(itemTotal)
	}

	return report
}

// Suggest orders the catalog by priority, simulates it against stock and
// prices the result.
func Suggest(catalog Catalog, stock Snapshot) Report {
	return BuildReport(Simulate(catalog.ByPriority(), stock))
}
