// Package planner holds the production-suggestion engine: a greedy,
// price-prioritized allocation of a finite material pool across product
// recipes, simulated on a private copy of stock.
package planner

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Requirement is one BOM line: units of a material consumed per unit of product.
type Requirement struct {
	MaterialID uuid.UUID
	Quantity   float64
}

// Recipe is a product as seen by the simulator.
type Recipe struct {
	ProductID    uuid.UUID
	Name         string
	Price        decimal.Decimal
	Requirements []Requirement
}

// Catalog is an ordered list of recipes. Order matters: it breaks price ties.
type Catalog []Recipe

// ByPriority returns a copy of the catalog sorted by descending price.
// Recipes with equal price keep their catalog order.
func (c Catalog) ByPriority() Catalog {
	sorted := make(Catalog, len(c))
	copy(sorted, c)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Price.GreaterThan(sorted[j].Price)
	})
	return sorted
}

// merged folds repeated lines for the same material into one, keeping
// first-seen order.
func (r Recipe) merged() []Requirement {
	out := make([]Requirement, 0, len(r.Requirements))
	index := make(map[uuid.UUID]int, len(r.Requirements))
	for _, req := range r.Requirements {
		if i, ok := index[req.MaterialID]; ok {
			out[i].Quantity += req.Quantity
			continue
		}
		index[req.MaterialID] = len(out)
		out = append(out, req)
	}
	return out
}

// producible reports whether the unit-allocation loop can ever succeed and
// terminate: at least one line, every line strictly positive.
func producible(reqs []Requirement) bool {
	if len(reqs) == 0 {
		return false
	}
	for _, req := range reqs {
		if math.IsNaN(req.Quantity) || math.IsInf(req.Quantity, 0) || req.Quantity <= 0 {
			return false
		}
	}
	return true
}
