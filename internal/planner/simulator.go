package planner

// Allocation is the number of units the simulator assigned to a recipe.
type Allocation struct {
	Recipe   Recipe
	Quantity int
}

// Plan is the outcome of one simulation.
type Plan struct {
	Allocations []Allocation
	// Remaining is the virtual stock left after every allocation
	Remaining Snapshot
}

// Simulate walks the catalog in the order given and, for each recipe, keeps
// allocating one unit at a time while every BOM line is covered by the
// virtual stock. Stock consumed by earlier recipes is not available to
// later ones. Recipes that get no units are left out of the plan.
// Repeated lines for one material are checked on their sum.
//
// The caller's snapshot is never modified.
func Simulate(catalog Catalog, stock Snapshot) Plan {
	virtual := stock.Clone()
	plan := Plan{Allocations: []Allocation{}}

	for _, recipe := range catalog {
		reqs := recipe.merged()
		if !producible(reqs) {
			continue
		}

		produced := 0
		for canAllocate(reqs, virtual) {
			for _, req := range reqs {
				virtual[req.MaterialID] = virtual.Available(req.MaterialID) - req.Quantity
			}
			produced++
		}

		if produced > 0 {
			plan.Allocations = append(plan.Allocations, Allocation{Recipe: recipe, Quantity: produced})
		}
	}

	plan.Remaining = virtual
	return plan
}

func canAllocate(reqs []Requirement, virtual Snapshot) bool {
	for _, req := range reqs {
		if virtual.Available(req.MaterialID) < req.Quantity {
			return false
		}
	}
	return true
}
