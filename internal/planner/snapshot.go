package planner

import "github.com/google/uuid"

// Snapshot maps material id to quantity on hand. Missing ids read as zero.
type Snapshot map[uuid.UUID]float64

func (s Snapshot) Available(id uuid.UUID) float64 {
	return s[id]
}

// Clone returns an independent copy; mutating it never touches s.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, qty := range s {
		out[id] = qty
	}
	return out
}
