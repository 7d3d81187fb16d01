package contextbuilder

import (
	"sort"

	"fabula/internal/shared/token"
)

// fitBudget stable-sorts candidates by descending priority and greedily
// selects items while the cumulative estimated cost stays within budget.
// An item that does not fit is skipped permanently; there is no backtracking
// and no partial inclusion, so drops are deterministic. Oversized items are
// skipped regardless of tier; required content gets no special protection.
func fitBudget(candidates []ContextItem, budget int, estimate token.Estimator) (selected []ContextItem, total int, truncated bool) {
	if len(candidates) == 0 {
		return nil, 0, false
	}

	ranked := make([]ContextItem, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	for _, item := range ranked {
		cost := estimate(item.Content)
		if total+cost > budget {
			truncated = true
			continue
		}
		total += cost
		selected = append(selected, item)
	}
	return selected, total, truncated
}
