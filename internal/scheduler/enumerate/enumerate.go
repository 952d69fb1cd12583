// Package enumerate implements K-best enumeration by repeated solve
// plus no-good cut: spec.md §4.5 requires literal re-solve-and-exclude
// semantics (not a solver's native solution-pool API) so that
// enumeration order is a deterministic function of the seed alone.
package enumerate

import (
	"time"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
)

// Result is one K-best slot: the outcome that produced it, and the
// 1-indexed rank it occupies in the returned list.
type Result struct {
	Rank    int
	Outcome cpsat.Outcome
}

// KBest repeatedly solves m, posting a no-good cut against the
// winning assignment of each successful iteration, until k solutions
// have been found, the model goes infeasible, or the deadline passes.
//
// Edge cases (spec.md §4.5): if the very first solve is infeasible,
// the returned list is empty. When k == 1, no cut is ever posted
// (there's nothing to exclude from a second iteration that never
// runs).
func KBest(m *cpsat.Model, k int, seed int64, deadline time.Time) []Result {
	var results []Result

	for rank := 1; rank <= k; rank++ {
		outcome := m.Solve(cpsat.Params{Seed: seed, Deadline: deadline})

		switch outcome.Status {
		case domain.StatusOptimal, domain.StatusFeasible:
			results = append(results, Result{Rank: rank, Outcome: outcome})
			if rank < k {
				m.ExcludeSolution(outcome.Assignment)
			}
		default:
			return results
		}

		if !deadline.IsZero() && time.Now().After(deadline) {
			return results
		}
	}

	return results
}
