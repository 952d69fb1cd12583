package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compileSequence: assigning any shift in AfterShifts on day d forces
// day d+1 into NextDayMustBe. Checked incrementally once day d+1 is
// assigned, not at the end of search, so violating branches are
// pruned as early as possible.
func compileSequence(rule domain.RuleNode, grid *variables.Grid, res *Result) {
	if rule.Sequence == nil || len(rule.Sequence.AfterShifts) == 0 || len(rule.Sequence.NextDayMustBe) == 0 {
		skip(res, rule, "sequence rule missing after_shifts or next_day_must_be")
		return
	}

	after := codeSet(rule.Sequence.AfterShifts)
	next := codeSet(rule.Sequence.NextDayMustBe)

	res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
		if throughDay < 2 {
			return true
		}
		for s := range a.Cells {
			prevIdx := a.Cells[s][throughDay-2]
			curIdx := a.Cells[s][throughDay-1]
			if prevIdx < 0 || curIdx < 0 {
				continue
			}
			if after[g.CodeAt(prevIdx)] && !next[g.CodeAt(curIdx)] {
				return false
			}
		}
		return true
	})
}
