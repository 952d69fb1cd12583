package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compileCoverage handles the three coverage sub-semantics:
// minimum-staff-per-day, exactly-N-per-day, and the closed-day night
// count. A coverage rule with no weight is hard (checked incrementally
// once a day is fully assigned); one with a weight compiles to a soft
// term instead, per domain.RuleNode.IsHard's coverage case.
func compileCoverage(rule domain.RuleNode, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	if rule.Coverage == nil {
		skip(res, rule, "coverage rule missing payload")
		return
	}
	c := rule.Coverage
	hard := rule.Weight == 0

	switch {
	case c.MinStaffPerDay > 0:
		compileMinStaffPerDay(rule, hard, grid, res)
	case c.ExactlyPerDay > 0 && c.ShiftCode != "":
		compileExactlyPerDay(rule, hard, problem, grid, res)
	case c.OnClosedDays && c.NightShiftCount > 0:
		compileClosedDayNightCount(rule, hard, problem, grid, res)
	default:
		skip(res, rule, "coverage rule has no recognized sub-semantic set")
	}
}

func excludedSet(excludes []domain.ShiftCode) map[domain.ShiftCode]bool {
	if len(excludes) == 0 {
		return nil
	}
	return codeSet(excludes)
}

func compileMinStaffPerDay(rule domain.RuleNode, hard bool, grid *variables.Grid, res *Result) {
	min := rule.Coverage.MinStaffPerDay
	excludes := excludedSet(rule.Coverage.ExcludeShifts)
	weight := rule.Weight

	countWorking := func(g *variables.Grid, a cpsat.Assignment, day int) int {
		d := day - 1
		n := 0
		for s := range a.Cells {
			idx := a.Cells[s][d]
			if idx < 0 {
				continue
			}
			code := g.CodeAt(idx)
			if isRest(code) || excludes[code] {
				continue
			}
			n++
		}
		return n
	}

	if hard {
		res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
			return countWorking(g, a, throughDay) >= min
		})
		return
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for day := 1; day <= g.NumDays; day++ {
			if short := min - countWorking(g, a, day); short > 0 {
				penalty += short * weight
			}
		}
		return penalty
	})
}

func compileExactlyPerDay(rule domain.RuleNode, hard bool, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	shiftCode := rule.Coverage.ShiftCode
	if _, ok := grid.ShiftIndex(shiftCode); !ok {
		skip(res, rule, "exactly_per_day shift code not in this stage's alphabet")
		return
	}
	exact := rule.Coverage.ExactlyPerDay
	weight := rule.Weight

	countShift := func(g *variables.Grid, a cpsat.Assignment, day int) int {
		d := day - 1
		n := 0
		for s := range a.Cells {
			idx := a.Cells[s][d]
			if idx >= 0 && g.CodeAt(idx) == shiftCode {
				n++
			}
		}
		return n
	}

	if hard {
		res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
			return countShift(g, a, throughDay) == exact
		})
		return
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for day := 1; day <= g.NumDays; day++ {
			diff := countShift(g, a, day) - exact
			if diff < 0 {
				diff = -diff
			}
			penalty += diff * weight
		}
		return penalty
	})
}

// compileClosedDayNightCount enforces/penalizes a fixed night-shift
// headcount on branch-closed days, where the problem's ClosedDays list
// has already been expanded (see internal/calendar) into concrete
// day-of-month integers.
func compileClosedDayNightCount(rule domain.RuleNode, hard bool, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	closed := make(map[int]bool, len(problem.ClosedDays))
	for _, d := range problem.ClosedDays {
		closed[d] = true
	}
	target := rule.Coverage.NightShiftCount
	weight := rule.Weight

	nightSet := make(map[domain.ShiftCode]bool, len(problem.NightShifts))
	for _, c := range problem.NightShifts {
		nightSet[c] = true
	}

	countNight := func(g *variables.Grid, a cpsat.Assignment, day int) int {
		d := day - 1
		n := 0
		for s := range a.Cells {
			idx := a.Cells[s][d]
			if idx >= 0 && nightSet[g.CodeAt(idx)] {
				n++
			}
		}
		return n
	}

	if hard {
		res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
			if !closed[throughDay] {
				return true
			}
			return countNight(g, a, throughDay) == target
		})
		return
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for day := 1; day <= g.NumDays; day++ {
			if !closed[day] {
				continue
			}
			diff := countNight(g, a, day) - target
			if diff < 0 {
				diff = -diff
			}
			penalty += diff * weight
		}
		return penalty
	})
}
