package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/calendar"
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compileBalance handles the three balance sub-semantics. Each
// penalizes the spread between a staff member's actual count of
// something and their fair share of it, using the original's
// unnormalized count*|eligible| - total deviation form (preserved
// deliberately, not "fixed" into a normalized average, per spec.md's
// note that this asymmetry is intentional).
func compileBalance(rule domain.RuleNode, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	if rule.Balance == nil {
		skip(res, rule, "balance rule missing payload")
		return
	}

	switch {
	case rule.Balance.TargetOffDaysField:
		compileTargetOffBalance(rule, grid, res)
	case len(rule.Balance.BalanceShifts) > 0:
		compileShiftBalance(rule, grid, res)
	case rule.Balance.BalanceWeekendWork:
		compileWeekendBalance(rule, problem, grid, res)
	default:
		skip(res, rule, "balance rule has no recognized sub-semantic set")
	}
}

// compileTargetOffBalance penalizes |actual_off_days - target_off|
// per staff, weighted by the rule (default 30000, the original's
// add_target_off_soft_constraint weight).
func compileTargetOffBalance(rule domain.RuleNode, grid *variables.Grid, res *Result) {
	weight := weightOr(rule, DefaultTargetOffWeight)

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for s, staff := range g.Staff {
			off := 0
			for d := 0; d < g.NumDays; d++ {
				idx := a.Cells[s][d]
				if idx >= 0 && isRest(g.CodeAt(idx)) {
					off++
				}
			}
			diff := off - staff.TargetOff
			if diff < 0 {
				diff = -diff
			}
			penalty += diff * weight
		}
		return penalty
	})
}

// compileShiftBalance penalizes each eligible staff member's deviation
// from the group's average count of the named shift codes, using the
// original's unnormalized deviation = count*|eligible| - total form.
func compileShiftBalance(rule domain.RuleNode, grid *variables.Grid, res *Result) {
	weight := weightOr(rule, DefaultBalanceShiftsWeight)
	shifts := codeSet(rule.Balance.BalanceShifts)
	skillFilter := rule.Balance.AmongStaffWithSkill

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		eligible := eligibleStaff(g, skillFilter)
		if len(eligible) == 0 {
			return 0
		}

		counts := make(map[int]int, len(eligible))
		total := 0
		for _, s := range eligible {
			c := 0
			for d := 0; d < g.NumDays; d++ {
				idx := a.Cells[s][d]
				if idx >= 0 && shifts[g.CodeAt(idx)] {
					c++
				}
			}
			counts[s] = c
			total += c
		}

		penalty := 0
		n := len(eligible)
		for _, s := range eligible {
			deviation := counts[s]*n - total
			if deviation < 0 {
				deviation = -deviation
			}
			penalty += deviation * weight / n
		}
		return penalty
	})
}

// compileWeekendBalance penalizes deviation from the group average
// count of weekend (Saturday+Sunday) work days.
func compileWeekendBalance(rule domain.RuleNode, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	weight := weightOr(rule, DefaultBalanceWeekendWeight)
	pairs, err := calendar.WeekendPairs(problem.Year, problem.Month, problem.NumDays)
	if err != nil || len(pairs) == 0 {
		skip(res, rule, "could not compute weekend pairs for this month")
		return
	}

	var weekendDays []int
	for _, p := range pairs {
		weekendDays = append(weekendDays, p[0], p[1])
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		n := len(g.Staff)
		if n == 0 {
			return 0
		}
		counts := make([]int, n)
		total := 0
		for s := range g.Staff {
			for _, day := range weekendDays {
				if day < 1 || day > g.NumDays {
					continue
				}
				idx := a.Cells[s][day-1]
				if idx >= 0 && !isRest(g.CodeAt(idx)) {
					counts[s]++
				}
			}
			total += counts[s]
		}

		penalty := 0
		for s := range g.Staff {
			deviation := counts[s]*n - total
			if deviation < 0 {
				deviation = -deviation
			}
			penalty += deviation * weight / n
		}
		return penalty
	})
}

func eligibleStaff(g *variables.Grid, skill domain.SkillTag) []int {
	var out []int
	for s, staff := range g.Staff {
		if skill == "" || staff.HasSkill(skill) {
			out = append(out, s)
		}
	}
	return out
}
