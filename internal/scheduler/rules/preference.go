package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/calendar"
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compilePreference handles the two preference sub-semantics: request
// satisfaction (soft-penalize any cell that disagrees with a staff
// member's requested shift) and full-weekend-off-or-work (soft-penalize
// a Saturday/Sunday pair that's split between a rest and a work shift).
func compilePreference(rule domain.RuleNode, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	if rule.Preference == nil {
		skip(res, rule, "preference rule missing payload")
		return
	}
	weight := weightOr(rule, DefaultPreferenceWeight)

	switch {
	case rule.Preference.MaximizeRequestSatisfaction:
		compileRequestSatisfaction(weight, problem, grid, res)
	case rule.Preference.PreferFullWeekendOffOrWork:
		compileWeekendSplit(rule, weight, problem, grid, res)
	default:
		skip(res, rule, "preference rule has neither sub-semantic set")
	}
}

func compileRequestSatisfaction(weight int, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	if len(problem.Requests) == 0 {
		return
	}
	requests := make(map[domain.StaffDay]domain.ShiftCode, len(problem.Requests))
	for k, v := range problem.Requests {
		if _, ok := grid.ShiftIndex(v); ok {
			requests[k] = v
		}
	}
	if len(requests) == 0 {
		return
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for sd, wanted := range requests {
			s := g.StaffIndex(sd.Staff)
			if s < 0 || sd.Day < 1 || sd.Day > g.NumDays {
				continue
			}
			idx := a.Cells[s][sd.Day-1]
			if idx < 0 || g.CodeAt(idx) != wanted {
				penalty += weight
			}
		}
		return penalty
	})
}

func compileWeekendSplit(rule domain.RuleNode, weight int, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	pairs, err := calendar.WeekendPairs(problem.Year, problem.Month, problem.NumDays)
	if err != nil || len(pairs) == 0 {
		skip(res, rule, "could not compute weekend pairs for this month")
		return
	}

	res.SoftTerms = append(res.SoftTerms, func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for s := range a.Cells {
			for _, pair := range pairs {
				satDay, sunDay := pair[0], pair[1]
				if satDay < 1 || satDay > g.NumDays || sunDay < 1 || sunDay > g.NumDays {
					continue
				}
				satIdx := a.Cells[s][satDay-1]
				sunIdx := a.Cells[s][sunDay-1]
				if satIdx < 0 || sunIdx < 0 {
					continue
				}
				satOff := isRest(g.CodeAt(satIdx))
				sunOff := isRest(g.CodeAt(sunIdx))
				if satOff != sunOff {
					penalty += weight
				}
			}
		}
		return penalty
	})
}

func isRest(code domain.ShiftCode) bool {
	return code == domain.OFF || code == domain.PubOff
}
