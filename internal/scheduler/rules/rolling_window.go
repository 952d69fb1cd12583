package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compileRollingWindow caps consecutive working days at
// MaxConsecutiveWorkDays within any rolling window, checked once the
// window's last day is assigned: once throughDay gives us at least
// MaxConsecutiveWorkDays+1 completed days, look back that far and
// reject if every one of them was a work day.
func compileRollingWindow(rule domain.RuleNode, grid *variables.Grid, res *Result) {
	if rule.RollingWindow == nil || rule.RollingWindow.MaxConsecutiveWorkDays <= 0 {
		skip(res, rule, "rolling_window rule missing max_consecutive_work_days")
		return
	}
	maxRun := rule.RollingWindow.MaxConsecutiveWorkDays

	res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
		windowLen := maxRun + 1
		if throughDay < windowLen {
			return true
		}
		for s := range a.Cells {
			allWork := true
			for d := throughDay - windowLen; d < throughDay; d++ {
				idx := a.Cells[s][d]
				if idx < 0 {
					allWork = false
					break
				}
				code := g.CodeAt(idx)
				if code == domain.OFF || code == domain.PubOff {
					allWork = false
					break
				}
			}
			if allWork {
				return false
			}
		}
		return true
	})
}
