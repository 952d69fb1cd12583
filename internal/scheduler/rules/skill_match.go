package rules

import (
	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// compileSkillMatch forbids assigning a shift to staff who lack the
// skill that shift requires. Realized as immediate domain pruning on
// the grid (cheaper than a per-day hard check, since it depends only
// on the static staff roster) plus a defensive hard check in case the
// same grid is reused across stages with different staff skill
// overrides.
func compileSkillMatch(rule domain.RuleNode, problem *domain.SchedulingProblem, grid *variables.Grid, res *Result) {
	if rule.SkillMatch == nil || len(rule.SkillMatch.ShiftSkillMap) == 0 {
		skip(res, rule, "skill_match rule missing shift_skill_map")
		return
	}

	for shiftCode, skillTag := range rule.SkillMatch.ShiftSkillMap {
		if _, ok := grid.ShiftIndex(shiftCode); !ok {
			continue // shift not in this stage's alphabet
		}
		for s, staff := range grid.Staff {
			if staff.HasSkill(skillTag) {
				continue
			}
			for d := 1; d <= grid.NumDays; d++ {
				grid.Forbid(s, d, shiftCode)
			}
		}
	}

	skillMap := make(map[domain.ShiftCode]domain.SkillTag, len(rule.SkillMatch.ShiftSkillMap))
	for k, v := range rule.SkillMatch.ShiftSkillMap {
		skillMap[k] = v
	}

	res.HardChecks = append(res.HardChecks, func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
		d := throughDay - 1
		if d < 0 || d >= g.NumDays {
			return true
		}
		for s, idx := range columnAt(a, d) {
			if idx < 0 {
				continue
			}
			code := g.CodeAt(idx)
			required, ok := skillMap[code]
			if !ok {
				continue
			}
			if !g.Staff[s].HasSkill(required) {
				return false
			}
		}
		return true
	})
}

// columnAt returns the shift index assigned to every staff member on
// 0-indexed day d.
func columnAt(a cpsat.Assignment, d int) []int {
	out := make([]int, len(a.Cells))
	for s, row := range a.Cells {
		out[s] = row[d]
	}
	return out
}
