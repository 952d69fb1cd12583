// Package stage1 builds and solves the restricted-alphabet first pass:
// night shifts, the L1 day shift, and the two rest codes only. Its
// output pins the night/L1/off decision for every cell before Stage-2
// ever runs, following original_source/solver/stage1_solver.py's
// Stage1Solver.setup().
package stage1

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/rules"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// ShiftL1 is the day shift reserved for L1-skilled staff; it belongs
// to Stage-1's restricted alphabet alongside the night shifts and the
// two rest codes, matching the original's stage1_shifts list.
const ShiftL1 domain.ShiftCode = "L1"

// Default weights carried over from original_source/solver/stage1_solver.py.
const (
	WeightRequestSatisfaction = 50000
	WeightL1Daily             = 35000
	WeightNightBalance        = 20000
)

// Setup builds the Stage-1 grid: alphabet = night shifts + {L1, OFF,
// PUB_OFF}, with the problem's fixed_cells (those whose code is in
// this alphabet) pinned and its forbidden codes removed. Compile adds
// the previous-history constraints and the default Stage-1 rules.
func Setup(problem *domain.SchedulingProblem) *variables.Grid {
	alphabet := make([]domain.ShiftCode, 0, len(problem.NightShifts)+3)
	alphabet = append(alphabet, problem.NightShifts...)
	alphabet = append(alphabet, ShiftL1, domain.OFF, domain.PubOff)

	grid := variables.NewGrid(problem.Staff, problem.NumDays, alphabet)

	for sd, code := range problem.FixedCells {
		if _, ok := grid.ShiftIndex(code); !ok {
			continue
		}
		s := grid.StaffIndex(sd.Staff)
		if s >= 0 {
			grid.Fix(s, sd.Day, code)
		}
	}
	for sd, forbidden := range problem.Forbidden {
		s := grid.StaffIndex(sd.Staff)
		if s < 0 {
			continue
		}
		for code := range forbidden {
			grid.Forbid(s, sd.Day, code)
		}
	}

	return grid
}

// Compile adds the previous-history hard constraints, the default
// Stage-1 safety rules, a default request-satisfaction soft term
// (weight 50000), and the user-authored rule catalog to a model built
// on a Stage-1 grid.
func Compile(problem *domain.SchedulingProblem, grid *variables.Grid, logger *zap.Logger) *cpsat.Model {
	m := cpsat.NewModel(grid)

	addPrevHistoryConstraints(problem, grid, m)
	addNightThenOffConstraint(problem, grid, m)
	addL1DailyConstraint(grid, m)
	addNightBalanceConstraint(problem, grid, m)

	withRequests := *problem
	withRequests.Rules = append([]domain.RuleNode{{
		ID: "stage1-request-satisfaction", Enabled: true, Kind: domain.KindPreference,
		Weight:     WeightRequestSatisfaction,
		Preference: &domain.PreferenceRule{MaximizeRequestSatisfaction: true},
	}}, problem.Rules...)

	compiled := rules.Compile(&withRequests, grid, logger)
	m.HardChecks = append(m.HardChecks, compiled.HardChecks...)
	m.SoftTerms = append(m.SoftTerms, compiled.SoftTerms...)

	return m
}

// addPrevHistoryConstraints forces day 1 to OFF when the day
// immediately preceding it (PrevHistory index 2) was a night shift, or
// when the three days of history plus day 1 would extend an
// already-5-day-or-longer consecutive work run, matching
// Stage1Solver._add_prev_history_constraints.
func addPrevHistoryConstraints(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	nightSet := make(map[domain.ShiftCode]bool, len(problem.NightShifts))
	for _, c := range problem.NightShifts {
		nightSet[c] = true
	}

	for _, staff := range problem.Staff {
		s := grid.StaffIndex(staff.Name)
		if s < 0 {
			continue
		}
		history := problem.PrevHistory[staff.Name]

		lastDay := history[2]
		if nightSet[lastDay] {
			grid.Fix(s, 1, domain.OFF)
			continue
		}

		consecutive := 0
		for i := 2; i >= 0; i-- {
			code := history[i]
			if code == "" {
				code = domain.OFF
			}
			if code == domain.OFF || code == domain.PubOff {
				break
			}
			consecutive++
		}
		if consecutive >= 5 {
			grid.Fix(s, 1, domain.OFF)
		}
	}
}

// addNightThenOffConstraint posts the night-then-off contract
// regardless of whether the rule catalog carries a sequence rule for
// it, matching spec.md §4.3's default-on safety rule: a staff member
// assigned any night shift on day d must be OFF or PUB_OFF on d+1.
func addNightThenOffConstraint(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	nightSet := make(map[domain.ShiftCode]bool, len(problem.NightShifts))
	for _, c := range problem.NightShifts {
		nightSet[c] = true
	}

	m.AddHardCheck(func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool {
		if throughDay < 2 {
			return true
		}
		prevDay, curDay := throughDay-2, throughDay-1
		for s := range a.Cells {
			prevIdx := a.Cells[s][prevDay]
			curIdx := a.Cells[s][curDay]
			if prevIdx < 0 || curIdx < 0 {
				continue
			}
			if !nightSet[g.CodeAt(prevIdx)] {
				continue
			}
			nextCode := g.CodeAt(curIdx)
			if nextCode != domain.OFF && nextCode != domain.PubOff {
				return false
			}
		}
		return true
	})
}

// addL1DailyConstraint penalizes days where the L1 shift isn't
// assigned to exactly one L1-skilled staff member, weight 35000.
func addL1DailyConstraint(grid *variables.Grid, m *cpsat.Model) {
	l1Idx, ok := grid.ShiftIndex(ShiftL1)
	if !ok {
		return
	}
	m.AddSoftTerm(func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for d := 0; d < g.NumDays; d++ {
			count := 0
			for s := range a.Cells {
				if a.Cells[s][d] == l1Idx && g.Staff[s].HasSkill(domain.SkillL1) {
					count++
				}
			}
			if count != 1 {
				diff := count - 1
				if diff < 0 {
					diff = -diff
				}
				penalty += diff * WeightL1Daily
			}
		}
		return penalty
	})
}

// addNightBalanceConstraint penalizes deviation from the night-capable
// staff group's average night-shift count, weight 20000 split across
// the eligible group the same way the original divides by
// len(night_staff).
func addNightBalanceConstraint(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	var nightCapable []int
	for s, staff := range grid.Staff {
		if staff.HasSkill(domain.SkillNight) {
			nightCapable = append(nightCapable, s)
		}
	}
	if len(nightCapable) == 0 {
		return
	}

	nightIndices := make(map[int]bool, len(problem.NightShifts))
	for _, code := range problem.NightShifts {
		if idx, ok := grid.ShiftIndex(code); ok {
			nightIndices[idx] = true
		}
	}

	m.AddSoftTerm(func(g *variables.Grid, a cpsat.Assignment) int {
		n := len(nightCapable)
		counts := make([]int, n)
		total := 0
		for i, s := range nightCapable {
			for d := 0; d < g.NumDays; d++ {
				if nightIndices[a.Cells[s][d]] {
					counts[i]++
				}
			}
			total += counts[i]
		}
		penalty := 0
		for i := range nightCapable {
			deviation := counts[i]*n - total
			if deviation < 0 {
				deviation = -deviation
			}
			penalty += deviation * WeightNightBalance / n
		}
		return penalty
	})
}

// Solve runs one Stage-1 search with the given seed and deadline.
func Solve(m *cpsat.Model, seed int64, deadline time.Time) cpsat.Outcome {
	return m.Solve(cpsat.Params{Seed: seed, Deadline: deadline})
}
