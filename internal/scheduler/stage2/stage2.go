// Package stage2 builds and solves the full-alphabet second pass: day
// shifts plus night shifts plus the two rest codes, with every
// Stage-1-decided cell (night/L1/off) whose code Stage-2's alphabet
// carries pinned before the search starts,
// following original_source/solver/stage2_solver.py's Stage2Solver.setup().
package stage2

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/rules"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/stage1"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// Default weights carried over from original_source/solver/stage2_solver.py.
const (
	WeightDayShiftRequest = 40000
	WeightDayShiftBalance = 10000
	WeightDailyCoverage   = 25000
)

// DefaultMinCoverage is the original's min_coverage=3 daily-coverage
// floor, applied on every non-closed day whether or not the problem's
// rule catalog carries its own coverage rule.
const DefaultMinCoverage = 3

// Setup builds the Stage-2 grid: alphabet = day shifts + night shifts
// + {OFF, PUB_OFF}, with every Stage-1 cell and every problem-level
// fixed_cells entry whose code is in this alphabet pinned as an
// equality constraint before the search starts.
func Setup(problem *domain.SchedulingProblem, stage1Result domain.Assignment) *variables.Grid {
	alphabet := make([]domain.ShiftCode, 0, len(problem.DayShifts)+len(problem.NightShifts)+2)
	alphabet = append(alphabet, problem.DayShifts...)
	alphabet = append(alphabet, problem.NightShifts...)
	alphabet = append(alphabet, domain.OFF, domain.PubOff)

	grid := variables.NewGrid(problem.Staff, problem.NumDays, alphabet)

	stage1Codes := make(map[domain.ShiftCode]bool, len(problem.NightShifts)+3)
	for _, c := range problem.NightShifts {
		stage1Codes[c] = true
	}
	stage1Codes[stage1.ShiftL1] = true
	stage1Codes[domain.OFF] = true
	stage1Codes[domain.PubOff] = true

	for sd, code := range stage1Result.Cells {
		if !stage1Codes[code] {
			continue
		}
		// Fix is a no-op for a code outside Stage-2's alphabet, so an L1
		// cell stays open unless the day shifts include L1.
		s := grid.StaffIndex(sd.Staff)
		if s < 0 {
			continue
		}
		grid.Fix(s, sd.Day, code)
	}

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

// Compile adds the default day-shift request/balance/coverage soft
// terms and the user-authored rule catalog to a model built on a
// Stage-2 grid.
func Compile(problem *domain.SchedulingProblem, grid *variables.Grid, logger *zap.Logger) *cpsat.Model {
	m := cpsat.NewModel(grid)

	addDayShiftRequestConstraints(problem, grid, m)
	addDayShiftBalance(problem, grid, m)
	addDailyCoverage(problem, grid, m)

	compiled := rules.Compile(problem, grid, logger)
	m.HardChecks = append(m.HardChecks, compiled.HardChecks...)
	m.SoftTerms = append(m.SoftTerms, compiled.SoftTerms...)

	return m
}

// addDayShiftRequestConstraints penalizes any day-shift cell that
// disagrees with a staff member's requested day shift, weight 40000 —
// distinct from Stage-1's 50000 request weight by design (spec.md
// flags this divergence as intentional, not a defect to normalize).
func addDayShiftRequestConstraints(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	if len(problem.Requests) == 0 {
		return
	}
	dayShiftSet := make(map[domain.ShiftCode]bool, len(problem.DayShifts))
	for _, c := range problem.DayShifts {
		dayShiftSet[c] = true
	}

	requests := make(map[domain.StaffDay]domain.ShiftCode)
	for sd, code := range problem.Requests {
		if dayShiftSet[code] {
			requests[sd] = code
		}
	}
	if len(requests) == 0 {
		return
	}

	m.AddSoftTerm(func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for sd, wanted := range requests {
			s := g.StaffIndex(sd.Staff)
			if s < 0 || sd.Day < 1 || sd.Day > g.NumDays {
				continue
			}
			idx := a.Cells[s][sd.Day-1]
			if idx < 0 || g.CodeAt(idx) != wanted {
				penalty += WeightDayShiftRequest
			}
		}
		return penalty
	})
}

// addDayShiftBalance penalizes deviation from the staff group's
// average day-shift count, weight 10000/n_staff.
func addDayShiftBalance(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	n := len(grid.Staff)
	if n == 0 {
		return
	}
	dayShiftIdx := make(map[int]bool, len(problem.DayShifts))
	for _, code := range problem.DayShifts {
		if idx, ok := grid.ShiftIndex(code); ok {
			dayShiftIdx[idx] = true
		}
	}

	m.AddSoftTerm(func(g *variables.Grid, a cpsat.Assignment) int {
		counts := make([]int, n)
		total := 0
		for s := range g.Staff {
			for d := 0; d < g.NumDays; d++ {
				if dayShiftIdx[a.Cells[s][d]] {
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
			penalty += deviation * WeightDayShiftBalance / n
		}
		return penalty
	})
}

// addDailyCoverage penalizes (soft only) the minimum working headcount
// per day, weight 25000, min_coverage=3 by default, applied only to
// non-closed days per spec.md §4.4.
func addDailyCoverage(problem *domain.SchedulingProblem, grid *variables.Grid, m *cpsat.Model) {
	min := DefaultMinCoverage
	closed := make(map[int]bool, len(problem.ClosedDays))
	for _, d := range problem.ClosedDays {
		closed[d] = true
	}

	m.AddSoftTerm(func(g *variables.Grid, a cpsat.Assignment) int {
		penalty := 0
		for day := 1; day <= g.NumDays; day++ {
			if closed[day] {
				continue
			}
			d := day - 1
			working := 0
			for s := range a.Cells {
				idx := a.Cells[s][d]
				if idx >= 0 {
					code := g.CodeAt(idx)
					if code != domain.OFF && code != domain.PubOff {
						working++
					}
				}
			}
			if short := min - working; short > 0 {
				penalty += short * WeightDailyCoverage
			}
		}
		return penalty
	})
}

// Solve runs one Stage-2 search with the given seed and deadline.
func Solve(m *cpsat.Model, seed int64, deadline time.Time) cpsat.Outcome {
	return m.Solve(cpsat.Params{Seed: seed, Deadline: deadline})
}
