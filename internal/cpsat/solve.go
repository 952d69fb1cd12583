package cpsat

import (
	"math"
	"time"

	"github.com/jakechorley/rota-scheduler/internal/domain"
)

// nodeCheckInterval bounds how often the search reads the wall clock,
// so a tight inner loop isn't dominated by time.Now() calls.
const nodeCheckInterval = 2000

// searchState carries the mutable search stack through the recursion.
// It is not safe for concurrent use; each Solve call owns its own.
type searchState struct {
	grid       *searchGrid
	model      *Model
	deadline   time.Time
	nodes      int
	timedOut   bool
	bestObj    int
	bestFound  bool
	bestAssign Assignment
	order      [][]int // per (staff,day) shuffled candidate shift indices, flattened by day-major index
}

// searchGrid is the thin read path Solve needs from variables.Grid,
// kept local so this file doesn't import the variables package just
// to read dimensions.
type searchGrid struct {
	numStaff int
	numDays  int
}

// Solve performs a seeded, time-bounded backtracking search for the
// minimum-objective complete assignment that satisfies every
// HardCheck and is not equal to any Excluded assignment.
//
// Because spec.md requires same-seed-implies-same-result-list
// determinism (§8 property 7) rather than "any one optimum among
// ties", the search always explores the full tree pruned only by
// HardChecks, scoring the objective at each complete leaf and never
// stopping at the first feasible leaf; among equal-objective leaves
// the first one reached is kept. If the deadline is reached before the tree is
// exhausted, the best assignment found so far (if any) is returned as
// FEASIBLE rather than OPTIMAL, per spec.md §5.
func (m *Model) Solve(p Params) Outcome {
	g := m.Grid
	st := &searchState{
		grid:     &searchGrid{numStaff: len(g.Staff), numDays: g.NumDays},
		model:    m,
		deadline: p.Deadline,
		bestObj:  math.MaxInt,
	}

	a := NewAssignment(st.grid.numStaff, st.grid.numDays)
	r := rng(p.Seed)

	st.assignCell(a, r, 0, 0)

	switch {
	case st.bestFound && !st.timedOut:
		return Outcome{Status: domain.StatusOptimal, Objective: st.bestObj, Assignment: st.bestAssign, Nodes: st.nodes}
	case st.bestFound && st.timedOut:
		return Outcome{Status: domain.StatusFeasible, Objective: st.bestObj, Assignment: st.bestAssign, Nodes: st.nodes}
	case st.timedOut:
		return Outcome{Status: domain.StatusUnknown, Nodes: st.nodes}
	default:
		return Outcome{Status: domain.StatusInfeasible, Nodes: st.nodes}
	}
}

// assignCell advances the day-major, staff-minor search by one cell.
// staffIdx ranges [0, numStaff); once it reaches numStaff the day is
// complete and hard checks scoped to that day run before recursing
// into day+1.
func (st *searchState) assignCell(a Assignment, r interface {
	Intn(int) int
}, day, staffIdx int) {
	if st.timedOut {
		return
	}
	st.nodes++
	if st.nodes%nodeCheckInterval == 0 && !st.deadline.IsZero() && time.Now().After(st.deadline) {
		st.timedOut = true
		return
	}

	if staffIdx == st.grid.numStaff {
		if !st.runDayChecks(a, day) {
			return
		}
		if day+1 == st.grid.numDays {
			st.visitLeaf(a)
			return
		}
		st.assignCell(a, r, day+1, 0)
		return
	}

	candidates := st.model.Grid.AllowedShifts(staffIdx, day+1)
	order := shuffledCopy(candidates, r)
	for _, k := range order {
		a.Cells[staffIdx][day] = k
		st.assignCell(a, r, day, staffIdx+1)
		if st.timedOut {
			a.Cells[staffIdx][day] = -1
			return
		}
	}
	a.Cells[staffIdx][day] = -1
}

// runDayChecks evaluates every registered HardCheck now that all staff
// are assigned through day (0-indexed day, i.e. day+1 in 1-indexed
// terms since the caller passes the just-completed day).
func (st *searchState) runDayChecks(a Assignment, day int) bool {
	for _, check := range st.model.HardChecks {
		if !check(st.model.Grid, a, day+1) {
			return false
		}
	}
	return true
}

// visitLeaf is called once a complete assignment passes every hard
// check. It rejects no-good-cut matches, scores the objective, and
// updates the running best if it improves on it.
func (st *searchState) visitLeaf(a Assignment) {
	for _, excluded := range st.model.Excluded {
		if a.Equal(excluded) {
			return
		}
	}

	obj := 0
	for _, term := range st.model.SoftTerms {
		obj += term(st.model.Grid, a)
	}

	if obj < st.bestObj {
		st.bestObj = obj
		st.bestFound = true
		st.bestAssign = a.Clone()
	}
}

// shuffledCopy returns a Fisher-Yates-shuffled copy of candidates
// using r, leaving the input slice untouched.
func shuffledCopy(candidates []int, r interface{ Intn(int) int }) []int {
	out := append([]int(nil), candidates...)
	for i := len(out) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
