package cpsat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func smallGrid(t *testing.T, numStaff, numDays int, alphabet []domain.ShiftCode) *variables.Grid {
	t.Helper()
	staff := make([]domain.Staff, numStaff)
	for i := range staff {
		staff[i] = domain.Staff{Name: string(rune('A' + i))}
	}
	return variables.NewGrid(staff, numDays, alphabet)
}

func TestSolve_NoHardChecksReturnsOptimal(t *testing.T) {
	g := smallGrid(t, 1, 1, []domain.ShiftCode{domain.OFF, "D1"})
	m := NewModel(g)

	out := m.Solve(Params{Seed: 1})

	assert.Equal(t, domain.StatusOptimal, out.Status)
	assert.Equal(t, 0, out.Objective)
}

func TestSolve_UnsatisfiableHardCheckIsInfeasible(t *testing.T) {
	g := smallGrid(t, 1, 1, []domain.ShiftCode{domain.OFF})
	m := NewModel(g)
	m.AddHardCheck(func(g *variables.Grid, a Assignment, throughDay int) bool {
		return false
	})

	out := m.Solve(Params{Seed: 1})

	assert.Equal(t, domain.StatusInfeasible, out.Status)
}

func TestSolve_MinimizesSoftTerm(t *testing.T) {
	alphabet := []domain.ShiftCode{domain.OFF, "D1"}
	g := smallGrid(t, 1, 1, alphabet)
	m := NewModel(g)

	offIdx, _ := g.ShiftIndex(domain.OFF)
	m.AddSoftTerm(func(g *variables.Grid, a Assignment) int {
		if a.Cells[0][0] == offIdx {
			return 100
		}
		return 0
	})

	out := m.Solve(Params{Seed: 1})

	require.Equal(t, domain.StatusOptimal, out.Status)
	assert.Equal(t, 0, out.Objective)
	assert.NotEqual(t, domain.OFF, g.CodeAt(out.Assignment.Cells[0][0]))
}

func TestSolve_ExcludedAssignmentIsNotReturnedAgain(t *testing.T) {
	alphabet := []domain.ShiftCode{"D1", "D2"}
	g := smallGrid(t, 1, 1, alphabet)
	m := NewModel(g)

	first := m.Solve(Params{Seed: 7})
	require.Equal(t, domain.StatusOptimal, first.Status)

	m.ExcludeSolution(first.Assignment)
	second := m.Solve(Params{Seed: 7})

	require.Equal(t, domain.StatusOptimal, second.Status)
	assert.False(t, first.Assignment.Equal(second.Assignment))
}

func TestSolve_DeadlineExceeded_ReturnsFeasibleNotOptimal(t *testing.T) {
	// A grid large enough that exhaustive search won't finish instantly,
	// with a deadline already in the past so the very first depth check
	// trips the timeout after finding at least one leaf.
	alphabet := []domain.ShiftCode{"D1", "D2", domain.OFF, domain.PubOff}
	g := smallGrid(t, 4, 4, alphabet)
	m := NewModel(g)

	out := m.Solve(Params{Seed: 1, Deadline: time.Now().Add(-time.Hour)})

	assert.Contains(t, []domain.Status{domain.StatusUnknown, domain.StatusFeasible}, out.Status)
}

func TestAssignment_CloneIsIndependent(t *testing.T) {
	a := NewAssignment(1, 2)
	a.Cells[0][0] = 3
	clone := a.Clone()
	clone.Cells[0][0] = 9

	assert.Equal(t, 3, a.Cells[0][0])
	assert.Equal(t, 9, clone.Cells[0][0])
}

func TestAssignment_Equal(t *testing.T) {
	a := NewAssignment(1, 2)
	b := NewAssignment(1, 2)
	assert.True(t, a.Equal(b))

	b.Cells[0][1] = 5
	assert.False(t, a.Equal(b))
}

func TestAssignment_ToDomain(t *testing.T) {
	alphabet := []domain.ShiftCode{"D1", domain.OFF}
	g := smallGrid(t, 1, 2, alphabet)

	a := NewAssignment(1, 2)
	d1Idx, _ := g.ShiftIndex("D1")
	offIdx, _ := g.ShiftIndex(domain.OFF)
	a.Cells[0][0] = d1Idx
	a.Cells[0][1] = offIdx

	out := a.ToDomain(g)

	code, ok := out.ShiftAt("A", 1)
	require.True(t, ok)
	assert.Equal(t, domain.ShiftCode("D1"), code)

	code, ok = out.ShiftAt("A", 2)
	require.True(t, ok)
	assert.Equal(t, domain.OFF, code)
}
