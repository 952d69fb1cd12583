package enumerate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func smallModel(t *testing.T, numStaff, numDays int, alphabet []domain.ShiftCode) *cpsat.Model {
	t.Helper()
	staff := make([]domain.Staff, numStaff)
	for i := range staff {
		staff[i] = domain.Staff{Name: string(rune('A' + i))}
	}
	g := variables.NewGrid(staff, numDays, alphabet)
	return cpsat.NewModel(g)
}

func TestKBest_ReturnsDistinctAssignments(t *testing.T) {
	m := smallModel(t, 2, 2, []domain.ShiftCode{"D1", "D2"})

	results := KBest(m, 3, 1, time.Time{})

	require.NotEmpty(t, results)
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			assert.False(t, results[i].Outcome.Assignment.Equal(results[j].Outcome.Assignment))
		}
	}
}

func TestKBest_InfeasibleFirstIterationReturnsEmpty(t *testing.T) {
	m := smallModel(t, 1, 1, []domain.ShiftCode{"D1"})
	m.AddHardCheck(func(g *variables.Grid, a cpsat.Assignment, throughDay int) bool { return false })

	results := KBest(m, 3, 1, time.Time{})

	assert.Empty(t, results)
}

func TestKBest_KEqualsOneDoesNotPostNoGoodCut(t *testing.T) {
	m := smallModel(t, 1, 1, []domain.ShiftCode{"D1"})

	results := KBest(m, 1, 1, time.Time{})

	require.Len(t, results, 1)
	assert.Empty(t, m.Excluded)
}

func TestKBest_StopsAtKEvenWithMoreFeasibleSolutions(t *testing.T) {
	m := smallModel(t, 1, 1, []domain.ShiftCode{"D1", "D2", "D3", "D4"})

	results := KBest(m, 2, 1, time.Time{})

	assert.Len(t, results, 2)
}
