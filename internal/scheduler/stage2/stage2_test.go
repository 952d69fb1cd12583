package stage2

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
)

func TestSetup_AlphabetIsDayPlusNightPlusRest(t *testing.T) {
	problem := &domain.SchedulingProblem{
		Staff:       []domain.Staff{{Name: "A"}},
		NumDays:     1,
		DayShifts:   []domain.ShiftCode{"D1"},
		NightShifts: []domain.ShiftCode{"Q1"},
	}

	g := Setup(problem, domain.Assignment{})

	for _, code := range []domain.ShiftCode{"D1", "Q1", domain.OFF, domain.PubOff} {
		_, ok := g.ShiftIndex(code)
		assert.True(t, ok)
	}
}

// TestScenarioF_StagePinningIsPreserved is spec.md §8 Scenario F:
// Stage-1 assigned A/1=Q1, A/2=OFF; Stage-2 must keep those exact
// values while freely assigning day shifts to B.
func TestScenarioF_StagePinningIsPreserved(t *testing.T) {
	problem := &domain.SchedulingProblem{
		Staff:       []domain.Staff{{Name: "A"}, {Name: "B"}},
		NumDays:     2,
		DayShifts:   []domain.ShiftCode{"D1"},
		NightShifts: []domain.ShiftCode{"Q1"},
	}
	stage1Result := domain.Assignment{Cells: map[domain.StaffDay]domain.ShiftCode{
		{Staff: "A", Day: 1}: "Q1",
		{Staff: "A", Day: 2}: domain.OFF,
	}}

	g := Setup(problem, stage1Result)
	m := Compile(problem, g, zap.NewNop())
	out := m.Solve(cpsat.Params{Seed: 1, Deadline: time.Now().Add(5 * time.Second)})

	require.Equal(t, domain.StatusOptimal, out.Status)
	assignment := out.Assignment.ToDomain(g)

	day1, _ := assignment.ShiftAt("A", 1)
	day2, _ := assignment.ShiftAt("A", 2)
	assert.Equal(t, domain.ShiftCode("Q1"), day1)
	assert.Equal(t, domain.OFF, day2)
}

func TestAddDailyCoverage_SkipsClosedDays(t *testing.T) {
	problem := &domain.SchedulingProblem{
		Staff:      []domain.Staff{{Name: "A"}},
		NumDays:    2,
		DayShifts:  []domain.ShiftCode{"D1"},
		ClosedDays: []int{2},
	}
	g := Setup(problem, domain.Assignment{})
	m := cpsat.NewModel(g)
	addDailyCoverage(problem, g, m)
	require.Len(t, m.SoftTerms, 1)

	a := cpsat.NewAssignment(1, 2)
	offIdx, _ := g.ShiftIndex(domain.OFF)
	a.Cells[0][0] = offIdx // shortage on the open day
	a.Cells[0][1] = offIdx // shortage on the closed day, must be ignored

	penalty := m.SoftTerms[0](g, a)
	assert.Equal(t, DefaultMinCoverage*WeightDailyCoverage, penalty)
}

func TestAddDayShiftRequestConstraints_OnlyCountsDayShiftRequests(t *testing.T) {
	problem := &domain.SchedulingProblem{
		Staff:     []domain.Staff{{Name: "A"}},
		NumDays:   1,
		DayShifts: []domain.ShiftCode{"D1"},
		Requests:  map[domain.StaffDay]domain.ShiftCode{{Staff: "A", Day: 1}: domain.OFF},
	}
	g := Setup(problem, domain.Assignment{})
	m := cpsat.NewModel(g)
	addDayShiftRequestConstraints(problem, g, m)

	// The only request is for OFF, not a day shift, so no soft term is
	// added at all.
	assert.Empty(t, m.SoftTerms)
}
