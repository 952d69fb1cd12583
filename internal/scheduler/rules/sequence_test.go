package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func TestCompileSequence_ForcesNextDayShift(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 2, []domain.ShiftCode{"Q1", domain.OFF, "D1"})
	rule := domain.RuleNode{ID: "seq", Kind: domain.KindSequence, Sequence: &domain.SequenceRule{
		AfterShifts:   []domain.ShiftCode{"Q1"},
		NextDayMustBe: []domain.ShiftCode{domain.OFF},
	}}

	var res Result
	compileSequence(rule, g, &res)
	require.Len(t, res.HardChecks, 1)
	check := res.HardChecks[0]

	ok := assignmentOf(g, []domain.ShiftCode{"Q1", domain.OFF})
	assert.True(t, check(g, ok, 2))

	violating := assignmentOf(g, []domain.ShiftCode{"Q1", "D1"})
	assert.False(t, check(g, violating, 2))
}

func TestCompileSequence_DoesNotCheckBeforeDay2(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 2, []domain.ShiftCode{"Q1", domain.OFF})
	rule := domain.RuleNode{ID: "seq", Kind: domain.KindSequence, Sequence: &domain.SequenceRule{
		AfterShifts:   []domain.ShiftCode{"Q1"},
		NextDayMustBe: []domain.ShiftCode{domain.OFF},
	}}

	var res Result
	compileSequence(rule, g, &res)

	a := assignmentOf(g, []domain.ShiftCode{"Q1", "Q1"}) // only day 1 assigned conceptually
	assert.True(t, res.HardChecks[0](g, a, 1))
}

func TestCompileSequence_MissingPayloadIsSkipped(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	rule := domain.RuleNode{ID: "seq", Kind: domain.KindSequence}

	var res Result
	compileSequence(rule, g, &res)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "seq", res.Skipped[0].RuleID)
}
