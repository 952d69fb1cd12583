package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func TestCompileRollingWindow_RejectsTooManyConsecutiveWorkDays(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 6, []domain.ShiftCode{"D1", domain.OFF})
	rule := domain.RuleNode{ID: "rw", Kind: domain.KindRollingWindow, RollingWindow: &domain.RollingWindowRule{MaxConsecutiveWorkDays: 5}}

	var res Result
	compileRollingWindow(rule, g, &res)
	require.Len(t, res.HardChecks, 1)
	check := res.HardChecks[0]

	sixConsecutive := assignmentOf(g, []domain.ShiftCode{"D1", "D1", "D1", "D1", "D1", "D1"})
	assert.False(t, check(g, sixConsecutive, 6))

	fiveThenOff := assignmentOf(g, []domain.ShiftCode{"D1", "D1", "D1", "D1", "D1", domain.OFF})
	assert.True(t, check(g, fiveThenOff, 6))
}

func TestCompileRollingWindow_SkipsUntilWindowComplete(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 6, []domain.ShiftCode{"D1"})
	rule := domain.RuleNode{ID: "rw", Kind: domain.KindRollingWindow, RollingWindow: &domain.RollingWindowRule{MaxConsecutiveWorkDays: 5}}

	var res Result
	compileRollingWindow(rule, g, &res)

	a := assignmentOf(g, []domain.ShiftCode{"D1", "D1", "D1", "D1", "D1", "D1"})
	// Window length is 6 (max+1); before throughDay reaches 6 it can't fail.
	assert.True(t, res.HardChecks[0](g, a, 5))
}

func TestCompileRollingWindow_MissingPayloadIsSkipped(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	rule := domain.RuleNode{ID: "rw", Kind: domain.KindRollingWindow}

	var res Result
	compileRollingWindow(rule, g, &res)

	require.Len(t, res.Skipped, 1)
}
