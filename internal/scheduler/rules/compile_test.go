package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func staffFixture(names ...string) []domain.Staff {
	out := make([]domain.Staff, len(names))
	for i, n := range names {
		out[i] = domain.Staff{Name: n, Skills: map[domain.SkillTag]bool{}}
	}
	return out
}

func assignmentOf(g *variables.Grid, codes ...[]domain.ShiftCode) cpsat.Assignment {
	a := cpsat.NewAssignment(len(codes), len(codes[0]))
	for s, row := range codes {
		for d, code := range row {
			idx, ok := g.ShiftIndex(code)
			if !ok {
				continue
			}
			a.Cells[s][d] = idx
		}
	}
	return a
}

func TestCompile_DisabledRuleIsSkippedEntirely(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	problem := &domain.SchedulingProblem{Rules: []domain.RuleNode{
		{ID: "r1", Enabled: false, Kind: domain.KindBasic},
	}}

	res := Compile(problem, g, zap.NewNop())

	assert.Empty(t, res.HardChecks)
	assert.Empty(t, res.SoftTerms)
	assert.Empty(t, res.Skipped)
}

func TestCompile_UnrecognizedKindIsSkippedWithDiagnostic(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	problem := &domain.SchedulingProblem{Rules: []domain.RuleNode{
		{ID: "r1", Enabled: true, Kind: "not_a_real_kind"},
	}}

	res := Compile(problem, g, zap.NewNop())

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "r1", res.Skipped[0].RuleID)
}

func TestCompile_BasicRuleIsAlwaysNoOp(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	problem := &domain.SchedulingProblem{Rules: []domain.RuleNode{
		{ID: "r1", Enabled: true, Kind: domain.KindBasic, Basic: &domain.BasicRule{ExactlyOneShiftPerDay: true}},
	}}

	res := Compile(problem, g, zap.NewNop())

	assert.Empty(t, res.HardChecks)
	assert.Empty(t, res.SoftTerms)
	assert.Empty(t, res.Skipped)
}

func TestCompile_ForbiddenKindCompilesToNothing(t *testing.T) {
	// Forbidden is realized via problem.Forbidden domain pruning at grid
	// setup time, not by the rule compiler; the rule entry itself is a
	// documented no-op here.
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	problem := &domain.SchedulingProblem{Rules: []domain.RuleNode{
		{ID: "r1", Enabled: true, Kind: domain.KindForbidden},
	}}

	res := Compile(problem, g, zap.NewNop())

	assert.Empty(t, res.HardChecks)
	assert.Empty(t, res.SoftTerms)
	assert.Empty(t, res.Skipped)
}

func TestWeightOr_FallsBackWhenZero(t *testing.T) {
	assert.Equal(t, 42, weightOr(domain.RuleNode{Weight: 0}, 42))
	assert.Equal(t, 7, weightOr(domain.RuleNode{Weight: 7}, 42))
}
