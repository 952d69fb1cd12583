package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

func TestCompileSkillMatch_ForbidsShiftForUnskilledStaff(t *testing.T) {
	staff := []domain.Staff{
		{Name: "A", Skills: map[domain.SkillTag]bool{}},
		{Name: "B", Skills: map[domain.SkillTag]bool{domain.SkillNight: true}},
	}
	g := variables.NewGrid(staff, 1, []domain.ShiftCode{"Q1", domain.OFF})
	problem := &domain.SchedulingProblem{Staff: staff}
	rule := domain.RuleNode{ID: "sm", Kind: domain.KindSkillMatch, SkillMatch: &domain.SkillMatchRule{
		ShiftSkillMap: map[domain.ShiftCode]domain.SkillTag{"Q1": domain.SkillNight},
	}}

	var res Result
	compileSkillMatch(rule, problem, g, &res)

	assert.False(t, g.IsAllowed(0, 1, "Q1"))
	assert.True(t, g.IsAllowed(1, 1, "Q1"))

	require.Len(t, res.HardChecks, 1)
	violating := assignmentOf(g, []domain.ShiftCode{"Q1"}, []domain.ShiftCode{domain.OFF})
	assert.False(t, res.HardChecks[0](g, violating, 1))

	ok := assignmentOf(g, []domain.ShiftCode{domain.OFF}, []domain.ShiftCode{"Q1"})
	assert.True(t, res.HardChecks[0](g, ok, 1))
}

func TestCompileSkillMatch_MissingPayloadIsSkipped(t *testing.T) {
	g := variables.NewGrid(staffFixture("A"), 1, []domain.ShiftCode{domain.OFF})
	rule := domain.RuleNode{ID: "sm", Kind: domain.KindSkillMatch}

	var res Result
	compileSkillMatch(rule, &domain.SchedulingProblem{}, g, &res)

	require.Len(t, res.Skipped, 1)
}

func TestCompileSkillMatch_ShiftOutsideStageAlphabetIsIgnored(t *testing.T) {
	staff := []domain.Staff{{Name: "A"}}
	g := variables.NewGrid(staff, 1, []domain.ShiftCode{domain.OFF})
	rule := domain.RuleNode{ID: "sm", Kind: domain.KindSkillMatch, SkillMatch: &domain.SkillMatchRule{
		ShiftSkillMap: map[domain.ShiftCode]domain.SkillTag{"Q1": domain.SkillNight},
	}}

	var res Result
	compileSkillMatch(rule, &domain.SchedulingProblem{Staff: staff}, g, &res)

	assert.True(t, g.IsAllowed(0, 1, domain.OFF))
	require.Empty(t, res.Skipped)
}
