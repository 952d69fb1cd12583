// Package rules compiles a declarative domain.RuleNode catalog into
// the hard checks and soft penalty terms the cpsat search consumes,
// dispatching on RuleNode.Kind the way the teacher dispatches on its
// Criterion interface, except here each rule compiles to a
// constraint/term pair instead of a greedy-heuristic score.
package rules

import (
	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/cpsat"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// Default weights for balance rules that omit an explicit weight,
// carried over from original_source/solver/constraint_builder.py.
const (
	DefaultTargetOffWeight      = 30000
	DefaultBalanceShiftsWeight  = 20000
	DefaultBalanceWeekendWeight = 15000
	DefaultPreferenceWeight     = 10000
)

// Result is everything Compile produces for one stage's rule set.
type Result struct {
	HardChecks []cpsat.HardCheck
	SoftTerms  []cpsat.SoftTerm
	Skipped    []domain.RuleSkipped
}

// Compile translates every enabled rule in problem.Rules into its
// compiled form, logging one Warn per skipped rule. The grid's
// alphabet says which shift codes this stage carries (Stage-1's
// restricted alphabet vs Stage-2's full one); rules that reference a
// shift code outside the stage's alphabet are skipped for that stage
// rather than erroring, since a rule may legitimately apply to only
// one of the two stages.
func Compile(problem *domain.SchedulingProblem, grid *variables.Grid, logger *zap.Logger) Result {
	var res Result

	for _, rule := range problem.Rules {
		if !rule.Enabled {
			continue
		}

		switch rule.Kind {
		case domain.KindSequence:
			compileSequence(rule, grid, &res)
		case domain.KindRollingWindow:
			compileRollingWindow(rule, grid, &res)
		case domain.KindBasic:
			// ExactlyOneShiftPerDay is already structural; nothing to compile.
		case domain.KindSkillMatch:
			compileSkillMatch(rule, problem, grid, &res)
		case domain.KindForbidden:
			// Forbidden rules are realized as domain pruning of
			// problem.Forbidden when each stage's grid is set up, matching the
			// original's no-op ConstraintBuilder branch for this kind.
		case domain.KindPreference:
			compilePreference(rule, problem, grid, &res)
		case domain.KindBalance:
			compileBalance(rule, problem, grid, &res)
		case domain.KindCoverage:
			compileCoverage(rule, problem, grid, &res)
		default:
			skip(&res, rule, "unrecognized rule kind")
		}
	}

	for _, s := range res.Skipped {
		logger.Warn("rule skipped", zap.String("rule_id", s.RuleID), zap.String("reason", s.Reason))
	}

	return res
}

func skip(res *Result, rule domain.RuleNode, reason string) {
	res.Skipped = append(res.Skipped, domain.RuleSkipped{RuleID: rule.ID, Reason: reason})
}

// weightOr returns rule.Weight if non-zero, else fallback.
func weightOr(rule domain.RuleNode, fallback int) int {
	if rule.Weight != 0 {
		return rule.Weight
	}
	return fallback
}

func codeSet(codes []domain.ShiftCode) map[domain.ShiftCode]bool {
	set := make(map[domain.ShiftCode]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}
