// Package fixtures loads a rule catalog from YAML files under
// testdata/ (it does not load a full scheduling problem),
// the Go-native replacement for original_source's
// config/default_constraints.py shipping its default rule set as data
// rather than literals embedded in source.
package fixtures

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rota-scheduler/internal/domain"
)

// yamlRuleNode mirrors domain.RuleNode with YAML tags and flattened
// payload fields, since the on-disk format stores {type, rule: {...}}
// rather than one struct field per rule kind.
type yamlRuleNode struct {
	ID       string `yaml:"id"`
	Enabled  *bool  `yaml:"enabled"`
	Type     string `yaml:"type"`
	Weight   int    `yaml:"weight"`
	Priority int    `yaml:"priority"`
	Rule     struct {
		AfterShifts            []string          `yaml:"after_shifts"`
		NextDayMustBe          []string          `yaml:"next_day_must_be"`
		MaxConsecutiveWorkDays int               `yaml:"max_consecutive_work_days"`
		ExactlyOneShiftPerDay  bool              `yaml:"exactly_one_shift_per_day"`
		ShiftSkillMap          map[string]string `yaml:"shift_skill_map"`
		MaximizeRequestSatisfaction bool         `yaml:"maximize_request_satisfaction"`
		PreferFullWeekendOffOrWork  bool         `yaml:"prefer_full_weekend_off_or_work"`
		TargetOff              bool              `yaml:"target_off"`
		BalanceShifts          []string          `yaml:"balance_shifts"`
		AmongStaffWithSkill    string            `yaml:"among_staff_with_skill"`
		BalanceWeekendWork     bool              `yaml:"balance_weekend_work"`
		MinStaffPerDay         int               `yaml:"min_staff_per_day"`
		ExcludeShifts          []string          `yaml:"exclude_shifts"`
		ShiftCode              string            `yaml:"shift_code"`
		ExactlyPerDay          int               `yaml:"exactly_per_day"`
		OnClosedDays           bool              `yaml:"on_closed_days"`
		NightShiftCount        int               `yaml:"night_shift_count"`
	} `yaml:"rule"`
}

// yamlCatalog is the top-level shape of a rule-catalog fixture file.
type yamlCatalog struct {
	Rules []yamlRuleNode `yaml:"rules"`
}

// LoadRuleCatalog parses a rule-catalog YAML fixture into a
// []domain.RuleNode, used by both tests and the validate-rules CLI
// command.
func LoadRuleCatalog(path string) ([]domain.RuleNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule catalog %q: %w", path, err)
	}

	var catalog yamlCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse rule catalog %q: %w", path, err)
	}

	nodes := make([]domain.RuleNode, 0, len(catalog.Rules))
	for _, y := range catalog.Rules {
		nodes = append(nodes, toDomainRule(y))
	}
	return nodes, nil
}

func toDomainRule(y yamlRuleNode) domain.RuleNode {
	enabled := true
	if y.Enabled != nil {
		enabled = *y.Enabled
	}

	node := domain.RuleNode{
		ID:       y.ID,
		Enabled:  enabled,
		Kind:     domain.RuleKind(y.Type),
		Weight:   y.Weight,
		Priority: y.Priority,
	}

	switch node.Kind {
	case domain.KindSequence:
		node.Sequence = &domain.SequenceRule{
			AfterShifts:   toShiftCodes(y.Rule.AfterShifts),
			NextDayMustBe: toShiftCodes(y.Rule.NextDayMustBe),
		}
	case domain.KindRollingWindow:
		node.RollingWindow = &domain.RollingWindowRule{MaxConsecutiveWorkDays: y.Rule.MaxConsecutiveWorkDays}
	case domain.KindBasic:
		node.Basic = &domain.BasicRule{ExactlyOneShiftPerDay: y.Rule.ExactlyOneShiftPerDay}
	case domain.KindSkillMatch:
		skillMap := make(map[domain.ShiftCode]domain.SkillTag, len(y.Rule.ShiftSkillMap))
		for shift, skill := range y.Rule.ShiftSkillMap {
			skillMap[domain.ShiftCode(shift)] = domain.SkillTag(skill)
		}
		node.SkillMatch = &domain.SkillMatchRule{ShiftSkillMap: skillMap}
	case domain.KindPreference:
		node.Preference = &domain.PreferenceRule{
			MaximizeRequestSatisfaction: y.Rule.MaximizeRequestSatisfaction,
			PreferFullWeekendOffOrWork:  y.Rule.PreferFullWeekendOffOrWork,
		}
	case domain.KindBalance:
		node.Balance = &domain.BalanceRule{
			TargetOffDaysField: y.Rule.TargetOff,
			BalanceShifts:      toShiftCodes(y.Rule.BalanceShifts),
			AmongStaffWithSkill: domain.SkillTag(y.Rule.AmongStaffWithSkill),
			BalanceWeekendWork:  y.Rule.BalanceWeekendWork,
		}
	case domain.KindCoverage:
		node.Coverage = &domain.CoverageRule{
			MinStaffPerDay:  y.Rule.MinStaffPerDay,
			ExcludeShifts:   toShiftCodes(y.Rule.ExcludeShifts),
			ShiftCode:       domain.ShiftCode(y.Rule.ShiftCode),
			ExactlyPerDay:   y.Rule.ExactlyPerDay,
			OnClosedDays:    y.Rule.OnClosedDays,
			NightShiftCount: y.Rule.NightShiftCount,
		}
	}

	return node
}

func toShiftCodes(in []string) []domain.ShiftCode {
	if len(in) == 0 {
		return nil
	}
	out := make([]domain.ShiftCode, len(in))
	for i, s := range in {
		out[i] = domain.ShiftCode(s)
	}
	return out
}
