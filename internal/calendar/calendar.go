// Package calendar expands recurring date patterns — weekend pairs
// for a given month, and a branch's recurring closed-day pattern —
// into concrete day-of-month integers, the same way the teacher parses
// a config.RotaOverride.RRule string with rrule.StrToRRule and walks
// it with DTStart/Between.
package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

const weeklySaturday = "FREQ=WEEKLY;BYDAY=SA"

// WeekendPairs returns, for each Saturday in the month whose following
// Sunday also falls within the month, the pair of day-of-month
// integers [saturday, sunday] that make up that weekend. A trailing
// Saturday whose Sunday spills into the next month is omitted: there
// is no in-month Sunday cell to compare it against.
func WeekendPairs(year, month, numDays int) ([][2]int, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rule, err := rrule.StrToRRule(weeklySaturday)
	if err != nil {
		return nil, fmt.Errorf("failed to parse weekend rrule: %w", err)
	}
	rule.DTStart(start)

	var pairs [][2]int
	for _, sat := range rule.Between(start, end, true) {
		if sat.Month() != time.Month(month) || sat.Day() > numDays {
			break
		}
		sun := sat.AddDate(0, 0, 1)
		if sun.Month() != sat.Month() {
			continue
		}
		pairs = append(pairs, [2]int{sat.Day(), sun.Day()})
	}
	return pairs, nil
}

// ExpandClosedDayRule parses a branch's recurring closed-day RRULE
// string (e.g. "FREQ=WEEKLY;BYDAY=MO" or
// "FREQ=MONTHLY;BYDAY=MO;BYSETPOS=1") and returns the concrete
// day-of-month integers it produces within the given year/month, the
// same rrule-walk the teacher uses to expand a RotaOverride into
// concrete dates.
func ExpandClosedDayRule(rruleString string, year, month int) ([]int, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rule, err := rrule.StrToRRule(rruleString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse closed-day rrule %q: %w", rruleString, err)
	}
	rule.DTStart(start)

	var days []int
	for _, t := range rule.Between(start, end, true) {
		if t.Month() != time.Month(month) {
			continue
		}
		days = append(days, t.Day())
	}
	return days, nil
}
