// Package extract derives the human-facing per-staff and per-day
// rollups from a solved assignment, matching
// original_source/solver/base_solver.py's extract_schedule_df and
// build_summary_df — computed once, directly from the grid, with no
// second model pass.
package extract

import "github.com/jakechorley/rota-scheduler/internal/domain"

// Summarize builds a ResultSummary from a solved Assignment.
func Summarize(problem *domain.SchedulingProblem, assignment domain.Assignment) domain.ResultSummary {
	summary := domain.ResultSummary{
		StaffRows: make([]domain.StaffRow, 0, len(problem.Staff)),
		DayRows:   make([]domain.DayCoverage, 0, problem.NumDays),
	}

	for _, staff := range problem.Staff {
		row := domain.StaffRow{
			Name:   staff.Name,
			Shifts: make(map[int]domain.ShiftCode, problem.NumDays),
		}
		for day := 1; day <= problem.NumDays; day++ {
			code, ok := assignment.ShiftAt(staff.Name, day)
			if !ok {
				continue
			}
			row.Shifts[day] = code
			if code == domain.OFF || code == domain.PubOff {
				row.OffDays++
			} else {
				row.WorkDays++
			}
		}
		summary.StaffRows = append(summary.StaffRows, row)
	}

	for day := 1; day <= problem.NumDays; day++ {
		cov := domain.DayCoverage{
			Day:    day,
			Counts: make(map[domain.ShiftCode]int),
		}
		for _, staff := range problem.Staff {
			code, ok := assignment.ShiftAt(staff.Name, day)
			if !ok {
				continue
			}
			cov.Counts[code]++
			if code != domain.OFF && code != domain.PubOff {
				cov.WorkCount++
			}
		}
		summary.DayRows = append(summary.DayRows, cov)
	}

	return summary
}
