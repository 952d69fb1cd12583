// Package ingest adapts the retained persistence layer (pkg/db,
// pkg/sheetssql, pkg/clients/sheetsclient) into the pure
// domain.SchedulingProblem the scheduler core consumes, and adapts a
// solved domain.Assignment back into []db.Allocation rows for
// persistence. cmd/scheduler's ingest-problem and publish-allocations
// commands are the only callers. spec.md treats persistence-adapter
// internals as an explicit non-goal; this package is deliberately
// thin — it shapes data, it does not add scheduling logic of its own.
package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/pkg/core/model"
	"github.com/jakechorley/rota-scheduler/pkg/db"
)

// dateLayout matches the "date" ssql_type columns used throughout
// pkg/db/models.go (shift_date, start).
const dateLayout = "2006-01-02"

// BuildProblem assembles a domain.SchedulingProblem for one rotation
// month from the retained store's rows.
func BuildProblem(
	rotation db.Rotation,
	volunteers []model.Volunteer,
	requests []db.AvailabilityRequest,
	fixedAllocations []db.Allocation,
	dayShifts, nightShifts []domain.ShiftCode,
	closedDays []int,
	rules []domain.RuleNode,
) (*domain.SchedulingProblem, error) {
	start, err := time.Parse(dateLayout, rotation.Start)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rotation start date %q: %w", rotation.Start, err)
	}

	staff := make([]domain.Staff, 0, len(volunteers))
	for _, v := range volunteers {
		if !v.Role.IsValid() {
			continue
		}
		staff = append(staff, domain.Staff{
			Name:   fmt.Sprintf("%s %s", v.FirstName, v.LastName),
			Skills: skillsFor(v),
		})
	}

	problem := &domain.SchedulingProblem{
		Year:        start.Year(),
		Month:       int(start.Month()),
		NumDays:     rotation.ShiftCount,
		Staff:       staff,
		DayShifts:   dayShifts,
		NightShifts: nightShifts,
		ClosedDays:  closedDays,
		Requests:    make(map[domain.StaffDay]domain.ShiftCode),
		Forbidden:   make(map[domain.StaffDay]map[domain.ShiftCode]bool),
		PrevHistory: make(map[string][3]domain.HistoryEntry),
		FixedCells:  make(map[domain.StaffDay]domain.ShiftCode),
		Rules:       rules,
	}

	volunteerNames := make(map[string]string, len(volunteers))
	for _, v := range volunteers {
		volunteerNames[v.ID] = fmt.Sprintf("%s %s", v.FirstName, v.LastName)
	}

	for _, req := range requests {
		name, ok := volunteerNames[req.VolunteerID]
		if !ok {
			continue
		}
		day, err := dayOffset(start, req.ShiftDate)
		if err != nil {
			continue
		}
		problem.Requests[domain.StaffDay{Staff: name, Day: day}] = domain.OFF
	}

	for _, alloc := range fixedAllocations {
		name, ok := volunteerNames[alloc.VolunteerID]
		if !ok || alloc.Role == "" {
			continue
		}
		day, err := dayOffset(start, alloc.ShiftDate)
		if err != nil {
			continue
		}
		problem.FixedCells[domain.StaffDay{Staff: name, Day: day}] = domain.ShiftCode(alloc.Role)
	}

	return problem, nil
}

// skillsFor derives the skill set a volunteer record implies. The
// retained roster format doesn't carry an explicit skills list, so
// team leads are treated as L1-capable; night-shift capability comes
// from the same GroupKey convention the teacher's criteria package
// already reads for team assignment.
func skillsFor(v model.Volunteer) map[domain.SkillTag]bool {
	skills := make(map[domain.SkillTag]bool)
	if v.Role == model.RoleTeamLead {
		skills[domain.SkillL1] = true
	}
	if strings.Contains(strings.ToLower(v.GroupKey), "night") {
		skills[domain.SkillNight] = true
	}
	return skills
}

func dayOffset(start time.Time, shiftDate string) (int, error) {
	d, err := time.Parse(dateLayout, shiftDate)
	if err != nil {
		return 0, err
	}
	return int(d.Sub(start).Hours()/24) + 1, nil
}

// ExtractAllocations converts a solved domain.Assignment back into
// []db.Allocation rows ready for InsertRotation-style persistence,
// the inverse of BuildProblem's FixedCells/Requests reads.
func ExtractAllocations(rotaID string, start time.Time, assignment domain.Assignment, volunteerIDByName map[string]string) []db.Allocation {
	allocations := make([]db.Allocation, 0, len(assignment.Cells))
	for sd, code := range assignment.Cells {
		date := start.AddDate(0, 0, sd.Day-1).Format(dateLayout)
		allocations = append(allocations, db.Allocation{
			ID:          rotaID + "-" + strconv.Itoa(sd.Day) + "-" + sd.Staff,
			RotaID:      rotaID,
			ShiftDate:   date,
			Role:        string(code),
			VolunteerID: volunteerIDByName[sd.Staff],
		})
	}
	return allocations
}
