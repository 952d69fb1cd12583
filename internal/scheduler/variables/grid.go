// Package variables builds the decision-variable grid the rule
// compiler and solver operate over: one cell per (staff, day), whose
// domain is the subset of the stage's shift alphabet still allowed for
// that cell. The exactly-one-shift-per-day invariant (spec.md §4.1) is
// structural: a solved grid always carries exactly one chosen shift
// index per cell, never a separate constraint to satisfy.
package variables

import "github.com/jakechorley/rota-scheduler/internal/domain"

// Grid is a pure builder: it owns the (staff, day, shift) domain table
// and exposes lookup by (staffIndex, day, shiftCode), mirroring the
// spec's Boolean decision variables x[s,d,k] without materializing
// S*D*A separate objects.
type Grid struct {
	Staff     []domain.Staff
	NumDays   int
	Alphabet  []domain.ShiftCode
	codeIndex map[domain.ShiftCode]int

	// cellDomain[s][d-1] is the set of shift indices still allowed for
	// staff s on day d. A cell starts with every alphabet index
	// allowed; Forbid/Fix narrow it.
	cellDomain [][][]bool
}

// NewGrid interns the alphabet into dense indices and initializes
// every cell's domain to the full alphabet.
func NewGrid(staff []domain.Staff, numDays int, alphabet []domain.ShiftCode) *Grid {
	codeIndex := make(map[domain.ShiftCode]int, len(alphabet))
	for i, code := range alphabet {
		codeIndex[code] = i
	}

	cellDomain := make([][][]bool, len(staff))
	for s := range staff {
		cellDomain[s] = make([][]bool, numDays)
		for d := 0; d < numDays; d++ {
			allowed := make([]bool, len(alphabet))
			for k := range allowed {
				allowed[k] = true
			}
			cellDomain[s][d] = allowed
		}
	}

	return &Grid{
		Staff:      staff,
		NumDays:    numDays,
		Alphabet:   alphabet,
		codeIndex:  codeIndex,
		cellDomain: cellDomain,
	}
}

// ShiftIndex returns the dense index for a shift code in this grid's
// alphabet, and whether the code belongs to it.
func (g *Grid) ShiftIndex(code domain.ShiftCode) (int, bool) {
	idx, ok := g.codeIndex[code]
	return idx, ok
}

// StaffIndex returns the index of the named staff member, or -1.
func (g *Grid) StaffIndex(name string) int {
	for i, st := range g.Staff {
		if st.Name == name {
			return i
		}
	}
	return -1
}

// Forbid removes a shift code from a cell's domain. A no-op if the
// code is not in this grid's alphabet or staff/day are out of range.
func (g *Grid) Forbid(staffIdx, day int, code domain.ShiftCode) {
	idx, ok := g.codeIndex[code]
	if !ok || staffIdx < 0 || staffIdx >= len(g.Staff) || day < 1 || day > g.NumDays {
		return
	}
	g.cellDomain[staffIdx][day-1][idx] = false
}

// Fix narrows a cell's domain down to exactly one shift code,
// implementing Stage-2 pinning and fixed_cells equality constraints.
func (g *Grid) Fix(staffIdx, day int, code domain.ShiftCode) {
	idx, ok := g.codeIndex[code]
	if !ok || staffIdx < 0 || staffIdx >= len(g.Staff) || day < 1 || day > g.NumDays {
		return
	}
	domainSlice := g.cellDomain[staffIdx][day-1]
	for k := range domainSlice {
		domainSlice[k] = k == idx
	}
}

// AllowedShifts returns the shift indices still allowed for a cell, in
// alphabet order.
func (g *Grid) AllowedShifts(staffIdx, day int) []int {
	var out []int
	for k, allowed := range g.cellDomain[staffIdx][day-1] {
		if allowed {
			out = append(out, k)
		}
	}
	return out
}

// IsAllowed reports whether a shift code is still in a cell's domain.
func (g *Grid) IsAllowed(staffIdx, day int, code domain.ShiftCode) bool {
	idx, ok := g.codeIndex[code]
	if !ok {
		return false
	}
	return g.cellDomain[staffIdx][day-1][idx]
}

// CodeAt returns the shift code for a dense shift index.
func (g *Grid) CodeAt(idx int) domain.ShiftCode {
	return g.Alphabet[idx]
}
