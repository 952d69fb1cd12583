// Package orchestrator binds Stage-1 solving, an external Stage-1
// choice, and Stage-2 solving into the single stateless entry point
// spec.md §4.7 describes: (k_best, max_time_seconds, seed) in,
// SolveResult list out. It holds no solve-to-solve state itself —
// every call is a fresh model built from the SchedulingProblem handed
// to it.
package orchestrator

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/enumerate"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/extract"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/stage1"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/stage2"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/variables"
)

// Orchestrator wires the two solve stages together. It is safe for
// concurrent use across independent problems since it carries no
// mutable state of its own.
type Orchestrator struct {
	Logger *zap.Logger
}

// New constructs an Orchestrator bound to a logger.
func New(logger *zap.Logger) *Orchestrator {
	return &Orchestrator{Logger: logger}
}

// Params mirrors the three solver-tunable knobs spec.md §6.4 exposes.
type Params struct {
	KBest          int
	MaxTimeSeconds int
	Seed           int64
}

func validate(problem *domain.SchedulingProblem, p Params) error {
	if problem == nil {
		return domain.NewInvalidInput("scheduling problem is nil")
	}
	if problem.NumDays <= 0 {
		return domain.NewInvalidInput("num_days must be positive")
	}
	if len(problem.Staff) == 0 {
		return domain.NewInvalidInput("staff roster is empty")
	}
	for _, staff := range problem.Staff {
		if staff.TargetOff < 0 {
			return domain.NewInvalidInput(fmt.Sprintf("staff %q has negative target_off", staff.Name))
		}
	}
	for sd := range problem.Requests {
		if sd.Day < 1 || sd.Day > problem.NumDays {
			return domain.NewInvalidInput(fmt.Sprintf("request day %d out of range [1,%d]", sd.Day, problem.NumDays))
		}
	}
	for sd := range problem.Forbidden {
		if sd.Day < 1 || sd.Day > problem.NumDays {
			return domain.NewInvalidInput(fmt.Sprintf("forbidden day %d out of range [1,%d]", sd.Day, problem.NumDays))
		}
	}
	for sd := range problem.FixedCells {
		if sd.Day < 1 || sd.Day > problem.NumDays {
			return domain.NewInvalidInput(fmt.Sprintf("fixed_cells day %d out of range [1,%d]", sd.Day, problem.NumDays))
		}
	}
	for _, d := range problem.ClosedDays {
		if d < 1 || d > problem.NumDays {
			return domain.NewInvalidInput(fmt.Sprintf("closed day %d out of range [1,%d]", d, problem.NumDays))
		}
	}
	if p.KBest < 1 || p.KBest > 8 {
		return domain.NewInvalidInput("k_best must be between 1 and 8")
	}
	if p.MaxTimeSeconds <= 0 {
		return domain.NewInvalidInput("max_time_seconds must be positive")
	}
	return nil
}

// SolveStage1 compiles and K-best-enumerates the restricted-alphabet
// first pass, returning the grid the solve ran against (needed to
// later interpret/validate an externally-chosen Stage-1 assignment
// before Stage-2 pins it).
func (o *Orchestrator) SolveStage1(problem *domain.SchedulingProblem, p Params) ([]domain.SolveResult, *variables.Grid, error) {
	if err := validate(problem, p); err != nil {
		return nil, nil, err
	}

	grid := stage1.Setup(problem)
	model := stage1.Compile(problem, grid, o.Logger)
	deadline := time.Now().Add(time.Duration(p.MaxTimeSeconds) * time.Second)

	o.Logger.Info("stage-1 solve starting",
		zap.Int("k_best", p.KBest), zap.Int64("seed", p.Seed), zap.Int("max_time_seconds", p.MaxTimeSeconds))

	ranked := enumerate.KBest(model, p.KBest, p.Seed, deadline)
	results := toSolveResults(problem, grid, ranked)

	o.Logger.Info("stage-1 solve finished", zap.Int("results", len(results)))
	return results, grid, nil
}

// SolveStage2 pins the chosen Stage-1 assignment (night/L1/off cells
// whose code the Stage-2 alphabet carries) and solves/enumerates the
// full-alphabet second pass.
func (o *Orchestrator) SolveStage2(problem *domain.SchedulingProblem, stage1Choice domain.Assignment, p Params) ([]domain.SolveResult, error) {
	if err := validate(problem, p); err != nil {
		return nil, err
	}

	grid := stage2.Setup(problem, stage1Choice)
	model := stage2.Compile(problem, grid, o.Logger)
	deadline := time.Now().Add(time.Duration(p.MaxTimeSeconds) * time.Second)

	o.Logger.Info("stage-2 solve starting",
		zap.Int("k_best", p.KBest), zap.Int64("seed", p.Seed), zap.Int("max_time_seconds", p.MaxTimeSeconds))

	ranked := enumerate.KBest(model, p.KBest, p.Seed, deadline)
	results := toSolveResults(problem, grid, ranked)

	o.Logger.Info("stage-2 solve finished", zap.Int("results", len(results)))
	return results, nil
}

// RunFull solves Stage-1, automatically selects its best (rank-1)
// result, and feeds it into Stage-2 — the no-human-in-the-loop path.
// Callers who need the external-choice step described in spec.md §4.7
// should call SolveStage1 and SolveStage2 directly instead.
func (o *Orchestrator) RunFull(problem *domain.SchedulingProblem, p Params) ([]domain.SolveResult, error) {
	stage1Results, _, err := o.SolveStage1(problem, p)
	if err != nil {
		return nil, fmt.Errorf("stage-1 solve failed: %w", err)
	}
	if len(stage1Results) == 0 {
		return nil, nil
	}
	return o.SolveStage2(problem, stage1Results[0].Assignment, p)
}

func toSolveResults(problem *domain.SchedulingProblem, grid *variables.Grid, ranked []enumerate.Result) []domain.SolveResult {
	results := make([]domain.SolveResult, 0, len(ranked))
	for _, r := range ranked {
		assignment := r.Outcome.Assignment.ToDomain(grid)
		results = append(results, domain.SolveResult{
			Status:     r.Outcome.Status,
			Objective:  r.Outcome.Objective,
			Assignment: assignment,
			Summary:    extract.Summarize(problem, assignment),
		})
	}
	return results
}
