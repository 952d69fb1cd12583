// Command scheduler exposes the two-stage rota solver as a CLI, using
// an App + PersistentPreRunE init pattern. Alongside the pure
// constraint-compiler commands (solve-stage1, select-stage1,
// solve-stage2, validate-rules), it owns the ingest-problem and
// publish-allocations commands that bridge the retained
// Sheets-backed persistence layer (pkg/db, pkg/sheetssql,
// pkg/clients/sheetsclient) to the domain.SchedulingProblem/Assignment
// types via internal/ingest.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/rota-scheduler/internal/calendar"
	"github.com/jakechorley/rota-scheduler/internal/config"
	"github.com/jakechorley/rota-scheduler/internal/domain"
	"github.com/jakechorley/rota-scheduler/internal/fixtures"
	"github.com/jakechorley/rota-scheduler/internal/ingest"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/orchestrator"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/rules"
	"github.com/jakechorley/rota-scheduler/internal/scheduler/stage1"
	"github.com/jakechorley/rota-scheduler/pkg/clients/sheetsclient"
	"github.com/jakechorley/rota-scheduler/pkg/db"
	"github.com/jakechorley/rota-scheduler/pkg/sheetssql"
	"github.com/jakechorley/rota-scheduler/pkg/utils/logging"
)

// App holds the dependencies every subcommand needs, initialized once
// in PersistentPreRunE.
type App struct {
	cfg    *config.Config
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

var (
	env string
	app *App

	ruleCatalog string
	kBestFlag   int
	maxTimeFlag int
	seedFlag    int64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Two-stage constraint-programming rota scheduler",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "dev", "Environment (selects the config and OAuth client file names and the log file name)")

	rootCmd.AddCommand(solveStage1Cmd())
	rootCmd.AddCommand(selectStage1Cmd())
	rootCmd.AddCommand(solveStage2Cmd())
	rootCmd.AddCommand(validateRulesCmd())
	rootCmd.AddCommand(ingestProblemCmd())
	rootCmd.AddCommand(publishAllocationsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initApp() error {
	var err error
	app = &App{}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		app.logger.Warn("no config file found, using solver defaults", zap.Error(err))
		app.cfg = &config.Config{Solver: config.DefaultSolverConfig()}
	}

	app.orch = orchestrator.New(app.logger)
	return nil
}

func solverParams() orchestrator.Params {
	p := orchestrator.Params{
		KBest:          app.cfg.Solver.KBest,
		MaxTimeSeconds: app.cfg.Solver.MaxTimeSeconds,
		Seed:           app.cfg.Solver.Seed,
	}
	if kBestFlag != 0 {
		p.KBest = kBestFlag
	}
	if maxTimeFlag != 0 {
		p.MaxTimeSeconds = maxTimeFlag
	}
	if seedFlag != 0 {
		p.Seed = seedFlag
	}
	if p.KBest == 0 {
		p.KBest = 3
	}
	if p.MaxTimeSeconds == 0 {
		p.MaxTimeSeconds = 60
	}
	return p
}

func loadProblem(path, ruleCatalogPath string) (*domain.SchedulingProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read problem file %q: %w", path, err)
	}
	var problem domain.SchedulingProblem
	if err := json.Unmarshal(data, &problem); err != nil {
		return nil, fmt.Errorf("failed to parse problem file %q: %w", path, err)
	}
	if ruleCatalogPath != "" {
		catalog, err := fixtures.LoadRuleCatalog(ruleCatalogPath)
		if err != nil {
			return nil, err
		}
		problem.Rules = catalog
	}
	return &problem, nil
}

func addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&kBestFlag, "k-best", 0, "number of distinct solutions to enumerate (1-8)")
	cmd.Flags().IntVar(&maxTimeFlag, "max-time-seconds", 0, "solve time budget in seconds")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "deterministic branching seed")
}

func solveStage1Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve-stage1 <problem.json>",
		Short: "Solve the restricted-alphabet first pass and enumerate K-best results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := loadProblem(args[0], ruleCatalog)
			if err != nil {
				return err
			}

			runID := uuid.New().String()
			app.logger.Info("stage-1 run starting", zap.String("run_id", runID))

			results, _, err := app.orch.SolveStage1(problem, solverParams())
			if err != nil {
				return err
			}
			return printResults(results)
		},
	}
	addFlags(cmd)
	cmd.Flags().StringVar(&ruleCatalog, "rules", "", "path to a YAML rule-catalog fixture")
	return cmd
}

func selectStage1Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-stage1 <stage1-results.json> <rank>",
		Short: "Print the chosen Stage-1 result's assignment, ready to feed into solve-stage2",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read stage-1 results %q: %w", args[0], err)
			}
			var results []domain.SolveResult
			if err := json.Unmarshal(data, &results); err != nil {
				return fmt.Errorf("failed to parse stage-1 results %q: %w", args[0], err)
			}

			var rank int
			if _, err := fmt.Sscanf(args[1], "%d", &rank); err != nil || rank < 1 || rank > len(results) {
				return domain.NewInvalidInput("rank out of range")
			}

			out, err := json.MarshalIndent(results[rank-1].Assignment, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func solveStage2Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve-stage2 <problem.json> <stage1-assignment.json>",
		Short: "Pin a chosen Stage-1 assignment and solve/enumerate the full-alphabet second pass",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, err := loadProblem(args[0], ruleCatalog)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("failed to read stage-1 assignment %q: %w", args[1], err)
			}
			var stage1Assignment domain.Assignment
			if err := json.Unmarshal(data, &stage1Assignment); err != nil {
				return fmt.Errorf("failed to parse stage-1 assignment %q: %w", args[1], err)
			}

			runID := uuid.New().String()
			app.logger.Info("stage-2 run starting", zap.String("run_id", runID))

			results, err := app.orch.SolveStage2(problem, stage1Assignment, solverParams())
			if err != nil {
				return err
			}
			return printResults(results)
		},
	}
	addFlags(cmd)
	cmd.Flags().StringVar(&ruleCatalog, "rules", "", "path to a YAML rule-catalog fixture")
	return cmd
}

func validateRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-rules <rule-catalog.yaml> <problem.json>",
		Short: "Compile a rule catalog against a problem shape without solving, reporting skipped rules",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := fixtures.LoadRuleCatalog(args[0])
			if err != nil {
				return err
			}
			problem, err := loadProblem(args[1], "")
			if err != nil {
				return err
			}
			problem.Rules = catalog

			grid := stage1.Setup(problem)
			result := rules.Compile(problem, grid, app.logger)

			fmt.Printf("compiled %d hard check(s), %d soft term(s)\n", len(result.HardChecks), len(result.SoftTerms))
			if len(result.Skipped) == 0 {
				fmt.Println("no rules skipped")
				return nil
			}
			fmt.Printf("%d rule(s) skipped:\n", len(result.Skipped))
			for _, s := range result.Skipped {
				fmt.Printf("  - %s\n", s.String())
			}
			return nil
		},
	}
	return cmd
}

// openStore connects to the configured spreadsheet-backed store,
// performing the OAuth flow on first use. It is only called by the
// ingest-problem and publish-allocations commands; the pure solve
// commands never touch the network.
func openStore(ctx context.Context) (*db.DB, *sheetsclient.Client, error) {
	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load oauth client config: %w", err)
	}

	client, err := sheetsclient.NewClient(ctx, oauthCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	schema, err := sheetssql.SchemaFromModels(db.Rotation{}, db.AvailabilityRequest{}, db.Allocation{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build store schema: %w", err)
	}

	ssql, err := sheetssql.NewDB(client, app.cfg.DatabaseSheetID, schema)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	return db.NewDB(ssql), client, nil
}

func ingestProblemCmd() *cobra.Command {
	var dayShiftsFlag, nightShiftsFlag string
	cmd := &cobra.Command{
		Use:   "ingest-problem <rotation-id>",
		Short: "Pull a rotation's roster, availability, and fixed allocations from the configured spreadsheet and assemble a solver-ready problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rotationID := args[0]
			ctx := cmd.Context()

			store, sheetsC, err := openStore(ctx)
			if err != nil {
				return err
			}

			rotations, err := store.GetRotations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list rotations: %w", err)
			}
			var rotation *db.Rotation
			for i := range rotations {
				if rotations[i].ID == rotationID {
					rotation = &rotations[i]
					break
				}
			}
			if rotation == nil {
				return domain.NewInvalidInput(fmt.Sprintf("rotation %q not found", rotationID))
			}

			volunteers, err := sheetsC.ListVolunteers(app.cfg)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			requests, err := store.GetAvailabilityRequests(ctx)
			if err != nil {
				return fmt.Errorf("failed to list availability requests: %w", err)
			}

			allAllocations, err := store.GetAllocations(ctx)
			if err != nil {
				return fmt.Errorf("failed to list allocations: %w", err)
			}
			fixedAllocations := make([]db.Allocation, 0, len(allAllocations))
			for _, a := range allAllocations {
				if a.RotaID == rotationID {
					fixedAllocations = append(fixedAllocations, a)
				}
			}

			startYear, startMonth, err := rotationYearMonth(rotation.Start)
			if err != nil {
				return err
			}

			closedDays, err := closedDaysForRotation(startYear, startMonth)
			if err != nil {
				return err
			}

			var catalog []domain.RuleNode
			if ruleCatalog != "" {
				catalog, err = fixtures.LoadRuleCatalog(ruleCatalog)
				if err != nil {
					return err
				}
			}

			problem, err := ingest.BuildProblem(
				*rotation,
				volunteers,
				requests,
				fixedAllocations,
				parseShiftCodes(dayShiftsFlag),
				parseShiftCodes(nightShiftsFlag),
				closedDays,
				catalog,
			)
			if err != nil {
				return fmt.Errorf("failed to build problem: %w", err)
			}

			out, err := json.MarshalIndent(problem, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&dayShiftsFlag, "day-shifts", "D1,D2", "comma-separated day shift codes")
	cmd.Flags().StringVar(&nightShiftsFlag, "night-shifts", "Q1", "comma-separated night shift codes")
	cmd.Flags().StringVar(&ruleCatalog, "rules", "", "path to a YAML rule-catalog fixture")
	return cmd
}

func publishAllocationsCmd() *cobra.Command {
	var rotationID, startDate string
	cmd := &cobra.Command{
		Use:   "publish-allocations <solve-result.json>",
		Short: "Convert a solved assignment back into allocation rows and write them to the configured spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read solve result %q: %w", args[0], err)
			}
			var result domain.SolveResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("failed to parse solve result %q: %w", args[0], err)
			}
			if result.Status != domain.StatusOptimal && result.Status != domain.StatusFeasible {
				return domain.NewInvalidInput(fmt.Sprintf("cannot publish a %s result", result.Status))
			}

			store, sheetsC, err := openStore(ctx)
			if err != nil {
				return err
			}

			volunteers, err := sheetsC.ListVolunteers(app.cfg)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}
			volunteerIDByName := make(map[string]string, len(volunteers))
			for _, v := range volunteers {
				volunteerIDByName[fmt.Sprintf("%s %s", v.FirstName, v.LastName)] = v.ID
			}

			start, err := parseDate(startDate)
			if err != nil {
				return err
			}

			allocations := ingest.ExtractAllocations(rotationID, start, result.Assignment, volunteerIDByName)
			if err := store.InsertAllocations(allocations); err != nil {
				return fmt.Errorf("failed to write allocations: %w", err)
			}

			app.logger.Info("published allocations",
				zap.String("rotation_id", rotationID),
				zap.Int("count", len(allocations)),
			)
			fmt.Printf("wrote %d allocation(s) for rotation %s\n", len(allocations), rotationID)
			return nil
		},
	}
	cmd.Flags().StringVar(&rotationID, "rotation-id", "", "rotation this result belongs to")
	cmd.Flags().StringVar(&startDate, "start-date", "", "rotation start date, YYYY-MM-DD")
	cmd.MarkFlagRequired("rotation-id")
	cmd.MarkFlagRequired("start-date")
	return cmd
}

func parseShiftCodes(csv string) []domain.ShiftCode {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	codes := make([]domain.ShiftCode, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			codes = append(codes, domain.ShiftCode(p))
		}
	}
	return codes
}

func closedDaysForRotation(year, month int) ([]int, error) {
	seen := make(map[int]bool)
	var days []int
	for i, override := range app.cfg.RotaOverrides {
		expanded, err := calendar.ExpandClosedDayRule(override.RRule, year, month)
		if err != nil {
			return nil, fmt.Errorf("failed to expand rotaOverrides[%d]: %w", i, err)
		}
		for _, d := range expanded {
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	return days, nil
}

func rotationYearMonth(start string) (int, int, error) {
	t, err := parseDate(start)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), int(t.Month()), nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

func printResults(results []domain.SolveResult) error {
	if len(results) == 0 {
		fmt.Println("no feasible solutions found")
		return nil
	}
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
