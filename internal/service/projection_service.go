package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/finanzas-app/backend/internal/auth"
	"github.com/finanzas-app/backend/internal/model"
	"github.com/finanzas-app/backend/internal/report"
	"github.com/finanzas-app/backend/internal/store"
)

// ProjectionRequest selects the projection mode. RecurringOnly excludes
// occasional categories from the historical pass.
type ProjectionRequest struct {
	UserID        string
	RecurringOnly bool
}

// ProjectionResponse carries the historical averages and six flat forward
// months.
type ProjectionResponse struct {
	Averages  report.Averages         `json:"averages"`
	Projected []report.ProjectedMonth `json:"projected"`
}

// GetProjection extrapolates the historical monthly averages forward.
func (s *ReportService) GetProjection(ctx context.Context, req ProjectionRequest) (*ProjectionResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	flows := report.BucketMonthly(txns, cats, req.RecurringOnly)
	avg := report.HistoricalAverages(flows)
	last := report.LastObservedMonth(flows, s.now())

	return &ProjectionResponse{
		Averages:  roundedAverages(avg),
		Projected: report.ProjectForward(last, report.ForwardMonths, avg.Income, avg.Expense),
	}, nil
}

// ScenarioRequest adjusts the projection: an absolute monthly income shift
// and an optional percentage cut of one stability type's average spend.
type ScenarioRequest struct {
	UserID           string
	IncomeDelta      float64
	StabilityType    model.StabilityType
	PercentReduction float64
}

// ScenarioResponse returns the unmodified and adjusted aggregates side by
// side for comparison.
type ScenarioResponse struct {
	Current           report.Averages         `json:"current"`
	Scenario          report.Averages         `json:"scenario"`
	CurrentProjected  []report.ProjectedMonth `json:"current_projected"`
	ScenarioProjected []report.ProjectedMonth `json:"scenario_projected"`
}

// GetSimulatedScenario projects both the unmodified averages and the
// what-if adjustment.
func (s *ReportService) GetSimulatedScenario(ctx context.Context, req ScenarioRequest) (*ScenarioResponse, error) {
	userID, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if req.PercentReduction < 0 || req.PercentReduction > 100 {
		return nil, invalidArgument("percent_reduction must be between 0 and 100")
	}
	if req.StabilityType != "" {
		switch req.StabilityType {
		case model.StabilityFixed, model.StabilityVariable, model.StabilityOccasional:
		default:
			return nil, invalidArgument("invalid stability_type %q", req.StabilityType)
		}
	}
	if req.StabilityType == "" && req.PercentReduction != 0 {
		return nil, invalidArgument("percent_reduction requires a stability_type")
	}

	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	flows := report.BucketMonthly(txns, cats, false)
	current := report.HistoricalAverages(flows)
	last := report.LastObservedMonth(flows, s.now())

	adj := report.ScenarioAdjustment{IncomeDelta: req.IncomeDelta}
	if req.StabilityType != "" {
		adj.ExpenseReduction = &report.StabilityReduction{
			StabilityType: req.StabilityType,
			Percent:       req.PercentReduction,
		}
	}
	scenario := report.ApplyScenario(current, report.AverageExpenseByStability(txns, cats), adj)

	return &ScenarioResponse{
		Current:           roundedAverages(current),
		Scenario:          roundedAverages(scenario),
		CurrentProjected:  report.ProjectForward(last, report.ForwardMonths, current.Income, current.Expense),
		ScenarioProjected: report.ProjectForward(last, report.ForwardMonths, scenario.Income, scenario.Expense),
	}, nil
}

// ScenarioProjection is one named preset's forward months.
type ScenarioProjection struct {
	Scenario string                  `json:"scenario"`
	Months   []report.ProjectedMonth `json:"months"`
}

// MultiScenarioResponse holds the three preset projections.
type MultiScenarioResponse struct {
	Averages  report.Averages      `json:"averages"`
	Scenarios []ScenarioProjection `json:"scenarios"`
}

// GetMultiScenarioProjection applies the conservative, neutral and
// optimistic factors across the six forward months.
func (s *ReportService) GetMultiScenarioProjection(ctx context.Context, requestedUserID string) (*MultiScenarioResponse, error) {
	userID, err := s.resolveUser(ctx, requestedUserID)
	if err != nil {
		return nil, err
	}

	txns, cats, err := s.fetchTransactionsAndCategories(ctx, userID, store.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	flows := report.BucketMonthly(txns, cats, false)
	avg := report.HistoricalAverages(flows)
	last := report.LastObservedMonth(flows, s.now())

	scenarios := make([]ScenarioProjection, 0, 3)
	for _, f := range report.ScenarioFactors() {
		scenarios = append(scenarios, ScenarioProjection{
			Scenario: f.Name,
			Months:   report.ProjectForward(last, report.ForwardMonths, avg.Income*f.IncomeFactor, avg.Expense*f.ExpenseFactor),
		})
	}

	return &MultiScenarioResponse{
		Averages:  roundedAverages(avg),
		Scenarios: scenarios,
	}, nil
}

// GoalOutlookRow estimates when one goal completes at the historical
// average saving rate.
type GoalOutlookRow struct {
	GoalID        string  `json:"goal_id"`
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"target_amount"`
	CurrentAmount float64 `json:"current_amount"`
	Remaining     float64 `json:"remaining"`
	MonthsToGoal  int     `json:"months_to_goal"`
	ExpectedMonth string  `json:"expected_month,omitempty"`
	Reachable     bool    `json:"reachable"`
}

// GoalOutlookResponse lists every goal with its completion estimate.
type GoalOutlookResponse struct {
	AvgMonthlySaving float64          `json:"avg_monthly_saving"`
	Data             []GoalOutlookRow `json:"data"`
}

// GetGoalOutlook projects each goal's completion from the average saving.
// A non-positive saving rate marks unfinished goals unreachable instead of
// dividing by zero.
func (s *ReportService) GetGoalOutlook(ctx context.Context, requestedUserID string) (*GoalOutlookResponse, error) {
	userID, err := s.resolveUser(ctx, requestedUserID)
	if err != nil {
		return nil, err
	}

	var (
		goals      []*model.Goal
		txns       []*model.Transaction
		categories []*model.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		goals, err = s.store.ListGoals(gctx, userID)
		return auth.WrapStoreError("list goals", err)
	})
	g.Go(func() error {
		var err error
		txns, err = s.store.ListTransactions(gctx, userID, store.TransactionFilter{})
		return auth.WrapStoreError("list transactions", err)
	})
	g.Go(func() error {
		var err error
		categories, err = s.store.ListCategories(gctx, userID)
		return auth.WrapStoreError("list categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flows := report.BucketMonthly(txns, report.CategoryIndex(categories), false)
	saving := report.HistoricalAverages(flows).Saving

	now := s.now()
	rows := make([]GoalOutlookRow, 0, len(goals))
	for _, goal := range goals {
		remaining := goal.TargetAmount - goal.CurrentAmount
		row := GoalOutlookRow{
			GoalID:        goal.ID,
			Name:          goal.Name,
			TargetAmount:  report.Round2(goal.TargetAmount),
			CurrentAmount: report.Round2(goal.CurrentAmount),
			Remaining:     report.Round2(math.Max(remaining, 0)),
		}
		switch {
		case remaining <= 0:
			row.Reachable = true
			row.ExpectedMonth = report.MonthKey(now)
		case saving > 0:
			row.Reachable = true
			row.MonthsToGoal = int(math.Ceil(remaining / saving))
			y, m := report.AddMonths(now.Year(), int(now.Month()), row.MonthsToGoal)
			row.ExpectedMonth = report.MonthKey(monthStart(y, m))
		}
		rows = append(rows, row)
	}

	return &GoalOutlookResponse{
		AvgMonthlySaving: report.Round2(saving),
		Data:             rows,
	}, nil
}

// roundedAverages applies presentation rounding to an averages block.
func roundedAverages(a report.Averages) report.Averages {
	a.Income = report.Round2(a.Income)
	a.Expense = report.Round2(a.Expense)
	a.Saving = report.Round2(a.Saving)
	return a
}
