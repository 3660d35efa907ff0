// Package report implements the budget report engine: a stateless
// aggregation over the transactional store producing goal progress,
// prior-month category summaries, and grand totals for one user.
package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/core"
)

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// BuildReport computes the full dashboard report for the user at the given
// reference date. The reference date is always explicit so reports stay
// deterministic and testable; callers resolve "now" themselves.
//
// Every call recomputes from the live store. The three independent query
// groups (goals, own contributions, category summaries) run concurrently;
// a write landing between them may mix pre- and post-write state.
func (e *Engine) BuildReport(ctx context.Context, user core.UserID, ref time.Time) (core.Report, error) {
	month := core.ReportingMonth(ref)

	var (
		progress  []core.GoalProgress
		others    []core.Contribution
		own       []core.Contribution
		summaries []core.CategorySummary
		totalExp  core.Money
		totalInc  core.Money
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		progress, others, err = e.goalSection(gctx, user)
		return err
	})

	g.Go(func() error {
		contribs, err := e.store.ContributionsByContributor(gctx, user)
		if err != nil {
			return fmt.Errorf("own contributions: %w", err)
		}
		own = contribs
		return nil
	})

	g.Go(func() error {
		var err error
		summaries, totalExp, totalInc, err = e.categorySection(gctx, user, month)
		return err
	})

	if err := g.Wait(); err != nil {
		return core.Report{}, err
	}

	return core.Report{
		GoalProgress:                  emptyNotNil(progress),
		OwnContributions:              emptyNotNil(own),
		OthersContributionsToOwnGoals: emptyNotNil(others),
		CategorySummaries:             emptyNotNil(summaries),
		TotalExpenses:                 totalExp,
		TotalIncomes:                  totalInc,
		TotalBalance:                  totalInc.Sub(totalExp),
	}, nil
}

// goalSection computes per-goal progress and the contributions other users
// made toward this user's goals. Goal order follows store iteration order.
func (e *Engine) goalSection(ctx context.Context, user core.UserID) ([]core.GoalProgress, []core.Contribution, error) {
	goals, err := e.store.GoalsOwnedBy(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("goals for user %d: %w", user, err)
	}

	progress := make([]core.GoalProgress, 0, len(goals))
	goalIDs := make([]int64, 0, len(goals))
	for _, goal := range goals {
		contribs, err := e.store.ContributionsForGoal(ctx, goal.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("contributions for goal %d: %w", goal.ID, err)
		}
		var total core.Money
		for _, c := range contribs {
			total = total.Add(c.Amount)
		}
		progress = append(progress, core.GoalProgress{
			Goal:               goal,
			TotalContributions: total,
			ProgressPercent:    core.ProgressPercent(total, goal.Target),
		})
		goalIDs = append(goalIDs, goal.ID)
	}

	// Without goals there is nothing others could have contributed to.
	if len(goalIDs) == 0 {
		return progress, nil, nil
	}

	others, err := e.store.ContributionsToGoalsExcluding(ctx, user, goalIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("others' contributions for user %d: %w", user, err)
	}
	return progress, others, nil
}

// categorySection sums the user's incomes and expenses per category for the
// reporting month and accumulates the grand totals. Every category appears,
// zero-valued ones included.
func (e *Engine) categorySection(ctx context.Context, user core.UserID, month int) ([]core.CategorySummary, core.Money, core.Money, error) {
	var zero core.Money

	categories, err := e.store.AllCategories(ctx)
	if err != nil {
		return nil, zero, zero, fmt.Errorf("categories: %w", err)
	}

	summaries := make([]core.CategorySummary, 0, len(categories))
	var totalExp, totalInc core.Money
	for _, cat := range categories {
		exp, err := e.store.TransactionTotal(ctx, user, cat.ID, core.KindExpense, month)
		if err != nil {
			return nil, zero, zero, fmt.Errorf("expense total for category %d: %w", cat.ID, err)
		}
		inc, err := e.store.TransactionTotal(ctx, user, cat.ID, core.KindIncome, month)
		if err != nil {
			return nil, zero, zero, fmt.Errorf("income total for category %d: %w", cat.ID, err)
		}
		summaries = append(summaries, core.CategorySummary{
			Category:      cat,
			TotalExpenses: exp,
			TotalIncomes:  inc,
		})
		totalExp = totalExp.Add(exp)
		totalInc = totalInc.Add(inc)
	}
	return summaries, totalExp, totalInc, nil
}

// emptyNotNil keeps empty result sets as empty slices so they serialize as
// [] rather than null.
func emptyNotNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
