package report

import (
	"context"

	"budget/internal/core"
)

// Store is the read-only query surface the engine needs from the persistence
// layer. Each method is an independent query; no transactional consistency
// across them is assumed.
type Store interface {
	// GoalsOwnedBy returns the user's goals in store iteration order.
	GoalsOwnedBy(ctx context.Context, user core.UserID) ([]core.Goal, error)

	// ContributionsForGoal returns every contribution to the goal,
	// regardless of contributor.
	ContributionsForGoal(ctx context.Context, goalID int64) ([]core.Contribution, error)

	// ContributionsByContributor returns every contribution the user made,
	// to any goal.
	ContributionsByContributor(ctx context.Context, user core.UserID) ([]core.Contribution, error)

	// ContributionsToGoalsExcluding returns contributions to the given goals
	// made by anyone other than the user.
	ContributionsToGoalsExcluding(ctx context.Context, user core.UserID, goalIDs []int64) ([]core.Contribution, error)

	// AllCategories returns every category, not just ones the user used.
	AllCategories(ctx context.Context) ([]core.Category, error)

	// TransactionTotal sums the user's transactions of one kind in one
	// category whose date falls in the given month-of-year, any year.
	// An empty result set sums to zero.
	TransactionTotal(ctx context.Context, user core.UserID, categoryID int64, kind core.TransactionKind, month int) (core.Money, error)
}
