package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"budget/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budget.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func findCategory(t *testing.T, repo *SQLiteRepository, name string) core.Category {
	t.Helper()
	cats, err := repo.AllCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range cats {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("category %q not found", name)
	return core.Category{}
}

func TestMigrationsSeedCategories(t *testing.T) {
	repo := newTestRepo(t)

	cats, err := repo.AllCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) == 0 {
		t.Fatalf("expected seeded categories, got none")
	}
	findCategory(t, repo, "Groceries")
	findCategory(t, repo, "Salary")
}

func TestCreateCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cat, err := repo.CreateCategory(ctx, "Test Category")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if cat.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	// Names are unique.
	if _, err := repo.CreateCategory(ctx, "Test Category"); err == nil {
		t.Fatalf("expected duplicate name to fail")
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	groceries := findCategory(t, repo, "Groceries")

	saved, err := repo.CreateTransaction(ctx, core.Transaction{
		Owner:      1,
		Kind:       core.KindExpense,
		CategoryID: groceries.ID,
		Amount:     core.Money{Cents: 4550},
		Date:       core.NewDate(2025, 2, 10),
		Name:       "weekly shop",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if saved.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	txs, err := repo.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.Amount.Cents != 4550 || got.Kind != core.KindExpense || got.Name != "weekly shop" {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if got.Date.Year() != 2025 || got.Date.Month() != 2 || got.Date.Day() != 10 {
		t.Fatalf("date round trip mismatch: %v", got.Date)
	}
}

func TestDeleteTransactionScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	groceries := findCategory(t, repo, "Groceries")

	saved, err := repo.CreateTransaction(ctx, core.Transaction{
		Owner: 1, Kind: core.KindExpense, CategoryID: groceries.ID,
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 2, 1), Name: "x",
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	// Another user cannot delete it.
	if err := repo.DeleteTransaction(ctx, 2, saved.ID); err == nil {
		t.Fatalf("expected delete by non-owner to fail")
	}
	if err := repo.DeleteTransaction(ctx, 1, saved.ID); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if err := repo.DeleteTransaction(ctx, 1, saved.ID); err == nil {
		t.Fatalf("expected second delete to fail")
	}
}

func TestGoalsAndContributions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	goal, err := repo.CreateGoal(ctx, core.Goal{Owner: 1, Name: "Holiday", Target: core.Money{Cents: 50000}})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}

	got, err := repo.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("get goal: %v", err)
	}
	if got.Owner != 1 || got.Name != "Holiday" || got.Target.Cents != 50000 {
		t.Fatalf("unexpected goal: %+v", got)
	}

	if _, err := repo.GetGoal(ctx, 9999); !errors.Is(err, core.ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal, got %v", err)
	}

	// Contributions against a missing goal are rejected.
	if _, err := repo.CreateContribution(ctx, core.Contribution{GoalID: 9999, Contributor: 1, Amount: core.Money{Cents: 100}}); !errors.Is(err, core.ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal, got %v", err)
	}

	c1, err := repo.CreateContribution(ctx, core.Contribution{GoalID: goal.ID, Contributor: 1, Amount: core.Money{Cents: 1000}})
	if err != nil {
		t.Fatalf("create contribution: %v", err)
	}
	c2, err := repo.CreateContribution(ctx, core.Contribution{GoalID: goal.ID, Contributor: 2, Amount: core.Money{Cents: 2000}})
	if err != nil {
		t.Fatalf("create contribution: %v", err)
	}

	all, err := repo.ContributionsForGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("contributions for goal: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 contributions, got %d", len(all))
	}

	own, err := repo.ContributionsByContributor(ctx, 1)
	if err != nil {
		t.Fatalf("contributions by contributor: %v", err)
	}
	if len(own) != 1 || own[0].ID != c1.ID {
		t.Fatalf("expected only user 1's contribution, got %+v", own)
	}

	others, err := repo.ContributionsToGoalsExcluding(ctx, 1, []int64{goal.ID})
	if err != nil {
		t.Fatalf("contributions excluding: %v", err)
	}
	if len(others) != 1 || others[0].ID != c2.ID {
		t.Fatalf("expected only user 2's contribution, got %+v", others)
	}

	// No goals means no possible contributions from others.
	none, err := repo.ContributionsToGoalsExcluding(ctx, 1, nil)
	if err != nil {
		t.Fatalf("contributions excluding with no goals: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected none, got %+v", none)
	}
}

func TestTransactionTotalMatchesMonthAcrossYears(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	groceries := findCategory(t, repo, "Groceries")

	dates := []core.Date{
		core.NewDate(2025, 2, 10),
		core.NewDate(2024, 2, 5), // same month, earlier year: still counted
		core.NewDate(2025, 3, 1), // different month: excluded
	}
	for i, d := range dates {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			Owner: 1, Kind: core.KindExpense, CategoryID: groceries.ID,
			Amount: core.Money{Cents: 1000}, Date: d, Name: "t",
		}); err != nil {
			t.Fatalf("create transaction %d: %v", i, err)
		}
	}

	total, err := repo.TransactionTotal(ctx, 1, groceries.ID, core.KindExpense, 2)
	if err != nil {
		t.Fatalf("transaction total: %v", err)
	}
	if total.Cents != 2000 {
		t.Fatalf("expected 2000 for February across years, got %d", total.Cents)
	}

	// Empty month still sums to zero, never errors.
	total, err = repo.TransactionTotal(ctx, 1, groceries.ID, core.KindExpense, 7)
	if err != nil {
		t.Fatalf("transaction total empty month: %v", err)
	}
	if total.Cents != 0 {
		t.Fatalf("expected 0, got %d", total.Cents)
	}
}

func TestActiveUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	groceries := findCategory(t, repo, "Groceries")

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		Owner: 3, Kind: core.KindExpense, CategoryID: groceries.ID,
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 1, 1), Name: "t",
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	goal, err := repo.CreateGoal(ctx, core.Goal{Owner: 1, Name: "g", Target: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := repo.CreateContribution(ctx, core.Contribution{GoalID: goal.ID, Contributor: 2, Amount: core.Money{Cents: 50}}); err != nil {
		t.Fatalf("create contribution: %v", err)
	}

	users, err := repo.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("active users: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected users 1,2,3, got %v", users)
	}
	for i, want := range []core.UserID{1, 2, 3} {
		if users[i] != want {
			t.Fatalf("expected users 1,2,3 in order, got %v", users)
		}
	}
}
