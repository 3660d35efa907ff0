package memstore

import (
	"context"
	"errors"
	"testing"

	"budget/internal/core"
)

func TestCreateCategoryUniqueName(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateCategory(ctx, "Groceries"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := s.CreateCategory(ctx, "Groceries"); err == nil {
		t.Fatalf("expected duplicate name to fail")
	}
}

func TestCreateTransactionRequiresKnownCategory(t *testing.T) {
	s := NewSeeded([]string{"Groceries"})
	ctx := context.Background()

	_, err := s.CreateTransaction(ctx, core.Transaction{
		Owner: 1, Kind: core.KindExpense, CategoryID: 999,
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 2, 1), Name: "x",
	})
	if !errors.Is(err, core.ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestActiveUsersFirstSeenOrder(t *testing.T) {
	s := NewSeeded([]string{"Groceries"})
	ctx := context.Background()

	cats, _ := s.AllCategories(ctx)
	if _, err := s.CreateTransaction(ctx, core.Transaction{
		Owner: 3, Kind: core.KindExpense, CategoryID: cats[0].ID,
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 1, 1), Name: "t",
	}); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	goal, err := s.CreateGoal(ctx, core.Goal{Owner: 1, Name: "g", Target: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	if _, err := s.CreateContribution(ctx, core.Contribution{GoalID: goal.ID, Contributor: 3, Amount: core.Money{Cents: 10}}); err != nil {
		t.Fatalf("create contribution: %v", err)
	}

	users, err := s.ActiveUsers(ctx)
	if err != nil {
		t.Fatalf("active users: %v", err)
	}
	if len(users) != 2 || users[0] != 3 || users[1] != 1 {
		t.Fatalf("expected [3 1], got %v", users)
	}
}

func TestGetGoalMissing(t *testing.T) {
	s := New()
	if _, err := s.GetGoal(context.Background(), 1); !errors.Is(err, core.ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal, got %v", err)
	}
}
