package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -5}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Owner:      1,
		Kind:       KindExpense,
		CategoryID: 1,
		Amount:     Money{Cents: 100},
		Date:       NewDate(2025, 1, 1),
		Name:       "ok",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mut  func(tx *Transaction)
		want error
	}{
		{"zero owner", func(tx *Transaction) { tx.Owner = 0 }, ErrInvalidUser},
		{"bad kind", func(tx *Transaction) { tx.Kind = "transfer" }, ErrInvalidKind},
		{"zero category", func(tx *Transaction) { tx.CategoryID = 0 }, ErrInvalidCategory},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"empty name", func(tx *Transaction) { tx.Name = "  " }, ErrEmptyName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := good
			tc.mut(&tx)
			if err := tx.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	if err := (Goal{Owner: 1, Name: "Holiday", Target: Money{Cents: 50000}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Zero targets are legal; progress for them is defined as zero.
	if err := (Goal{Owner: 1, Name: "Rainy day", Target: Money{}}).Validate(); err != nil {
		t.Fatalf("expected zero target to be ok, got %v", err)
	}
	if err := (Goal{Owner: 1, Name: "x", Target: Money{Cents: -1}}).Validate(); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget for negative target")
	}
	if err := (Goal{Owner: 0, Name: "x"}).Validate(); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser")
	}
}

func TestContributionValidate(t *testing.T) {
	if err := (Contribution{GoalID: 1, Contributor: 2, Amount: Money{Cents: 100}}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// Amount sign is deliberately unconstrained for contributions.
	if err := (Contribution{GoalID: 1, Contributor: 2, Amount: Money{Cents: -100}}).Validate(); err != nil {
		t.Fatalf("expected negative contribution to pass, got %v", err)
	}
	if err := (Contribution{GoalID: 0, Contributor: 2}).Validate(); !errors.Is(err, ErrInvalidGoal) {
		t.Fatalf("expected ErrInvalidGoal")
	}
	if err := (Contribution{GoalID: 1, Contributor: 0}).Validate(); !errors.Is(err, ErrInvalidUser) {
		t.Fatalf("expected ErrInvalidUser")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 3, 7)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-03-07"` {
		t.Fatalf("expected 2025-03-07, got %s", b)
	}

	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Year() != 2025 || back.Month() != 3 || back.Day() != 7 {
		t.Fatalf("round trip mismatch: %v", back)
	}
}
