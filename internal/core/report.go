package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalProgress is the per-goal slice of a report. Progress is not clamped:
// an over-funded goal reports more than 100.
type GoalProgress struct {
	Goal               Goal    `json:"goal"`
	TotalContributions Money   `json:"total_contributions"`
	ProgressPercent    float64 `json:"progress_percent"`
}

// CategorySummary aggregates one user's transactions for one category within
// the reporting month. Categories without matching transactions still get a
// summary with zero totals.
type CategorySummary struct {
	Category      Category `json:"category"`
	TotalExpenses Money    `json:"total_expenses_in_category"`
	TotalIncomes  Money    `json:"total_incomes_in_category"`
}

// Report is the dashboard aggregate for one user and one reference date.
// It is computed fresh on every request and never persisted.
type Report struct {
	GoalProgress                  []GoalProgress    `json:"goal_progress_list"`
	OwnContributions              []Contribution    `json:"own_contributions"`
	OthersContributionsToOwnGoals []Contribution    `json:"others_contributions_to_own_goals"`
	CategorySummaries             []CategorySummary `json:"category_summaries"`
	TotalExpenses                 Money             `json:"total_expenses"`
	TotalIncomes                  Money             `json:"total_incomes"`
	TotalBalance                  Money             `json:"total_balance"`
}

// ReportingMonth returns the calendar month summarized for the given
// reference date: the month before it, wrapping to December in January.
//
// Deliberately month-only: the year is not part of the window. Category
// filtering matches the month number in any year, which reproduces the
// original dashboard's date__month behavior (see DESIGN.md).
func ReportingMonth(ref time.Time) int {
	m := int(ref.Month()) - 1
	if m == 0 {
		m = 12
	}
	return m
}

// ProgressPercent computes total/target*100. A zero (or negative) target is
// defined as zero progress rather than a division error.
func ProgressPercent(total, target Money) float64 {
	if target.Cents <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(total.Cents).
		Mul(oneHundred).
		Div(decimal.NewFromInt(target.Cents))
	f, _ := pct.Float64()
	return f
}
