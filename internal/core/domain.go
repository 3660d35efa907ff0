package core

import (
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

type (
	// UserID identifies an already-authenticated user. Authentication itself
	// is handled by an external collaborator; this package only carries the
	// identity around.
	UserID int64

	// TransactionKind distinguishes incomes from expenses. Both kinds share
	// the same shape, so a single Transaction type carries a kind flag
	// instead of two near-identical record types.
	TransactionKind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Category is shared, immutable reference data applied to transactions.
	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	Transaction struct {
		ID         int64           `json:"id"`
		Owner      UserID          `json:"user_id"`
		Kind       TransactionKind `json:"kind"`
		CategoryID int64           `json:"category_id"`
		Amount     Money           `json:"amount"`
		Date       Date            `json:"date"`
		Name       string          `json:"name"`
	}

	// Goal is a savings target owned by one user. Target may be zero.
	Goal struct {
		ID     int64  `json:"id"`
		Owner  UserID `json:"user_id"`
		Name   string `json:"name"`
		Target Money  `json:"target"`
	}

	// Contribution applies an amount toward a goal. The contributor need not
	// own the goal.
	Contribution struct {
		ID          int64  `json:"id"`
		GoalID      int64  `json:"goal_id"`
		Contributor UserID `json:"user_id"`
		Amount      Money  `json:"amount"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidKind     = errors.New("invalid transaction kind")
	ErrInvalidTarget   = errors.New("target amount cannot be negative")
	ErrEmptyName       = errors.New("empty name")
	ErrNameTooLong     = errors.New("name too long (max 200 characters)")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidGoal     = errors.New("invalid goal reference")
	ErrInvalidUser     = errors.New("invalid user")
)

func (k TransactionKind) IsValid() bool {
	return k == KindIncome || k == KindExpense
}

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// MarshalJSON renders the date as "YYYY-MM-DD"; time of day is never used.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrEmptyName
	}
	if len(name) > 200 {
		return ErrNameTooLong
	}
	return nil
}

// Validate enforces the write-boundary invariants: positive amount, valid
// kind, known category reference, non-empty name, real date.
func (t Transaction) Validate() error {
	if t.Owner <= 0 {
		return ErrInvalidUser
	}
	if !t.Kind.IsValid() {
		return ErrInvalidKind
	}
	if t.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := validateName(t.Name); err != nil {
		return err
	}
	return t.Amount.Validate()
}

func (g Goal) Validate() error {
	if g.Owner <= 0 {
		return ErrInvalidUser
	}
	if err := validateName(g.Name); err != nil {
		return err
	}
	if g.Target.Cents < 0 {
		return ErrInvalidTarget
	}
	return nil
}

// Validate checks references only. Contribution amounts are recorded as
// given; their sign is not constrained here.
func (c Contribution) Validate() error {
	if c.GoalID <= 0 {
		return ErrInvalidGoal
	}
	if c.Contributor <= 0 {
		return ErrInvalidUser
	}
	return nil
}
