// Package memstore is an in-memory data store used by the memory backend
// and by tests. It implements the same read surface as the SQLite
// repository and a matching set of write operations.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"budget/internal/core"
)

type Store struct {
	mu            sync.Mutex
	nextID        int64
	categories    []core.Category
	transactions  []core.Transaction
	goals         []core.Goal
	contributions []core.Contribution
}

func New() *Store {
	return &Store{nextID: 1}
}

// NewSeeded returns a store pre-populated with the given category names,
// mirroring the seed migration of the SQLite backend.
func NewSeeded(categoryNames []string) *Store {
	s := New()
	for _, name := range categoryNames {
		_, _ = s.CreateCategory(context.Background(), name)
	}
	return s
}

func (s *Store) nextIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// CreateCategory adds a category with a unique name.
func (s *Store) CreateCategory(_ context.Context, name string) (core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.Name == name {
			return core.Category{}, fmt.Errorf("category %q already exists", name)
		}
	}
	cat := core.Category{ID: s.nextIDLocked(), Name: name}
	s.categories = append(s.categories, cat)
	return cat, nil
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.categoryExistsLocked(t.CategoryID) {
		return core.Transaction{}, core.ErrInvalidCategory
	}
	t.ID = s.nextIDLocked()
	s.transactions = append(s.transactions, t)
	return t, nil
}

// DeleteTransaction removes the transaction if it exists and belongs to user.
func (s *Store) DeleteTransaction(_ context.Context, user core.UserID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.transactions {
		if t.ID == id && t.Owner == user {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %d not found for user %d", id, user)
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.nextIDLocked()
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) CreateContribution(_ context.Context, c core.Contribution) (core.Contribution, error) {
	if err := c.Validate(); err != nil {
		return core.Contribution{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goalLocked(c.GoalID); !ok {
		return core.Contribution{}, core.ErrInvalidGoal
	}
	c.ID = s.nextIDLocked()
	s.contributions = append(s.contributions, c)
	return c, nil
}

// GetGoal returns the goal by ID.
func (s *Store) GetGoal(_ context.Context, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.goalLocked(id); ok {
		return g, nil
	}
	return core.Goal{}, core.ErrInvalidGoal
}

// ListTransactions returns a user's transactions in insertion order.
func (s *Store) ListTransactions(_ context.Context, user core.UserID) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.transactions {
		if t.Owner == user {
			out = append(out, t)
		}
	}
	return out, nil
}

// ActiveUsers returns every user that owns a transaction or goal or has
// contributed to one, in first-seen order.
func (s *Store) ActiveUsers(_ context.Context) ([]core.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[core.UserID]struct{})
	var out []core.UserID
	add := func(u core.UserID) {
		if _, ok := seen[u]; !ok {
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	for _, t := range s.transactions {
		add(t.Owner)
	}
	for _, g := range s.goals {
		add(g.Owner)
	}
	for _, c := range s.contributions {
		add(c.Contributor)
	}
	return out, nil
}

func (s *Store) goalLocked(id int64) (core.Goal, bool) {
	for _, g := range s.goals {
		if g.ID == id {
			return g, true
		}
	}
	return core.Goal{}, false
}

func (s *Store) categoryExistsLocked(id int64) bool {
	for _, c := range s.categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// GoalsOwnedBy implements report.Store. Goals come back in insertion order.
func (s *Store) GoalsOwnedBy(_ context.Context, user core.UserID) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Goal
	for _, g := range s.goals {
		if g.Owner == user {
			out = append(out, g)
		}
	}
	return out, nil
}

// ContributionsForGoal implements report.Store.
func (s *Store) ContributionsForGoal(_ context.Context, goalID int64) ([]core.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Contribution
	for _, c := range s.contributions {
		if c.GoalID == goalID {
			out = append(out, c)
		}
	}
	return out, nil
}

// ContributionsByContributor implements report.Store.
func (s *Store) ContributionsByContributor(_ context.Context, user core.UserID) ([]core.Contribution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Contribution
	for _, c := range s.contributions {
		if c.Contributor == user {
			out = append(out, c)
		}
	}
	return out, nil
}

// ContributionsToGoalsExcluding implements report.Store.
func (s *Store) ContributionsToGoalsExcluding(_ context.Context, user core.UserID, goalIDs []int64) ([]core.Contribution, error) {
	wanted := make(map[int64]struct{}, len(goalIDs))
	for _, id := range goalIDs {
		wanted[id] = struct{}{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Contribution
	for _, c := range s.contributions {
		if c.Contributor == user {
			continue
		}
		if _, ok := wanted[c.GoalID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// AllCategories implements report.Store.
func (s *Store) AllCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// TransactionTotal implements report.Store. The date filter matches the
// month number in any year.
func (s *Store) TransactionTotal(_ context.Context, user core.UserID, categoryID int64, kind core.TransactionKind, month int) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total core.Money
	for _, t := range s.transactions {
		if t.Owner != user || t.CategoryID != categoryID || t.Kind != kind {
			continue
		}
		if t.Date.Month() != month {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total, nil
}

// Close satisfies the backend cleanup contract; nothing to release.
func (s *Store) Close() error {
	return nil
}
