// Package services orchestrates writes across the data store and the
// export message bus.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"budget/internal/core"
)

// Ledger is the write surface of the data store.
type Ledger interface {
	CreateCategory(ctx context.Context, name string) (core.Category, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, user core.UserID, id int64) error
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	CreateContribution(ctx context.Context, c core.Contribution) (core.Contribution, error)
	GetGoal(ctx context.Context, id int64) (core.Goal, error)
}

// Publisher enqueues report export requests. Implemented by amqp.Client.
type Publisher interface {
	PublishReportExport(ctx context.Context, user core.UserID) error
}

// LedgerService persists writes locally first and publishes export messages
// best-effort: a failed publish is logged, never surfaced, because the local
// store is the source of truth.
type LedgerService struct {
	store     Ledger
	publisher Publisher
}

func NewLedgerService(store Ledger, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// RecordTransaction validates and saves an income or expense, then requests
// a report export for the owner.
func (s *LedgerService) RecordTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	saved, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.requestExport(ctx, saved.Owner)
	return saved, nil
}

// DeleteTransaction removes an owner's transaction and requests an export.
func (s *LedgerService) DeleteTransaction(ctx context.Context, user core.UserID, id int64) error {
	if err := s.store.DeleteTransaction(ctx, user, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.requestExport(ctx, user)
	return nil
}

func (s *LedgerService) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	saved, err := s.store.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	return saved, nil
}

// AddContribution records a contribution toward an existing goal. Both the
// goal owner's and the contributor's reports change, so both get an export
// request.
func (s *LedgerService) AddContribution(ctx context.Context, c core.Contribution) (core.Contribution, error) {
	goal, err := s.store.GetGoal(ctx, c.GoalID)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("lookup goal %d: %w", c.GoalID, err)
	}

	saved, err := s.store.CreateContribution(ctx, c)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("save contribution: %w", err)
	}

	s.requestExport(ctx, goal.Owner)
	if saved.Contributor != goal.Owner {
		s.requestExport(ctx, saved.Contributor)
	}
	return saved, nil
}

func (s *LedgerService) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	cat, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("save category: %w", err)
	}
	return cat, nil
}

func (s *LedgerService) requestExport(ctx context.Context, user core.UserID) {
	if s.publisher == nil {
		slog.DebugContext(ctx, "No publisher configured, skipping export message", "user_id", user)
		return
	}
	if err := s.publisher.PublishReportExport(ctx, user); err != nil {
		slog.ErrorContext(ctx, "Failed to publish export message",
			"user_id", user, "error", err)
	}
}

// Close releases the store and publisher if they are closable.
func (s *LedgerService) Close() error {
	var errs []error

	if closer, ok := s.store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
