package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"budget/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists categories, transactions, goals and
// contributions, and implements the report engine's read surface.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateCategory inserts a category with a unique name.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string) (core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category insert id: %w", err)
	}
	return core.Category{ID: id, Name: name}, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (user_id, kind, category_id, amount_cents, date, name)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		int64(t.Owner), string(t.Kind), t.CategoryID, t.Amount.Cents,
		t.Date.Format("2006-01-02"), t.Name)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"user_id", t.Owner,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents)

	return t, nil
}

// DeleteTransaction removes a transaction owned by user. Deleting a row that
// does not exist (or belongs to someone else) is an error.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, user core.UserID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, int64(user))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("transaction %d not found for user %d", id, user)
	}
	return nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (user_id, name, target_cents) VALUES (?, ?, ?)`,
		int64(g.Owner), g.Name, g.Target.Cents)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("goal insert id: %w", err)
	}
	g.ID = id
	return g, nil
}

func (r *SQLiteRepository) CreateContribution(ctx context.Context, c core.Contribution) (core.Contribution, error) {
	if err := c.Validate(); err != nil {
		return core.Contribution{}, err
	}
	if _, err := r.GetGoal(ctx, c.GoalID); err != nil {
		return core.Contribution{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contributions (goal_id, user_id, amount_cents) VALUES (?, ?, ?)`,
		c.GoalID, int64(c.Contributor), c.Amount.Cents)
	if err != nil {
		return core.Contribution{}, fmt.Errorf("create contribution: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Contribution{}, fmt.Errorf("contribution insert id: %w", err)
	}
	c.ID = id
	return c, nil
}

// GetGoal returns a goal by ID.
func (r *SQLiteRepository) GetGoal(ctx context.Context, id int64) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, target_cents FROM goals WHERE id = ?`, id)
	var g core.Goal
	var owner int64
	if err := row.Scan(&g.ID, &owner, &g.Name, &g.Target.Cents); err != nil {
		if err == sql.ErrNoRows {
			return core.Goal{}, core.ErrInvalidGoal
		}
		return core.Goal{}, fmt.Errorf("get goal %d: %w", id, err)
	}
	g.Owner = core.UserID(owner)
	return g, nil
}

// GoalsOwnedBy implements report.Store. Order is insertion order (id).
func (r *SQLiteRepository) GoalsOwnedBy(ctx context.Context, user core.UserID) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, target_cents FROM goals WHERE user_id = ? ORDER BY id`,
		int64(user))
	if err != nil {
		return nil, fmt.Errorf("goals for user %d: %w", user, err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var g core.Goal
		var owner int64
		if err := rows.Scan(&g.ID, &owner, &g.Name, &g.Target.Cents); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		g.Owner = core.UserID(owner)
		out = append(out, g)
	}
	return out, rows.Err()
}

// ContributionsForGoal implements report.Store.
func (r *SQLiteRepository) ContributionsForGoal(ctx context.Context, goalID int64) ([]core.Contribution, error) {
	return r.queryContributions(ctx,
		`SELECT id, goal_id, user_id, amount_cents FROM contributions WHERE goal_id = ? ORDER BY id`,
		goalID)
}

// ContributionsByContributor implements report.Store.
func (r *SQLiteRepository) ContributionsByContributor(ctx context.Context, user core.UserID) ([]core.Contribution, error) {
	return r.queryContributions(ctx,
		`SELECT id, goal_id, user_id, amount_cents FROM contributions WHERE user_id = ? ORDER BY id`,
		int64(user))
}

// ContributionsToGoalsExcluding implements report.Store.
func (r *SQLiteRepository) ContributionsToGoalsExcluding(ctx context.Context, user core.UserID, goalIDs []int64) ([]core.Contribution, error) {
	if len(goalIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(goalIDs)), ", ")
	args := make([]any, 0, len(goalIDs)+1)
	args = append(args, int64(user))
	for _, id := range goalIDs {
		args = append(args, id)
	}
	query := fmt.Sprintf(
		`SELECT id, goal_id, user_id, amount_cents FROM contributions
		 WHERE user_id != ? AND goal_id IN (%s) ORDER BY id`, placeholders)
	return r.queryContributions(ctx, query, args...)
}

func (r *SQLiteRepository) queryContributions(ctx context.Context, query string, args ...any) ([]core.Contribution, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contributions: %w", err)
	}
	defer rows.Close()

	var out []core.Contribution
	for rows.Next() {
		var c core.Contribution
		var contributor int64
		if err := rows.Scan(&c.ID, &c.GoalID, &contributor, &c.Amount.Cents); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		c.Contributor = core.UserID(contributor)
		out = append(out, c)
	}
	return out, rows.Err()
}

// AllCategories implements report.Store.
func (r *SQLiteRepository) AllCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// TransactionTotal implements report.Store. The filter matches the month
// number only; dates from any year with that month count.
func (r *SQLiteRepository) TransactionTotal(ctx context.Context, user core.UserID, categoryID int64, kind core.TransactionKind, month int) (core.Money, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		 WHERE user_id = ? AND category_id = ? AND kind = ?
		   AND CAST(strftime('%m', date) AS INTEGER) = ?`,
		int64(user), categoryID, string(kind), month)
	var total core.Money
	if err := row.Scan(&total.Cents); err != nil {
		return core.Money{}, fmt.Errorf("transaction total: %w", err)
	}
	return total, nil
}

// ListTransactions returns a user's transactions in insertion order, newest
// last. Used by the API listing endpoint.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, user core.UserID) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, kind, category_id, amount_cents, date, name
		 FROM transactions WHERE user_id = ? ORDER BY id`, int64(user))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var t core.Transaction
		var owner int64
		var kind, date string
		if err := rows.Scan(&t.ID, &owner, &kind, &t.CategoryID, &t.Amount.Cents, &date, &t.Name); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Owner = core.UserID(owner)
		t.Kind = core.TransactionKind(kind)
		d, err := parseDate(date)
		if err != nil {
			return nil, err
		}
		t.Date = d
		out = append(out, t)
	}
	return out, rows.Err()
}

// ActiveUsers returns every user that owns a transaction or goal or has
// contributed to one. The export worker uses it for periodic re-exports.
func (r *SQLiteRepository) ActiveUsers(ctx context.Context) ([]core.UserID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM transactions
		 UNION SELECT user_id FROM goals
		 UNION SELECT user_id FROM contributions
		 ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	defer rows.Close()

	var out []core.UserID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, core.UserID(id))
	}
	return out, rows.Err()
}

func parseDate(s string) (core.Date, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d-%d-%d", &y, &m, &d); err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.NewDate(y, m, d), nil
}
