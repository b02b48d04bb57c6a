package storage

import (
	"context"
	"database/sql"
	"fmt"

	"expenses/internal/core"
)

const budgetColumns = "id, user_id, category_id, amount_cents, month, year, created_at, updated_at"

func scanBudget(scan func(dest ...any) error) (core.Budget, error) {
	var (
		b          core.Budget
		categoryID sql.NullInt64
	)
	err := scan(&b.ID, &b.UserID, &categoryID, &b.Amount.Cents, &b.Month, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return core.Budget{}, err
	}
	if categoryID.Valid {
		b.CategoryID = &categoryID.Int64
	}
	return b, nil
}

// CreateBudget inserts a budget row. A NULL category means the overall
// budget for the period. The unique index over (user, category, month,
// year) rejects a second row for the same key with ErrDuplicate.
func (r *Repository) CreateBudget(ctx context.Context, b core.Budget) (*core.Budget, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO budgets (user_id, category_id, amount_cents, month, year) VALUES (?, ?, ?, ?, ?)",
		b.UserID, nullableID(b.CategoryID), b.Amount.Cents, b.Month, b.Year,
	)
	if err != nil {
		return nil, mapError("create budget", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	return r.GetBudget(ctx, id, b.UserID)
}

// GetBudget retrieves one budget row, scoped to its owner.
func (r *Repository) GetBudget(ctx context.Context, id, userID int64) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	b, err := scanBudget(row.Scan)
	if err != nil {
		return nil, mapError("get budget", err)
	}
	return &b, nil
}

// ListBudgets returns a user's budgets for one period, overall budget
// first, then by category.
func (r *Repository) ListBudgets(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+budgetColumns+`
		FROM budgets
		WHERE user_id = ? AND month = ? AND year = ?
		ORDER BY category_id IS NOT NULL, category_id`,
		userID, month, year,
	)
	if err != nil {
		return nil, mapError("list budgets", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("list budgets: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// UpdateBudgetAmount changes the amount of an existing budget row.
func (r *Repository) UpdateBudgetAmount(ctx context.Context, id, userID int64, amount core.Money) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE budgets SET amount_cents = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND user_id = ?",
		amount.Cents, id, userID,
	)
	if err != nil {
		return mapError("update budget", err)
	}
	return requireRow(res, "update budget")
}

// DeleteBudget removes a budget row, scoped to its owner.
func (r *Repository) DeleteBudget(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM budgets WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return mapError("delete budget", err)
	}
	return requireRow(res, "delete budget")
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
