package storage

import (
	"context"
	"fmt"

	"expenses/internal/core"
)

// ExpenseFilter narrows expense listings. Zero-value fields are ignored.
type ExpenseFilter struct {
	From       core.Date
	To         core.Date
	CategoryID int64
	Limit      int
	Offset     int
}

// CreateExpense inserts a new expense for a user. Referential integrity
// against users and categories and the payment-method CHECK are enforced
// by the engine on top of the caller-side validation.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, category_id, amount_cents, description, expense_date, payment_method, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.CategoryID, e.Amount.Cents, e.Description, e.Date.ISO(), string(e.PaymentMethod), e.Notes,
	)
	if err != nil {
		return nil, mapError("create expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	return r.GetExpense(ctx, id, e.UserID)
}

const expenseColumns = `
	e.id, e.user_id, e.category_id, e.amount_cents, e.description, e.expense_date,
	e.payment_method, e.notes, e.created_at, e.updated_at,
	c.category_name, c.icon, c.color`

func scanExpense(scan func(dest ...any) error) (core.Expense, error) {
	var (
		e       core.Expense
		isoDate string
		method  string
	)
	err := scan(
		&e.ID, &e.UserID, &e.CategoryID, &e.Amount.Cents, &e.Description, &isoDate,
		&method, &e.Notes, &e.CreatedAt, &e.UpdatedAt,
		&e.CategoryName, &e.CategoryIcon, &e.CategoryColor,
	)
	if err != nil {
		return core.Expense{}, err
	}
	e.PaymentMethod = core.PaymentMethod(method)
	if e.Date, err = core.ParseDate(isoDate); err != nil {
		return core.Expense{}, fmt.Errorf("stored expense date %q: %w", isoDate, err)
	}
	return e, nil
}

// GetExpense retrieves one expense, scoped to its owner, joined with the
// category attributes the front-ends render.
func (r *Repository) GetExpense(ctx context.Context, id, userID int64) (*core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.id = ? AND e.user_id = ?`,
		id, userID,
	)
	e, err := scanExpense(row.Scan)
	if err != nil {
		return nil, mapError("get expense", err)
	}
	return &e, nil
}

// ListExpenses returns a user's expenses, newest first, optionally
// narrowed by date range and category.
func (r *Repository) ListExpenses(ctx context.Context, userID int64, f ExpenseFilter) ([]core.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ?`
	args := []any{userID}

	if !f.From.IsZero() {
		query += " AND e.expense_date >= ?"
		args = append(args, f.From.ISO())
	}
	if !f.To.IsZero() {
		query += " AND e.expense_date <= ?"
		args = append(args, f.To.ISO())
	}
	if f.CategoryID > 0 {
		query += " AND e.category_id = ?"
		args = append(args, f.CategoryID)
	}

	query += " ORDER BY e.expense_date DESC, e.created_at DESC"

	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	return r.queryExpenses(ctx, "list expenses", query, args...)
}

// SearchExpenses matches the term against descriptions and notes,
// newest first.
func (r *Repository) SearchExpenses(ctx context.Context, userID int64, term string) ([]core.Expense, error) {
	pattern := "%" + term + "%"
	return r.queryExpenses(ctx, "search expenses", `
		SELECT `+expenseColumns+`
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.user_id = ? AND (e.description LIKE ? OR e.notes LIKE ?)
		ORDER BY e.expense_date DESC, e.created_at DESC`,
		userID, pattern, pattern,
	)
}

func (r *Repository) queryExpenses(ctx context.Context, op, query string, args ...any) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense rewrites the mutable fields of an expense, scoped to its
// owner.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET category_id = ?, amount_cents = ?, description = ?, expense_date = ?,
		    payment_method = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		e.CategoryID, e.Amount.Cents, e.Description, e.Date.ISO(),
		string(e.PaymentMethod), e.Notes, e.ID, e.UserID,
	)
	if err != nil {
		return mapError("update expense", err)
	}
	return requireRow(res, "update expense")
}

// DeleteExpense removes an expense, scoped to its owner.
func (r *Repository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return mapError("delete expense", err)
	}
	return requireRow(res, "delete expense")
}

// TotalExpenses returns the zero-defaulted sum of a user's expenses under
// the same optional filters as ListExpenses.
func (r *Repository) TotalExpenses(ctx context.Context, userID int64, f ExpenseFilter) (core.Money, error) {
	query := "SELECT COALESCE(SUM(amount_cents), 0) FROM expenses WHERE user_id = ?"
	args := []any{userID}

	if !f.From.IsZero() {
		query += " AND expense_date >= ?"
		args = append(args, f.From.ISO())
	}
	if !f.To.IsZero() {
		query += " AND expense_date <= ?"
		args = append(args, f.To.ISO())
	}
	if f.CategoryID > 0 {
		query += " AND category_id = ?"
		args = append(args, f.CategoryID)
	}

	var total core.Money
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total.Cents); err != nil {
		return core.Money{}, mapError("total expenses", err)
	}
	return total, nil
}
