package storage

import (
	"context"
	"fmt"

	"expenses/internal/core"
)

// ExpenseStats returns total, average, max, min and transaction count for
// one user and calendar month. Month and year are extracted from the
// expense date at query time, so the result always reflects current data.
// Every aggregate is coalesced to zero; an empty period yields an all-zero
// row, never nulls.
func (r *Repository) ExpenseStats(ctx context.Context, userID int64, month, year int) (core.ExpenseStats, error) {
	var s core.ExpenseStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(amount_cents), 0),
			CAST(COALESCE(ROUND(AVG(amount_cents)), 0) AS INTEGER),
			COALESCE(MAX(amount_cents), 0),
			COALESCE(MIN(amount_cents), 0),
			COUNT(*)
		FROM expenses
		WHERE user_id = ?
		  AND CAST(strftime('%m', expense_date) AS INTEGER) = ?
		  AND CAST(strftime('%Y', expense_date) AS INTEGER) = ?`,
		userID, month, year,
	).Scan(&s.Total.Cents, &s.Average.Cents, &s.Max.Cents, &s.Min.Cents, &s.Count)
	if err != nil {
		return core.ExpenseStats{}, mapError("expense stats", err)
	}
	return s, nil
}

// CategoryExpenses returns one row per existing category for the period,
// zero-activity categories included via the left join, ranked by total
// descending. Equal totals break ties on ascending category ID so the
// ordering is deterministic rather than whatever the engine happens to
// emit.
func (r *Repository) CategoryExpenses(ctx context.Context, userID int64, month, year int) ([]core.CategoryExpense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id, c.category_name, c.icon, c.color,
			COALESCE(SUM(e.amount_cents), 0) AS total_cents,
			COUNT(e.id) AS transaction_count
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id
			AND e.user_id = ?
			AND CAST(strftime('%m', e.expense_date) AS INTEGER) = ?
			AND CAST(strftime('%Y', e.expense_date) AS INTEGER) = ?
		GROUP BY c.id
		ORDER BY total_cents DESC, c.id ASC`,
		userID, month, year,
	)
	if err != nil {
		return nil, mapError("category expenses", err)
	}
	defer rows.Close()

	var result []core.CategoryExpense
	for rows.Next() {
		var ce core.CategoryExpense
		if err := rows.Scan(&ce.CategoryID, &ce.Name, &ce.Icon, &ce.Color, &ce.Total.Cents, &ce.Count); err != nil {
			return nil, fmt.Errorf("category expenses: %w", err)
		}
		result = append(result, ce)
	}
	return result, rows.Err()
}

// MonthlySummary reads the monthly_expense_summary view for one user and
// period: one row per category with activity, none for idle categories.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, month, year int) ([]core.MonthlySummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, year, month, category_id, category_name, color, total_cents, transaction_count
		FROM monthly_expense_summary
		WHERE user_id = ? AND month = ? AND year = ?
		ORDER BY total_cents DESC, category_id ASC`,
		userID, month, year,
	)
	if err != nil {
		return nil, mapError("monthly summary", err)
	}
	defer rows.Close()

	var result []core.MonthlySummaryRow
	for rows.Next() {
		var m core.MonthlySummaryRow
		if err := rows.Scan(&m.UserID, &m.Year, &m.Month, &m.CategoryID, &m.CategoryName, &m.Color, &m.Total.Cents, &m.Count); err != nil {
			return nil, fmt.Errorf("monthly summary: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// DailySummary reads the daily_expense_summary view for one user over an
// inclusive date range, oldest first.
func (r *Repository) DailySummary(ctx context.Context, userID int64, from, to core.Date) ([]core.DailySummaryRow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, expense_date, total_cents, transaction_count
		FROM daily_expense_summary
		WHERE user_id = ? AND expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date ASC`,
		userID, from.ISO(), to.ISO(),
	)
	if err != nil {
		return nil, mapError("daily summary", err)
	}
	defer rows.Close()

	var result []core.DailySummaryRow
	for rows.Next() {
		var (
			d       core.DailySummaryRow
			isoDate string
		)
		if err := rows.Scan(&d.UserID, &isoDate, &d.Total.Cents, &d.Count); err != nil {
			return nil, fmt.Errorf("daily summary: %w", err)
		}
		if d.Date, err = core.ParseDate(isoDate); err != nil {
			return nil, fmt.Errorf("daily summary: stored date %q: %w", isoDate, err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// MonthlyTotals returns twelve rows, one per month of the year, with
// months that saw no activity zero-filled.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, year int) ([]core.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			CAST(strftime('%m', expense_date) AS INTEGER) AS month,
			COALESCE(SUM(amount_cents), 0),
			COUNT(*)
		FROM expenses
		WHERE user_id = ? AND CAST(strftime('%Y', expense_date) AS INTEGER) = ?
		GROUP BY month
		ORDER BY month`,
		userID, year,
	)
	if err != nil {
		return nil, mapError("monthly totals", err)
	}
	defer rows.Close()

	totals := make([]core.MonthlyTotal, 12)
	for i := range totals {
		totals[i].Month = i + 1
	}
	for rows.Next() {
		var t core.MonthlyTotal
		if err := rows.Scan(&t.Month, &t.Total.Cents, &t.Count); err != nil {
			return nil, fmt.Errorf("monthly totals: %w", err)
		}
		if t.Month >= 1 && t.Month <= 12 {
			totals[t.Month-1] = t
		}
	}
	return totals, rows.Err()
}

// DailyTotals returns per-day totals for one month, days with activity
// only, ascending.
func (r *Repository) DailyTotals(ctx context.Context, userID int64, month, year int) ([]core.DailyTotal, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			CAST(strftime('%d', expense_date) AS INTEGER) AS day,
			COALESCE(SUM(amount_cents), 0),
			COUNT(*)
		FROM expenses
		WHERE user_id = ?
		  AND CAST(strftime('%m', expense_date) AS INTEGER) = ?
		  AND CAST(strftime('%Y', expense_date) AS INTEGER) = ?
		GROUP BY day
		ORDER BY day`,
		userID, month, year,
	)
	if err != nil {
		return nil, mapError("daily totals", err)
	}
	defer rows.Close()

	var totals []core.DailyTotal
	for rows.Next() {
		var t core.DailyTotal
		if err := rows.Scan(&t.Day, &t.Total.Cents, &t.Count); err != nil {
			return nil, fmt.Errorf("daily totals: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
