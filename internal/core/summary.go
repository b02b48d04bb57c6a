package core

// ExpenseStats is the single-row statistics result for one user and
// period. Every aggregate defaults to zero when no rows match.
type ExpenseStats struct {
	Total   Money
	Average Money
	Max     Money
	Min     Money
	Count   int64
}

// CategoryExpense is one row of the per-category ranking: every category
// appears, zero-activity ones included, ordered by total descending.
type CategoryExpense struct {
	CategoryID int64
	Name       string
	Icon       string
	Color      string
	Total      Money
	Count      int64
}

// MonthlySummaryRow mirrors one row of the monthly_expense_summary view.
type MonthlySummaryRow struct {
	UserID       int64
	Year         int
	Month        int // 1-12
	CategoryID   int64
	CategoryName string
	Color        string
	Total        Money
	Count        int64
}

// DailySummaryRow mirrors one row of the daily_expense_summary view.
type DailySummaryRow struct {
	UserID int64
	Date   Date
	Total  Money
	Count  int64
}

// MonthlyTotal is one month of a calendar-year breakdown. Callers always
// receive twelve of these, zero-filled for inactive months.
type MonthlyTotal struct {
	Month int // 1-12
	Total Money
	Count int64
}

// DailyTotal is one day of a single month's breakdown.
type DailyTotal struct {
	Day   int
	Total Money
	Count int64
}
