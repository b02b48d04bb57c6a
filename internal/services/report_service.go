package services

import (
	"context"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// ReportService exposes the aggregation surface: the single-row period
// statistics, the per-category ranking, the two summary views and the
// calendar breakdowns. Every result is recomputed from current rows on
// each call; nothing is materialized.
type ReportService struct {
	storage *storage.Repository
	logger  *log.Logger
}

func NewReportService(storage *storage.Repository, logger *log.Logger) *ReportService {
	return &ReportService{
		storage: storage,
		logger:  logger.WithComponent(log.ComponentReport),
	}
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return core.ErrInvalidMonth
	}
	if year < 1970 || year > 9999 {
		return core.ErrInvalidYear
	}
	return nil
}

// Stats returns the zero-defaulted aggregate row for one user and period.
func (s *ReportService) Stats(ctx context.Context, userID int64, month, year int) (core.ExpenseStats, error) {
	if err := validatePeriod(month, year); err != nil {
		return core.ExpenseStats{}, err
	}
	return s.storage.ExpenseStats(ctx, userID, month, year)
}

// CategoryBreakdown returns the ready-made ranking: one row per category,
// zero-activity categories included, totals descending.
func (s *ReportService) CategoryBreakdown(ctx context.Context, userID int64, month, year int) ([]core.CategoryExpense, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.storage.CategoryExpenses(ctx, userID, month, year)
}

// MonthlySummary reads the monthly view: only categories with activity
// appear.
func (s *ReportService) MonthlySummary(ctx context.Context, userID int64, month, year int) ([]core.MonthlySummaryRow, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.storage.MonthlySummary(ctx, userID, month, year)
}

// DailySummary reads the daily view over an inclusive date range.
func (s *ReportService) DailySummary(ctx context.Context, userID int64, from, to core.Date) ([]core.DailySummaryRow, error) {
	if err := from.Validate(); err != nil {
		return nil, err
	}
	if err := to.Validate(); err != nil {
		return nil, err
	}
	return s.storage.DailySummary(ctx, userID, from, to)
}

// YearOverview returns twelve zero-filled monthly totals for the year.
func (s *ReportService) YearOverview(ctx context.Context, userID int64, year int) ([]core.MonthlyTotal, error) {
	if year < 1970 || year > 9999 {
		return nil, core.ErrInvalidYear
	}
	return s.storage.MonthlyTotals(ctx, userID, year)
}

// MonthByDay returns the per-day totals of one month, active days only.
func (s *ReportService) MonthByDay(ctx context.Context, userID int64, month, year int) ([]core.DailyTotal, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}
	return s.storage.DailyTotals(ctx, userID, month, year)
}
