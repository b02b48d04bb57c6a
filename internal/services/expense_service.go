package services

import (
	"context"
	"fmt"
	"strings"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// ExpenseService manages the highest-churn entity: expense records.
type ExpenseService struct {
	storage  *storage.Repository
	logger   *log.Logger
	pageSize int
}

func NewExpenseService(storage *storage.Repository, logger *log.Logger, pageSize int) *ExpenseService {
	return &ExpenseService{
		storage:  storage,
		logger:   logger.WithComponent(log.ComponentExpense),
		pageSize: pageSize,
	}
}

// Create validates and stores a new expense.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (*core.Expense, error) {
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("validate expense: %w", err)
	}

	created, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Expense saved",
		log.FieldExpenseID, created.ID,
		log.FieldUserID, created.UserID,
		log.FieldAmountCents, created.Amount.Cents,
		log.FieldDate, created.Date.ISO())
	return created, nil
}

// Get retrieves one expense, scoped to its owner.
func (s *ExpenseService) Get(ctx context.Context, id, userID int64) (*core.Expense, error) {
	return s.storage.GetExpense(ctx, id, userID)
}

// Update validates and rewrites an existing expense.
func (s *ExpenseService) Update(ctx context.Context, e core.Expense) error {
	if e.ID <= 0 {
		return core.ErrNotFound
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("validate expense: %w", err)
	}
	if err := s.storage.UpdateExpense(ctx, e); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense updated",
		log.FieldExpenseID, e.ID, log.FieldUserID, e.UserID)
	return nil
}

// Delete removes an expense, scoped to its owner.
func (s *ExpenseService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.storage.DeleteExpense(ctx, id, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Expense deleted",
		log.FieldExpenseID, id, log.FieldUserID, userID)
	return nil
}

// List returns a page of the user's expenses, newest first. A filter
// without an explicit limit gets the configured page size.
func (s *ExpenseService) List(ctx context.Context, userID int64, f storage.ExpenseFilter) ([]core.Expense, error) {
	if f.Limit <= 0 {
		f.Limit = s.pageSize
	}
	return s.storage.ListExpenses(ctx, userID, f)
}

// Recent returns the newest n expenses for the dashboard widgets.
func (s *ExpenseService) Recent(ctx context.Context, userID int64, n int) ([]core.Expense, error) {
	if n <= 0 {
		n = 5
	}
	return s.storage.ListExpenses(ctx, userID, storage.ExpenseFilter{Limit: n})
}

// Search matches descriptions and notes against the trimmed term.
func (s *ExpenseService) Search(ctx context.Context, userID int64, term string) ([]core.Expense, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	return s.storage.SearchExpenses(ctx, userID, term)
}

// Total returns the zero-defaulted sum for the filter.
func (s *ExpenseService) Total(ctx context.Context, userID int64, f storage.ExpenseFilter) (core.Money, error) {
	return s.storage.TotalExpenses(ctx, userID, f)
}
