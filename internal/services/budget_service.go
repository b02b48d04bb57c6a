package services

import (
	"context"
	"fmt"

	"expenses/internal/core"
	"expenses/internal/log"
	"expenses/internal/storage"
)

// BudgetService manages per-period spending caps. At most one budget row
// exists per (user, category, month, year); the overall budget uses a nil
// category.
type BudgetService struct {
	storage *storage.Repository
	logger  *log.Logger
}

func NewBudgetService(storage *storage.Repository, logger *log.Logger) *BudgetService {
	return &BudgetService{
		storage: storage,
		logger:  logger.WithComponent(log.ComponentBudget),
	}
}

// Create validates and inserts a budget row. A second budget for the same
// key surfaces as core.ErrDuplicate; callers present it as a conflict
// rather than retrying.
func (s *BudgetService) Create(ctx context.Context, b core.Budget) (*core.Budget, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("validate budget: %w", err)
	}
	created, err := s.storage.CreateBudget(ctx, b)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Budget created",
		log.FieldBudgetID, created.ID,
		log.FieldUserID, created.UserID,
		log.FieldMonth, created.Month,
		log.FieldYear, created.Year)
	return created, nil
}

// Get retrieves one budget row, scoped to its owner.
func (s *BudgetService) Get(ctx context.Context, id, userID int64) (*core.Budget, error) {
	return s.storage.GetBudget(ctx, id, userID)
}

// List returns the user's budgets for one period, overall budget first.
func (s *BudgetService) List(ctx context.Context, userID int64, month, year int) ([]core.Budget, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	return s.storage.ListBudgets(ctx, userID, month, year)
}

// UpdateAmount changes an existing budget's cap.
func (s *BudgetService) UpdateAmount(ctx context.Context, id, userID int64, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateBudgetAmount(ctx, id, userID, amount); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget updated",
		log.FieldBudgetID, id, log.FieldAmountCents, amount.Cents)
	return nil
}

// Delete removes a budget row, scoped to its owner.
func (s *BudgetService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.storage.DeleteBudget(ctx, id, userID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Budget deleted", log.FieldBudgetID, id)
	return nil
}
