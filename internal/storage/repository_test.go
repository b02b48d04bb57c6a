package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"expenses/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite provisions a fresh database per test.
type RepositoryTestSuite struct {
	suite.Suite
	repo   *Repository
	dbPath string
	ctx    context.Context
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.dbPath = filepath.Join(suite.T().TempDir(), "test.db")
	repo, err := NewRepository(suite.dbPath)
	require.NoError(suite.T(), err, "failed to create test database")
	suite.repo = repo
	suite.ctx = context.Background()
}

func (suite *RepositoryTestSuite) TearDownTest() {
	if suite.repo != nil {
		suite.repo.Close()
	}
}

func (suite *RepositoryTestSuite) createUser(username, email string) *core.User {
	u, err := suite.repo.CreateUser(suite.ctx, username, email, "$2a$10$fakehashfakehashfakehash", "Test User")
	require.NoError(suite.T(), err)
	return u
}

func (suite *RepositoryTestSuite) createExpense(userID, categoryID int64, cents int64, date core.Date) *core.Expense {
	e, err := suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID:        userID,
		CategoryID:    categoryID,
		Amount:        core.Money{Cents: cents},
		Description:   fmt.Sprintf("expense %d", cents),
		Date:          date,
		PaymentMethod: core.Cash,
	})
	require.NoError(suite.T(), err)
	return e
}

func (suite *RepositoryTestSuite) count(query string, args ...any) int {
	var n int
	err := suite.repo.db.QueryRowContext(suite.ctx, query, args...).Scan(&n)
	require.NoError(suite.T(), err)
	return n
}

func (suite *RepositoryTestSuite) TestSeedDefaultCategories() {
	categories, err := suite.repo.ListCategories(suite.ctx)
	require.NoError(suite.T(), err)

	defaults := 0
	for _, c := range categories {
		if c.IsDefault {
			defaults++
			assert.NotEmpty(suite.T(), c.Name)
			assert.NotEmpty(suite.T(), c.Icon)
			assert.NotEmpty(suite.T(), c.Color)
		}
	}
	assert.Equal(suite.T(), 12, defaults, "expected exactly 12 default categories")
}

func (suite *RepositoryTestSuite) TestProvisioningIsIdempotent() {
	// Re-running migrations on an already provisioned database must be a
	// no-op: no duplicate categories, no errors.
	require.NoError(suite.T(), RunMigrations(suite.dbPath))
	require.NoError(suite.T(), RunMigrations(suite.dbPath))

	assert.Equal(suite.T(), 12, suite.count("SELECT COUNT(*) FROM categories WHERE is_default = 1"))
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicateUsername() {
	suite.createUser("john", "john@example.com")

	_, err := suite.repo.CreateUser(suite.ctx, "john", "other@example.com", "hash", "Other")
	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)

	// No row was added
	assert.Equal(suite.T(), 1, suite.count("SELECT COUNT(*) FROM users"))
}

func (suite *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	suite.createUser("john", "john@example.com")

	_, err := suite.repo.CreateUser(suite.ctx, "johnny", "john@example.com", "hash", "Johnny")
	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)
	assert.Equal(suite.T(), 1, suite.count("SELECT COUNT(*) FROM users"))
}

func (suite *RepositoryTestSuite) TestGetUserByLogin() {
	created := suite.createUser("john", "john@example.com")

	byUsername, err := suite.repo.GetUserByLogin(suite.ctx, "john")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.ID, byUsername.ID)

	byEmail, err := suite.repo.GetUserByLogin(suite.ctx, "john@example.com")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.ID, byEmail.ID)

	_, err = suite.repo.GetUserByLogin(suite.ctx, "nobody")
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestSetUserActive() {
	u := suite.createUser("john", "john@example.com")
	assert.True(suite.T(), u.IsActive)

	require.NoError(suite.T(), suite.repo.SetUserActive(suite.ctx, u.ID, false))

	reloaded, err := suite.repo.GetUser(suite.ctx, u.ID)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), reloaded.IsActive)
}

func (suite *RepositoryTestSuite) TestCreateExpenseRejectsUnknownPaymentMethod() {
	u := suite.createUser("john", "john@example.com")

	// Bypassing core validation on purpose: the CHECK constraint is the
	// second line of defense.
	_, err := suite.repo.db.ExecContext(suite.ctx, `
		INSERT INTO expenses (user_id, category_id, amount_cents, description, expense_date, payment_method)
		VALUES (?, 1, 100, 'bad method', '2024-03-15', 'Cheque')`, u.ID)
	require.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), mapError("insert", err), core.ErrConstraint)

	assert.Equal(suite.T(), 0, suite.count("SELECT COUNT(*) FROM expenses"))
}

func (suite *RepositoryTestSuite) TestCreateExpenseRejectsUnknownReferences() {
	u := suite.createUser("john", "john@example.com")

	_, err := suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID:        9999,
		CategoryID:    1,
		Amount:        core.Money{Cents: 100},
		Description:   "ghost user",
		Date:          core.NewDate(2024, 3, 15),
		PaymentMethod: core.Cash,
	})
	assert.ErrorIs(suite.T(), err, core.ErrReferenced)

	_, err = suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID:        u.ID,
		CategoryID:    9999,
		Amount:        core.Money{Cents: 100},
		Description:   "ghost category",
		Date:          core.NewDate(2024, 3, 15),
		PaymentMethod: core.Cash,
	})
	assert.ErrorIs(suite.T(), err, core.ErrReferenced)
}

func (suite *RepositoryTestSuite) TestDeleteUserCascades() {
	u := suite.createUser("john", "john@example.com")
	suite.createExpense(u.ID, 1, 5000, core.NewDate(2024, 3, 1))
	suite.createExpense(u.ID, 2, 3000, core.NewDate(2024, 3, 2))

	_, err := suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, Amount: core.Money{Cents: 100000}, Month: 3, Year: 2024,
	})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.repo.DeleteUser(suite.ctx, u.ID))

	// No orphan financial records remain
	assert.Equal(suite.T(), 0, suite.count("SELECT COUNT(*) FROM expenses"))
	assert.Equal(suite.T(), 0, suite.count("SELECT COUNT(*) FROM budgets"))
}

func (suite *RepositoryTestSuite) TestDeleteCategoryRestrictAndSetNull() {
	u := suite.createUser("john", "john@example.com")
	custom, err := suite.repo.CreateCategory(suite.ctx, core.Category{Name: "Pets", Icon: "🐕", Color: "#111111"})
	require.NoError(suite.T(), err)

	e := suite.createExpense(u.ID, custom.ID, 2500, core.NewDate(2024, 3, 10))

	budget, err := suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, CategoryID: &custom.ID, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2024,
	})
	require.NoError(suite.T(), err)

	// Blocked while an expense references the category
	err = suite.repo.DeleteCategory(suite.ctx, custom.ID)
	assert.ErrorIs(suite.T(), err, core.ErrReferenced)

	// Once the expense is gone the delete succeeds and the budget keeps
	// its row with the category reference cleared.
	require.NoError(suite.T(), suite.repo.DeleteExpense(suite.ctx, e.ID, u.ID))
	require.NoError(suite.T(), suite.repo.DeleteCategory(suite.ctx, custom.ID))

	reloaded, err := suite.repo.GetBudget(suite.ctx, budget.ID, u.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), reloaded.CategoryID)
}

func (suite *RepositoryTestSuite) TestBudgetUniqueKey() {
	u := suite.createUser("john", "john@example.com")
	catID := int64(1)

	_, err := suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, CategoryID: &catID, Amount: core.Money{Cents: 10000}, Month: 3, Year: 2024,
	})
	require.NoError(suite.T(), err)

	// Same (user, category, month, year) fails
	_, err = suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, CategoryID: &catID, Amount: core.Money{Cents: 20000}, Month: 3, Year: 2024,
	})
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)

	// Different period succeeds
	_, err = suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, CategoryID: &catID, Amount: core.Money{Cents: 20000}, Month: 4, Year: 2024,
	})
	assert.NoError(suite.T(), err)

	// Overall budget coexists with category budgets for the same period
	_, err = suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, Amount: core.Money{Cents: 100000}, Month: 3, Year: 2024,
	})
	assert.NoError(suite.T(), err)

	// But only one overall budget per period
	_, err = suite.repo.CreateBudget(suite.ctx, core.Budget{
		UserID: u.ID, Amount: core.Money{Cents: 200000}, Month: 3, Year: 2024,
	})
	assert.ErrorIs(suite.T(), err, core.ErrDuplicate)
}

func (suite *RepositoryTestSuite) TestExpenseCRUD() {
	u := suite.createUser("john", "john@example.com")

	created, err := suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID:        u.ID,
		CategoryID:    1,
		Amount:        core.Money{Cents: 1250},
		Description:   "Lunch",
		Date:          core.NewDate(2024, 3, 15),
		PaymentMethod: core.UPI,
		Notes:         "with colleagues",
	})
	require.NoError(suite.T(), err)
	assert.NotZero(suite.T(), created.ID)
	assert.NotEmpty(suite.T(), created.CategoryName, "list queries join category attributes")
	assert.Equal(suite.T(), core.UPI, created.PaymentMethod)
	assert.Equal(suite.T(), "2024-03-15", created.Date.ISO())

	created.Amount = core.Money{Cents: 1300}
	created.Description = "Lunch (corrected)"
	require.NoError(suite.T(), suite.repo.UpdateExpense(suite.ctx, *created))

	reloaded, err := suite.repo.GetExpense(suite.ctx, created.ID, u.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1300), reloaded.Amount.Cents)
	assert.Equal(suite.T(), "Lunch (corrected)", reloaded.Description)

	require.NoError(suite.T(), suite.repo.DeleteExpense(suite.ctx, created.ID, u.ID))
	_, err = suite.repo.GetExpense(suite.ctx, created.ID, u.ID)
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestExpenseScopedToOwner() {
	owner := suite.createUser("owner", "owner@example.com")
	intruder := suite.createUser("intruder", "intruder@example.com")

	e := suite.createExpense(owner.ID, 1, 1000, core.NewDate(2024, 3, 15))

	_, err := suite.repo.GetExpense(suite.ctx, e.ID, intruder.ID)
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)

	err = suite.repo.DeleteExpense(suite.ctx, e.ID, intruder.ID)
	assert.ErrorIs(suite.T(), err, core.ErrNotFound)
}

func (suite *RepositoryTestSuite) TestListExpensesFilters() {
	u := suite.createUser("john", "john@example.com")
	suite.createExpense(u.ID, 1, 1000, core.NewDate(2024, 3, 1))
	suite.createExpense(u.ID, 2, 2000, core.NewDate(2024, 3, 15))
	suite.createExpense(u.ID, 1, 3000, core.NewDate(2024, 4, 1))

	all, err := suite.repo.ListExpenses(suite.ctx, u.ID, ExpenseFilter{})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), all, 3)
	// Newest first
	assert.Equal(suite.T(), "2024-04-01", all[0].Date.ISO())

	march, err := suite.repo.ListExpenses(suite.ctx, u.ID, ExpenseFilter{
		From: core.NewDate(2024, 3, 1), To: core.NewDate(2024, 3, 31),
	})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), march, 2)

	food, err := suite.repo.ListExpenses(suite.ctx, u.ID, ExpenseFilter{CategoryID: 1})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), food, 2)

	limited, err := suite.repo.ListExpenses(suite.ctx, u.ID, ExpenseFilter{Limit: 1, Offset: 1})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), limited, 1)
	assert.Equal(suite.T(), "2024-03-15", limited[0].Date.ISO())
}

func (suite *RepositoryTestSuite) TestSearchExpenses() {
	u := suite.createUser("john", "john@example.com")

	_, err := suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID: u.ID, CategoryID: 1, Amount: core.Money{Cents: 900},
		Description: "Morning coffee", Date: core.NewDate(2024, 3, 1), PaymentMethod: core.Cash,
	})
	require.NoError(suite.T(), err)
	_, err = suite.repo.CreateExpense(suite.ctx, core.Expense{
		UserID: u.ID, CategoryID: 1, Amount: core.Money{Cents: 4500},
		Description: "Groceries", Notes: "coffee beans included", Date: core.NewDate(2024, 3, 2), PaymentMethod: core.Cash,
	})
	require.NoError(suite.T(), err)

	hits, err := suite.repo.SearchExpenses(suite.ctx, u.ID, "coffee")
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), hits, 2, "matches descriptions and notes")

	none, err := suite.repo.SearchExpenses(suite.ctx, u.ID, "sushi")
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), none)
}

func (suite *RepositoryTestSuite) TestTotalExpensesDefaultsToZero() {
	u := suite.createUser("john", "john@example.com")

	total, err := suite.repo.TotalExpenses(suite.ctx, u.ID, ExpenseFilter{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total.Cents)

	suite.createExpense(u.ID, 1, 5000, core.NewDate(2024, 3, 1))
	suite.createExpense(u.ID, 2, 3000, core.NewDate(2024, 3, 2))

	total, err = suite.repo.TotalExpenses(suite.ctx, u.ID, ExpenseFilter{})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(8000), total.Cents)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
