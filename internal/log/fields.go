package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldCategoryID  = "category_id"
	FieldExpenseID   = "expense_id"
	FieldBudgetID    = "budget_id"
	FieldAmountCents = "amount_cents"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldDate        = "date"
	FieldCount       = "count"
	FieldDBPath      = "db_path"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentStorage   = "storage"
	ComponentUser      = "user"
	ComponentCategory  = "category"
	ComponentExpense   = "expense"
	ComponentBudget    = "budget"
	ComponentReport    = "report"
	ComponentCache     = "cache"
	ComponentProvision = "provision"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpSearch   = "search"
	OpValidate = "validate"
	OpSeed     = "seed"
	OpMigrate  = "migrate"
)
