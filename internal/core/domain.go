package core

import (
	"errors"
	"strings"
	"time"
)

// Payment methods accepted by the expenses table. The schema enforces the
// same set with a CHECK constraint as a second line of defense.
const (
	Cash       PaymentMethod = "Cash"
	CreditCard PaymentMethod = "Credit Card"
	DebitCard  PaymentMethod = "Debit Card"
	UPI        PaymentMethod = "UPI"
	NetBanking PaymentMethod = "Net Banking"
	Other      PaymentMethod = "Other"
)

type (
	PaymentMethod string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID           int64     `json:"id"`
		Username     string    `json:"username"`
		Email        string    `json:"email"`
		PasswordHash string    `json:"-"`
		FullName     string    `json:"full_name"`
		IsActive     bool      `json:"is_active"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	Category struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Icon        string `json:"icon"`
		Color       string `json:"color"`
		Description string `json:"description"`
		IsDefault   bool   `json:"is_default"`
	}

	Expense struct {
		ID            int64         `json:"id"`
		UserID        int64         `json:"user_id"`
		CategoryID    int64         `json:"category_id"`
		Amount        Money         `json:"amount"`
		Description   string        `json:"description"`
		Date          Date          `json:"date"`
		PaymentMethod PaymentMethod `json:"payment_method"`
		Notes         string        `json:"notes"`
		CreatedAt     time.Time     `json:"created_at"`
		UpdatedAt     time.Time     `json:"updated_at"`

		// Denormalized category attributes, populated by list queries that
		// join against categories.
		CategoryName  string `json:"category_name,omitempty"`
		CategoryIcon  string `json:"category_icon,omitempty"`
		CategoryColor string `json:"category_color,omitempty"`
	}

	// Budget is a spending cap for one user, month and year. A nil
	// CategoryID means the overall budget for the period.
	Budget struct {
		ID         int64     `json:"id"`
		UserID     int64     `json:"user_id"`
		CategoryID *int64    `json:"category_id,omitempty"`
		Amount     Money     `json:"amount"`
		Month      int       `json:"month"`
		Year       int       `json:"year"`
		CreatedAt  time.Time `json:"created_at"`
		UpdatedAt  time.Time `json:"updated_at"`
	}
)

var (
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrInvalidYear          = errors.New("invalid year")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyUsername        = errors.New("empty username")
	ErrEmptyEmail           = errors.New("empty email")

	// Storage-layer error taxonomy. Repository methods map engine errors
	// onto these so callers can branch without knowing SQLite result codes.
	ErrNotFound   = errors.New("not found")
	ErrDuplicate  = errors.New("duplicate record")
	ErrReferenced = errors.New("referenced record")
	ErrConstraint = errors.New("constraint violated")
)

// Valid reports whether the payment method is one of the enumerated set.
func (p PaymentMethod) Valid() bool {
	switch p {
	case Cash, CreditCard, DebitCard, UPI, NetBanking, Other:
		return true
	}
	return false
}

// PaymentMethods lists the accepted values in picker order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{Cash, CreditCard, DebitCard, UPI, NetBanking, Other}
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month (1-12).
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// ISO returns the date formatted as YYYY-MM-DD, the format stored in the
// expenses table.
func (d Date) ISO() string {
	return d.Time.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	email := strings.TrimSpace(u.Email)
	if email == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return errors.New("malformed email")
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("empty category name")
	}
	if len(c.Name) > 50 {
		return errors.New("category name too long (max 50 characters)")
	}
	return nil
}

func (e Expense) Validate() error {
	if e.UserID <= 0 {
		return errors.New("missing user")
	}
	if e.CategoryID <= 0 {
		return errors.New("missing category")
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}

func (b Budget) Validate() error {
	if b.UserID <= 0 {
		return errors.New("missing user")
	}
	if b.CategoryID != nil && *b.CategoryID <= 0 {
		return errors.New("invalid category")
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1970 || b.Year > 9999 {
		return ErrInvalidYear
	}
	return nil
}
