// Package storage is the SQLite persistence layer. All schema knowledge
// lives here: the repository exposes parameterized CRUD and aggregation
// queries over the tables and views created by the embedded migrations,
// and maps engine errors onto the taxonomy in internal/core.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

type Repository struct {
	db *sql.DB
}

// NewRepository opens (creating if needed) the database at dbPath and runs
// migrations. Foreign keys are switched on per connection; without the
// pragma SQLite would silently skip the cascade and restrict rules.
func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const userColumns = "id, username, email, password_hash, full_name, is_active, created_at, updated_at"

func scanUser(row *sql.Row) (*core.User, error) {
	var u core.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Username and email uniqueness is enforced
// by the engine, so two concurrent registrations of the same name are
// serialized by the unique index and the loser gets ErrDuplicate.
func (r *Repository) CreateUser(ctx context.Context, username, email, passwordHash, fullName string) (*core.User, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, full_name) VALUES (?, ?, ?, ?)",
		username, email, passwordHash, fullName,
	)
	if err != nil {
		return nil, mapError("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return r.GetUser(ctx, id)
}

// GetUser retrieves a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err != nil {
		return nil, mapError("get user", err)
	}
	return u, nil
}

// GetUserByLogin retrieves a user matching the given username or email.
func (r *Repository) GetUserByLogin(ctx context.Context, login string) (*core.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? OR email = ?", login, login))
	if err != nil {
		return nil, mapError("get user by login", err)
	}
	return u, nil
}

// UpdateUserProfile updates the mutable profile fields.
func (r *Repository) UpdateUserProfile(ctx context.Context, id int64, fullName, email string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET full_name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		fullName, email, id,
	)
	if err != nil {
		return mapError("update user profile", err)
	}
	return requireRow(res, "update user profile")
}

// UpdateUserPassword replaces the stored password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		passwordHash, id,
	)
	if err != nil {
		return mapError("update user password", err)
	}
	return requireRow(res, "update user password")
}

// SetUserActive flips the soft-delete flag consulted at authentication.
func (r *Repository) SetUserActive(ctx context.Context, id int64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		active, id,
	)
	if err != nil {
		return mapError("set user active", err)
	}
	return requireRow(res, "set user active")
}

// DeleteUser removes a user. The engine cascades the delete to the user's
// expenses and budgets so no orphan financial records remain.
func (r *Repository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return mapError("delete user", err)
	}
	return requireRow(res, "delete user")
}

const categoryColumns = "id, category_name, icon, color, description, is_default"

// ListCategories returns all categories, defaults first then by name, the
// ordering the front-end pickers expect.
func (r *Repository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+categoryColumns+" FROM categories ORDER BY is_default DESC, category_name ASC")
	if err != nil {
		return nil, mapError("list categories", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.Description, &c.IsDefault); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (r *Repository) GetCategory(ctx context.Context, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.Icon, &c.Color, &c.Description, &c.IsDefault)
	if err != nil {
		return nil, mapError("get category", err)
	}
	return &c, nil
}

// CreateCategory inserts a custom (non-default) category.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (*core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO categories (category_name, icon, color, description, is_default) VALUES (?, ?, ?, ?, ?)",
		c.Name, c.Icon, c.Color, c.Description, c.IsDefault,
	)
	if err != nil {
		return nil, mapError("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return r.GetCategory(ctx, id)
}

// DeleteCategory removes a category. The delete is rejected with
// ErrReferenced while any expense references it, preserving historical
// records; referencing budgets get their category cleared instead.
func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return mapError("delete category", err)
	}
	return requireRow(res, "delete category")
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
