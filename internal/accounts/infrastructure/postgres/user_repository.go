package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	accounts "well-analysis/internal/accounts/domain"
	"well-analysis/internal/auth"
)

const uniqueViolation = "23505"

const userColumns = "id, username, email, password_hash, role, created_at, last_login"

// UserRepository persists users in Postgres.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository constructs a repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. Unique violations map to ErrDuplicateUser.
func (r *UserRepository) Create(ctx context.Context, user accounts.User) error {
	if r == nil || r.db == nil {
		return errors.New("user repo: nil db")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, username, email, password_hash, role, created_at, last_login)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID, user.Username, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt, user.LastLogin,
	)
	return mapWriteError(err)
}

// Update overwrites email, password hash, role and last login.
func (r *UserRepository) Update(ctx context.Context, user accounts.User) error {
	if r == nil || r.db == nil {
		return errors.New("user repo: nil db")
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET email = $2, password_hash = $3, role = $4, last_login = $5
WHERE id = $1`,
		user.ID, user.Email, user.PasswordHash, string(user.Role), user.LastLogin,
	)
	if err != nil {
		return mapWriteError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return accounts.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*accounts.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("user repo: nil db")
	}
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1 LIMIT 1", id)
}

func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*accounts.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("user repo: nil db")
	}
	return r.queryOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1 OR lower(email) = lower($1) LIMIT 1", login)
}

// List returns users ordered by creation time.
func (r *UserRepository) List(ctx context.Context) ([]accounts.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("user repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]accounts.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

func (r *UserRepository) queryOne(ctx context.Context, query string, arg string) (*accounts.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (accounts.User, error) {
	var u accounts.User
	var role string
	var lastLogin sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &lastLogin); err != nil {
		return accounts.User{}, err
	}
	u.Role = auth.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	if lastLogin.Valid {
		t := lastLogin.Time.UTC()
		u.LastLogin = &t
	}
	return u, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return accounts.ErrDuplicateUser
	}
	return err
}
