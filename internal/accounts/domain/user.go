package accounts

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"well-analysis/internal/auth"
)

// User is an application account.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         auth.Role  `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}

// Validate checks identity fields.
func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidUser)
	}
	if name := strings.TrimSpace(u.Username); name == "" || len(name) > 80 {
		return fmt.Errorf("%w: username must be 1-80 characters", ErrInvalidUser)
	}
	if len(u.Email) > 120 {
		return fmt.Errorf("%w: email too long", ErrInvalidUser)
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidUser)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	return nil
}

// Repository persists users. Username and email are unique.
type Repository interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (*User, error)
	// FindByLogin matches the username or the email.
	FindByLogin(ctx context.Context, login string) (*User, error)
	List(ctx context.Context) ([]User, error)
}
