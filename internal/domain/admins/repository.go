package admins

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("admin not found")
	// ErrConflict is returned by the store when a username or email is taken.
	ErrConflict = errors.New("admin conflict")
)

type Admin struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the public view of an admin returned by every auth operation.
type Summary struct {
	ID       string
	Username string
	Email    string
	Role     string
}

func (a Admin) Summary() Summary {
	return Summary{ID: a.ID, Username: a.Username, Email: a.Email, Role: a.Role}
}

type CreateParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         string
}

type Repository interface {
	// GetByUsername looks up an admin by lower-cased username regardless of state.
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	GetByID(ctx context.Context, id string) (*Admin, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Create(ctx context.Context, params CreateParams) (*Admin, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	SetActive(ctx context.Context, username string, active bool) (*Admin, error)
}
