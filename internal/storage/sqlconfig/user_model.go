package sqlconfig

import (
	"context"
	"database/sql"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
)

const usersTableName = "users"

// User represents a user record.
type User struct {
	ID           uuid.UUID    `db:"id"`
	Name         string       `db:"name"`
	Email        string       `db:"email"`
	PasswordHash string       `db:"password_hash"`
	Dob          sql.NullTime `db:"dob"`
	Phone        string       `db:"phone"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// UserCreate is the input for creating a new user.
type UserCreate struct {
	Name         string
	Email        string
	PasswordHash string
	Dob          *time.Time
	Phone        string
}

// UserSetter carries the profile columns a partial update writes.
type UserSetter struct {
	Name  omit.Val[string]
	Dob   omit.Val[time.Time]
	Phone omit.Val[string]
}

// IUserTable defines the interface for user storage operations.
//
//go:generate mockery --name IUserTable --output mock_IUserTable.go
type IUserTable interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Insert(ctx context.Context, create *UserCreate) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, setter *UserSetter) (*User, error)
}
