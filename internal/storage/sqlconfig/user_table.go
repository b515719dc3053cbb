package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/lib/pq"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

// ErrDuplicateEmail is returned by Insert when the email is already taken.
var ErrDuplicateEmail = errors.New("email already registered")

const uniqueViolation = "23505"

var _ IUserTable = (*UsersTable)(nil)

var userColumns = []any{"id", "name", "email", "password_hash", "dob", "phone", "created_at", "updated_at"}

type UsersTable struct {
	exec bob.Executor
}

func NewUsersTable(exec bob.Executor) *UsersTable {
	return &UsersTable{exec: exec}
}

// FindByID retrieves a user by primary key, or nil when absent.
func (t *UsersTable) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return t.findOne(ctx, psql.Quote("id").EQ(psql.Arg(id)))
}

// FindByEmail retrieves a user by email, or nil when absent.
func (t *UsersTable) FindByEmail(ctx context.Context, email string) (*User, error) {
	return t.findOne(ctx, psql.Quote("email").EQ(psql.Arg(email)))
}

func (t *UsersTable) findOne(ctx context.Context, where bob.Expression) (*User, error) {
	query := psql.Select(
		sm.Columns(userColumns...),
		sm.From(usersTableName),
		sm.Where(where),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[User]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates a new user and returns the stored row.
func (t *UsersTable) Insert(ctx context.Context, create *UserCreate) (*User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	dob := sql.NullTime{}
	if create.Dob != nil {
		dob = sql.NullTime{Time: dateOnly(*create.Dob), Valid: true}
	}

	query := psql.Insert(
		im.Into(usersTableName, "id", "name", "email", "password_hash", "dob", "phone", "created_at", "updated_at"),
		im.Values(psql.Arg(id, create.Name, create.Email, create.PasswordHash, dob, create.Phone, now, now)),
		im.Returning(userColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[User]())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &row, nil
}

// UpdateProfile writes the set profile fields and returns the stored row, or
// nil when the user no longer exists.
func (t *UsersTable) UpdateProfile(ctx context.Context, id uuid.UUID, setter *UserSetter) (*User, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(usersTableName),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
	}
	if v, ok := setter.Name.Get(); ok {
		queryMods = append(queryMods, um.SetCol("name").ToArg(v))
	}
	if v, ok := setter.Dob.Get(); ok {
		queryMods = append(queryMods, um.SetCol("dob").ToArg(dateOnly(v)))
	}
	if v, ok := setter.Phone.Get(); ok {
		queryMods = append(queryMods, um.SetCol("phone").ToArg(v))
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(userColumns...),
	)

	row, err := bob.One(ctx, t.exec, psql.Update(queryMods...), scan.StructMapper[User]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
