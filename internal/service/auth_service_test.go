package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID uuid.UUID) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID.String(), nil
}

func newTestAuthService(t *testing.T) (*AuthService, *sqlconfig.MockIUserTable) {
	t.Helper()
	mockTable := sqlconfig.NewMockIUserTable(t)
	store := &storage.Storage{Users: mockTable}
	return NewAuthService(store, fakeIssuer{}, bcrypt.MinCost), mockTable
}

func storedUser(t *testing.T, password string) *sqlconfig.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &sqlconfig.User{
		ID:           uuid.Must(uuid.NewV4()),
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: hash,
		Phone:        "555",
	}
}

// -- Register tests --

func TestRegister_Success(t *testing.T) {
	svc, mockTable := newTestAuthService(t)
	userID := uuid.Must(uuid.NewV4())
	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)

	mockTable.EXPECT().FindByEmail(mock.Anything, "ann@example.com").Return(nil, nil)
	mockTable.EXPECT().Insert(mock.Anything, mock.MatchedBy(func(c *sqlconfig.UserCreate) bool {
		return c.Name == "Ann" &&
			c.Email == "ann@example.com" &&
			c.PasswordHash != "hunter22" &&
			auth.CheckPassword("hunter22", c.PasswordHash) &&
			c.Dob != nil && c.Dob.Equal(dob)
	})).Return(&sqlconfig.User{
		ID:           userID,
		Name:         "Ann",
		Email:        "ann@example.com",
		PasswordHash: "$2a$04$hash",
		Dob:          sql.NullTime{Time: dob, Valid: true},
	}, nil)

	result, err := svc.Register(context.Background(), Registration{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "hunter22",
		Dob:      &dob,
	})

	require.NoError(t, err)
	assert.Equal(t, "token-"+userID.String(), result.Token)
	assert.Equal(t, userID, result.Profile.ID)
	require.NotNil(t, result.Profile.Dob)
	assert.True(t, result.Profile.Dob.Equal(dob))
	assert.Equal(t, "", result.Profile.Phone)
}

func TestRegister_ExistingEmail(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().FindByEmail(mock.Anything, "ann@example.com").Return(storedUser(t, "x"), nil)

	_, err := svc.Register(context.Background(), Registration{Email: "ann@example.com", Password: "pw"})

	assert.ErrorIs(t, err, ErrConflict)
	mockTable.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegister_InsertRace(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(nil, nil)
	mockTable.EXPECT().Insert(mock.Anything, mock.Anything).Return(nil, sqlconfig.ErrDuplicateEmail)

	_, err := svc.Register(context.Background(), Registration{Email: "ann@example.com", Password: "pw"})

	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_StorageError(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Register(context.Background(), Registration{Email: "ann@example.com", Password: "pw"})

	assert.ErrorContains(t, err, "connection refused")
	assert.NotErrorIs(t, err, ErrConflict)
}

// -- Login tests --

func TestLogin_Success(t *testing.T) {
	svc, mockTable := newTestAuthService(t)
	user := storedUser(t, "hunter22")

	mockTable.EXPECT().FindByEmail(mock.Anything, "ann@example.com").Return(user, nil)

	result, err := svc.Login(context.Background(), "ann@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "token-"+user.ID.String(), result.Token)
	assert.Equal(t, "Ann", result.Profile.Name)
	assert.Nil(t, result.Profile.Dob)
}

func TestLogin_FailuresIndistinguishable(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().FindByEmail(mock.Anything, "nobody@example.com").Return(nil, nil)
	mockTable.EXPECT().FindByEmail(mock.Anything, "ann@example.com").Return(storedUser(t, "hunter22"), nil)

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	_, wrongErr := svc.Login(context.Background(), "ann@example.com", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestLogin_TokenError(t *testing.T) {
	mockTable := sqlconfig.NewMockIUserTable(t)
	svc := NewAuthService(&storage.Storage{Users: mockTable}, fakeIssuer{err: errors.New("no key")}, bcrypt.MinCost)

	mockTable.EXPECT().FindByEmail(mock.Anything, mock.Anything).Return(storedUser(t, "pw"), nil)

	_, err := svc.Login(context.Background(), "ann@example.com", "pw")

	assert.ErrorContains(t, err, "no key")
}

// -- Profile tests --

func TestGetProfile(t *testing.T) {
	svc, mockTable := newTestAuthService(t)
	user := storedUser(t, "pw")

	mockTable.EXPECT().FindByID(mock.Anything, user.ID).Return(user, nil)

	profile, err := svc.GetProfile(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, Profile{ID: user.ID, Name: "Ann", Email: "ann@example.com", Phone: "555"}, *profile)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().FindByID(mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.GetProfile(context.Background(), uuid.Must(uuid.NewV4()))

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile_OnlyDob(t *testing.T) {
	svc, mockTable := newTestAuthService(t)
	user := storedUser(t, "pw")
	dob := time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)
	updated := *user
	updated.Dob = sql.NullTime{Time: dob, Valid: true}

	mockTable.EXPECT().UpdateProfile(mock.Anything, user.ID, mock.MatchedBy(func(s *sqlconfig.UserSetter) bool {
		got, ok := s.Dob.Get()
		return ok && got.Equal(dob) && !s.Name.IsSet() && !s.Phone.IsSet()
	})).Return(&updated, nil)

	profile, err := svc.UpdateProfile(context.Background(), user.ID, ProfilePatch{Dob: omit.From(dob)})

	require.NoError(t, err)
	assert.Equal(t, "Ann", profile.Name)
	assert.Equal(t, "555", profile.Phone)
	require.NotNil(t, profile.Dob)
	assert.True(t, profile.Dob.Equal(dob))
}

func TestUpdateProfile_NotFound(t *testing.T) {
	svc, mockTable := newTestAuthService(t)

	mockTable.EXPECT().UpdateProfile(mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	_, err := svc.UpdateProfile(context.Background(), uuid.Must(uuid.NewV4()), ProfilePatch{Name: omit.From("Bo")})

	assert.ErrorIs(t, err, ErrNotFound)
}
