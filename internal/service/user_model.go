package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

// Profile is the public view of a user. It never carries the password hash.
type Profile struct {
	ID    uuid.UUID
	Name  string
	Email string
	Dob   *time.Time
	Phone string
}

type Registration struct {
	Name     string
	Email    string
	Password string
	Dob      *time.Time
	Phone    string
}

// ProfilePatch holds the fields a profile update writes. Unset fields are
// left alone.
type ProfilePatch struct {
	Name  omit.Val[string]
	Dob   omit.Val[time.Time]
	Phone omit.Val[string]
}

type AuthResult struct {
	Token   string
	Profile Profile
}

func profileFromRow(row *sqlconfig.User) Profile {
	profile := Profile{
		ID:    row.ID,
		Name:  row.Name,
		Email: row.Email,
		Phone: row.Phone,
	}
	if row.Dob.Valid {
		dob := row.Dob.Time
		profile.Dob = &dob
	}
	return profile
}
