package user

import (
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/service"
)

// Profile is the API response model for a user. The password hash is never
// part of it.
type Profile struct {
	ID    string         `json:"id" doc:"User UUID"`
	Name  string         `json:"name" doc:"Display name"`
	Email string         `json:"email" doc:"Login email"`
	Dob   *apitypes.Date `json:"dob" doc:"Date of birth, null when unset"`
	Phone string         `json:"phone" doc:"Phone number, empty when unset"`
}

// AuthResponseBody is returned by signup and login.
type AuthResponseBody struct {
	Token string  `json:"token" doc:"Bearer token, valid for one hour"`
	User  Profile `json:"user"`
}

func profileFromService(profile service.Profile) Profile {
	out := Profile{
		ID:    profile.ID.String(),
		Name:  profile.Name,
		Email: profile.Email,
		Phone: profile.Phone,
	}
	if profile.Dob != nil {
		dob := apitypes.NewDate(*profile.Dob)
		out.Dob = &dob
	}
	return out
}
