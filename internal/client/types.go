package client

import (
	"time"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
)

type User struct {
	ID    string         `json:"id,omitempty"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Dob   *apitypes.Date `json:"dob"`
	Phone string         `json:"phone"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SignupRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Dob      *apitypes.Date `json:"dob,omitempty"`
	Phone    string         `json:"phone,omitempty"`
}

type ProfileUpdate struct {
	Name  *string        `json:"name,omitempty"`
	Dob   *apitypes.Date `json:"dob,omitempty"`
	Phone *string        `json:"phone,omitempty"`
}

type Transaction struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Amount    apitypes.Amount `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Date      apitypes.Date   `json:"date"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type NewTransaction struct {
	Amount   apitypes.Amount `json:"amount"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Date     apitypes.Date   `json:"date"`
	Note     string          `json:"note,omitempty"`
}

type TransactionUpdate struct {
	Amount   *apitypes.Amount `json:"amount,omitempty"`
	Type     *string          `json:"type,omitempty"`
	Category *string          `json:"category,omitempty"`
	Date     *apitypes.Date   `json:"date,omitempty"`
	Note     *string          `json:"note,omitempty"`
}

// Query holds the server-side list filters. Empty fields are not sent.
type Query struct {
	Category string
	Type     string
	From     string
	To       string
	Search   string
}

type Summary struct {
	Income  apitypes.Amount `json:"income"`
	Expense apitypes.Amount `json:"expense"`
	Net     apitypes.Amount `json:"net"`
	Count   int             `json:"count"`
}
