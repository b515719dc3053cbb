package transaction

import (
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID        string          `json:"id" doc:"Transaction UUID"`
	UserID    string          `json:"userId" doc:"Owner UUID"`
	Amount    apitypes.Amount `json:"amount" doc:"Signed decimal amount"`
	Type      string          `json:"type" enum:"income,expense" doc:"Transaction kind"`
	Category  string          `json:"category" doc:"Free text category"`
	Date      apitypes.Date   `json:"date" doc:"Calendar date of the transaction"`
	Note      string          `json:"note" doc:"Free text note, empty when unset"`
	CreatedAt time.Time       `json:"createdAt" doc:"Creation timestamp"`
	UpdatedAt time.Time       `json:"updatedAt" doc:"Last update timestamp"`
}

func fromService(tx service.Transaction) Transaction {
	return Transaction{
		ID:        tx.ID.String(),
		UserID:    tx.UserID.String(),
		Amount:    apitypes.NewAmount(tx.Amount),
		Type:      string(tx.Kind),
		Category:  tx.Category,
		Date:      apitypes.NewDate(tx.Date),
		Note:      tx.Note,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// FilterQuery holds the list and summary query parameters.
type FilterQuery struct {
	Category string `query:"category" doc:"Exact category"`
	Type     string `query:"type" doc:"Exact kind, income or expense"`
	From     string `query:"from" doc:"Earliest date, inclusive (YYYY-MM-DD)"`
	To       string `query:"to" doc:"Latest date, inclusive (YYYY-MM-DD)"`
	Search   string `query:"search" doc:"Case-insensitive substring of note or category"`
}

// parseFilter turns the query into a service filter. Empty parameters do not
// filter. A malformed date is a 400.
func parseFilter(query FilterQuery) (service.TransactionFilter, error) {
	var filter service.TransactionFilter

	if query.Category != "" {
		filter.Category = &query.Category
	}
	if query.Type != "" {
		kind := service.TransactionKind(query.Type)
		filter.Kind = &kind
	}
	if query.Search != "" {
		filter.Search = &query.Search
	}
	if query.From != "" {
		from, err := apitypes.ParseDate(query.From)
		if err != nil {
			return filter, apierror.New(http.StatusBadRequest, "Invalid from date.", err)
		}
		filter.From = &from.Time
	}
	if query.To != "" {
		to, err := apitypes.ParseDate(query.To)
		if err != nil {
			return filter, apierror.New(http.StatusBadRequest, "Invalid to date.", err)
		}
		filter.To = &to.Time
	}

	return filter, nil
}

// pathTransactionID parses the {id} path parameter. An unparseable id cannot
// name a transaction the caller owns, so it is Forbidden like any other miss.
func pathTransactionID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, apierror.New(http.StatusForbidden, apierror.MessageForbidden, err)
	}
	return id, nil
}
