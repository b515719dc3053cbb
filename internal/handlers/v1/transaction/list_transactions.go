package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	FilterQuery
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body []Transaction
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	ListTransactions(ctx context.Context, userID uuid.UUID, filter service.TransactionFilter) ([]service.Transaction, error)
}

// ListTransactionsHandler handles GET /api/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
	Tokens             auth.TokenValidator
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister, tokens auth.TokenValidator) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc, Tokens: tokens}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions",
		Summary:     "List transactions",
		Description: "Returns the caller's transactions matching every given filter, newest date first.",
		Tags:        []string{"Transactions"},
		Middlewares: huma.Middlewares{auth.Guard(api, h.Tokens)},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := parseFilter(input.FilterQuery)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, err := h.TransactionService.ListTransactions(ctx, userID, filter)
	stopTimer()
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to list transactions.")
	}
	logData.AddData("transactionCount", len(transactions))

	resp := make([]Transaction, len(transactions))
	for i, tx := range transactions {
		resp[i] = fromService(tx)
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
