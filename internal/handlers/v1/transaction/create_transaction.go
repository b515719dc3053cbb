package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/logging"
	"github.com/carson-networks/finance-server/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Amount   apitypes.Amount `json:"amount" doc:"Signed decimal amount"`
	Type     string          `json:"type" enum:"income,expense" doc:"Transaction kind"`
	Category string          `json:"category" doc:"Free text category"`
	Date     apitypes.Date   `json:"date" doc:"Calendar date"`
	Note     string          `json:"note,omitempty" doc:"Free text note"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, userID uuid.UUID, create service.NewTransaction) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /api/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
	Tokens             auth.TokenValidator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator, tokens auth.TokenValidator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc, Tokens: tokens}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/api/transactions",
		Summary:       "Create transaction",
		Description:   "Creates a transaction owned by the caller.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{auth.Guard(api, h.Tokens)},
	}, h.handle)
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}

	created, err := h.TransactionService.CreateTransaction(ctx, userID, service.NewTransaction{
		Amount:   input.Body.Amount.Decimal,
		Kind:     service.TransactionKind(input.Body.Type),
		Category: input.Body.Category,
		Date:     input.Body.Date.Time,
		Note:     input.Body.Note,
	})
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to create transaction.")
	}

	logging.GetLogData(ctx).AddData("transactionID", created.ID.String())

	return &CreateTransactionOutput{Body: fromService(*created)}, nil
}
