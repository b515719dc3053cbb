package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
)

type DeleteTransactionInput struct {
	ID string `path:"id" doc:"Transaction UUID"`
}

type DeleteTransactionOutput struct {
	Body struct {
		Message string `json:"message" example:"Transaction deleted."`
	}
}

type transactionDeleter interface {
	DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /api/transactions/{id}.
type DeleteTransactionHandler struct {
	TransactionService transactionDeleter
	Tokens             auth.TokenValidator
}

func NewDeleteTransactionHandler(svc transactionDeleter, tokens auth.TokenValidator) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc, Tokens: tokens}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "delete-transaction",
		Method:      http.MethodDelete,
		Path:        "/api/transactions/{id}",
		Summary:     "Delete transaction",
		Tags:        []string{"Transactions"},
		Middlewares: huma.Middlewares{auth.Guard(api, h.Tokens)},
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}
	transactionID, err := pathTransactionID(input.ID)
	if err != nil {
		return nil, err
	}

	if err := h.TransactionService.DeleteTransaction(ctx, userID, transactionID); err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to delete transaction.")
	}

	out := &DeleteTransactionOutput{}
	out.Body.Message = "Transaction deleted."
	return out, nil
}
