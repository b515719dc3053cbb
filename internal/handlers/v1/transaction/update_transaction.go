package transaction

import (
	"context"
	"net/http"

	"github.com/aarondl/opt/omit"
	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/service"
)

// UpdateTransactionBody holds the fields to change. Absent fields keep their
// stored value.
type UpdateTransactionBody struct {
	Amount   *apitypes.Amount `json:"amount,omitempty" doc:"Signed decimal amount"`
	Type     *string          `json:"type,omitempty" enum:"income,expense" doc:"Transaction kind"`
	Category *string          `json:"category,omitempty" doc:"Free text category"`
	Date     *apitypes.Date   `json:"date,omitempty" doc:"Calendar date"`
	Note     *string          `json:"note,omitempty" doc:"Free text note"`
}

type UpdateTransactionInput struct {
	ID   string `path:"id" doc:"Transaction UUID"`
	Body UpdateTransactionBody
}

type UpdateTransactionOutput struct {
	Body Transaction
}

type transactionUpdater interface {
	UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, patch service.TransactionPatch) (*service.Transaction, error)
}

// UpdateTransactionHandler handles PATCH /api/transactions/{id}.
type UpdateTransactionHandler struct {
	TransactionService transactionUpdater
	Tokens             auth.TokenValidator
}

func NewUpdateTransactionHandler(svc transactionUpdater, tokens auth.TokenValidator) *UpdateTransactionHandler {
	return &UpdateTransactionHandler{TransactionService: svc, Tokens: tokens}
}

func (h *UpdateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-transaction",
		Method:      http.MethodPatch,
		Path:        "/api/transactions/{id}",
		Summary:     "Update transaction",
		Tags:        []string{"Transactions"},
		Middlewares: huma.Middlewares{auth.Guard(api, h.Tokens)},
	}, h.handle)
}

func (h *UpdateTransactionHandler) handle(ctx context.Context, input *UpdateTransactionInput) (*UpdateTransactionOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}
	transactionID, err := pathTransactionID(input.ID)
	if err != nil {
		return nil, err
	}

	updated, err := h.TransactionService.UpdateTransaction(ctx, userID, transactionID, patchFromBody(input.Body))
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to update transaction.")
	}

	return &UpdateTransactionOutput{Body: fromService(*updated)}, nil
}

func patchFromBody(body UpdateTransactionBody) service.TransactionPatch {
	patch := service.TransactionPatch{
		Category: omit.FromPtr(body.Category),
		Note:     omit.FromPtr(body.Note),
	}
	if body.Amount != nil {
		patch.Amount = omit.From(body.Amount.Decimal)
	}
	if body.Type != nil {
		patch.Kind = omit.From(service.TransactionKind(*body.Type))
	}
	if body.Date != nil {
		patch.Date = omit.From(body.Date.Time)
	}
	return patch
}
