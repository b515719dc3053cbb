package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/auth"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apierror"
	"github.com/carson-networks/finance-server/internal/handlers/v1/apitypes"
	"github.com/carson-networks/finance-server/internal/service"
)

type SummaryInput struct {
	FilterQuery
}

type SummaryBody struct {
	Income  apitypes.Amount `json:"income" doc:"Sum of income amounts"`
	Expense apitypes.Amount `json:"expense" doc:"Sum of expense amounts"`
	Net     apitypes.Amount `json:"net" doc:"Income minus expense"`
	Count   int             `json:"count" doc:"Number of transactions totalled"`
}

type SummaryOutput struct {
	Body SummaryBody
}

type transactionSummarizer interface {
	Summarize(ctx context.Context, userID uuid.UUID, filter service.TransactionFilter) (*service.Summary, error)
}

// SummaryHandler handles GET /api/transactions/summary.
type SummaryHandler struct {
	TransactionService transactionSummarizer
	Tokens             auth.TokenValidator
}

func NewSummaryHandler(svc transactionSummarizer, tokens auth.TokenValidator) *SummaryHandler {
	return &SummaryHandler{TransactionService: svc, Tokens: tokens}
}

func (h *SummaryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "summarize-transactions",
		Method:      http.MethodGet,
		Path:        "/api/transactions/summary",
		Summary:     "Summarize transactions",
		Description: "Totals the transactions the same filters would list.",
		Tags:        []string{"Transactions"},
		Middlewares: huma.Middlewares{auth.Guard(api, h.Tokens)},
	}, h.handle)
}

func (h *SummaryHandler) handle(ctx context.Context, input *SummaryInput) (*SummaryOutput, error) {
	userID, err := apierror.Caller(ctx)
	if err != nil {
		return nil, err
	}

	filter, err := parseFilter(input.FilterQuery)
	if err != nil {
		return nil, err
	}

	summary, err := h.TransactionService.Summarize(ctx, userID, filter)
	if err != nil {
		return nil, apierror.FromService(ctx, err, "Failed to summarize transactions.")
	}

	return &SummaryOutput{Body: SummaryBody{
		Income:  apitypes.NewAmount(summary.Income),
		Expense: apitypes.NewAmount(summary.Expense),
		Net:     apitypes.NewAmount(summary.Net),
		Count:   summary.Count,
	}}, nil
}
