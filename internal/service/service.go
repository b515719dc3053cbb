package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

type tokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// Service holds all business logic services.
type Service struct {
	Auth        *AuthService
	Transaction *TransactionService
}

// NewService creates a new Service over the given storage. Writes to
// transactions are handed to processor.
func NewService(
	store *storage.Storage,
	processor actionProcessor,
	tokens tokenIssuer,
	publisher events.Publisher,
	bcryptCost int,
) *Service {
	return &Service{
		Auth:        NewAuthService(store, tokens, bcryptCost),
		Transaction: NewTransactionService(store, processor, publisher),
	}
}
