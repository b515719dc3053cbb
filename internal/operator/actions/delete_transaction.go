package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
)

type DeleteTransaction struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	IAction
}

func (t *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := lockOwned(ctx, writer, t.TransactionID, t.UserID); err != nil {
		return err
	}

	return writer.Transactions.Delete(ctx, t.TransactionID)
}
