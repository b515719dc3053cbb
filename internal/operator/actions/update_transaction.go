package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

type UpdateTransaction struct {
	UserID        uuid.UUID
	TransactionID uuid.UUID
	Setter        sqlconfig.TransactionSetter

	Result *sqlconfig.Transaction
	IAction
}

func (t *UpdateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := lockOwned(ctx, writer, t.TransactionID, t.UserID); err != nil {
		return err
	}

	row, err := writer.Transactions.Update(ctx, t.TransactionID, &t.Setter)
	if err != nil {
		return err
	}
	if row == nil {
		return ErrNotOwner
	}

	t.Result = row
	return nil
}

// lockOwned locks the row and checks it belongs to userID.
func lockOwned(ctx context.Context, writer *storage.Writer, transactionID, userID uuid.UUID) error {
	existing, err := writer.Transactions.FindByID(ctx, transactionID, true)
	if err != nil {
		return err
	}
	if existing == nil || existing.UserID != userID {
		return ErrNotOwner
	}
	return nil
}
