package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage"
	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

type CreateTransaction struct {
	UserID   uuid.UUID
	Amount   decimal.Decimal
	Kind     string
	Category string
	Date     time.Time
	Note     string

	// Result holds the stored row once Perform succeeds.
	Result *sqlconfig.Transaction
	IAction
}

func (t *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	storageCreate := &sqlconfig.TransactionCreate{
		UserID:   t.UserID,
		Amount:   t.Amount,
		Kind:     t.Kind,
		Category: t.Category,
		Date:     t.Date,
		Note:     t.Note,
	}
	row, err := writer.Transactions.Insert(ctx, storageCreate)
	if err != nil {
		return err
	}

	t.Result = row
	return nil
}
