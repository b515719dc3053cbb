package actions

import (
	"context"
	"errors"

	"github.com/carson-networks/finance-server/internal/storage"
)

// ErrNotOwner is returned when the transaction is missing or belongs to
// another user. Both cases share the error so existence is not leaked.
var ErrNotOwner = errors.New("transaction not owned by caller")

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}
