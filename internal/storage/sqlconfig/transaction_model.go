package sqlconfig

import (
	"context"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const transactionsTableName = "transactions"

// Transaction represents a transaction record.
type Transaction struct {
	ID        uuid.UUID       `db:"id"`
	UserID    uuid.UUID       `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Kind      string          `db:"kind"`
	Category  string          `db:"category"`
	Date      time.Time       `db:"date"`
	Note      string          `db:"note"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID   uuid.UUID
	Amount   decimal.Decimal
	Kind     string
	Category string
	Date     time.Time
	Note     string
}

// TransactionSetter carries the columns a partial update writes. Unset
// fields keep their stored value.
type TransactionSetter struct {
	Amount   omit.Val[decimal.Decimal]
	Kind     omit.Val[string]
	Category omit.Val[string]
	Date     omit.Val[time.Time]
	Note     omit.Val[string]
}

// TransactionFilter specifies filters for listing transactions. UserID is
// always applied; the rest only when non-nil.
type TransactionFilter struct {
	UserID   uuid.UUID
	Category *string
	Kind     *string
	From     *time.Time
	To       *time.Time
	Search   *string
}

// ITransactionTable defines the interface for transaction storage operations.
// This abstraction allows swapping the implementation (e.g. Bob) without changing callers.
//
//go:generate mockery --name ITransactionTable --output mock_ITransactionTable.go
type ITransactionTable interface {
	FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	Update(ctx context.Context, id uuid.UUID, setter *TransactionSetter) (*Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
