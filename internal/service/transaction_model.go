package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-server/internal/storage/sqlconfig"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Kind      TransactionKind
	Category  string
	Date      time.Time
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NewTransaction struct {
	Amount   decimal.Decimal
	Kind     TransactionKind
	Category string
	Date     time.Time
	Note     string
}

// TransactionPatch holds the fields an update writes. The owner is not
// patchable.
type TransactionPatch struct {
	Amount   omit.Val[decimal.Decimal]
	Kind     omit.Val[TransactionKind]
	Category omit.Val[string]
	Date     omit.Val[time.Time]
	Note     omit.Val[string]
}

// TransactionFilter narrows a listing. Nil fields do not filter.
type TransactionFilter struct {
	Category *string
	Kind     *TransactionKind
	From     *time.Time
	To       *time.Time
	Search   *string
}

type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

func transactionFromRow(row *sqlconfig.Transaction) Transaction {
	return Transaction{
		ID:        row.ID,
		UserID:    row.UserID,
		Amount:    row.Amount,
		Kind:      TransactionKind(row.Kind),
		Category:  row.Category,
		Date:      row.Date,
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (p TransactionPatch) toSetter() sqlconfig.TransactionSetter {
	setter := sqlconfig.TransactionSetter{
		Amount:   p.Amount,
		Category: p.Category,
		Date:     p.Date,
		Note:     p.Note,
	}
	if kind, ok := p.Kind.Get(); ok {
		setter.Kind = omit.From(string(kind))
	}
	return setter
}

func (f TransactionFilter) toStorage(userID uuid.UUID) *sqlconfig.TransactionFilter {
	filter := &sqlconfig.TransactionFilter{
		UserID:   userID,
		Category: f.Category,
		From:     f.From,
		To:       f.To,
		Search:   f.Search,
	}
	if f.Kind != nil {
		kind := string(*f.Kind)
		filter.Kind = &kind
	}
	return filter
}
