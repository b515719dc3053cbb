package sqlconfig

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ ITransactionTable = (*TransactionsTable)(nil)

var transactionColumns = []any{"id", "user_id", "amount", "kind", "category", "date", "note", "created_at", "updated_at"}

type TransactionsTable struct {
	exec bob.Executor
}

func NewTransactionsTable(exec bob.Executor) *TransactionsTable {
	return &TransactionsTable{exec: exec}
}

// FindByID retrieves a transaction by primary key, or nil when absent. With
// forUpdate the row stays locked until the surrounding transaction ends.
func (t *TransactionsTable) FindByID(ctx context.Context, id uuid.UUID, forUpdate bool) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	if forUpdate {
		queryMods = append(queryMods, sm.ForUpdate())
	}

	row, err := bob.One(ctx, t.exec, psql.Select(queryMods...), scan.StructMapper[Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Insert creates a new transaction and returns the stored row.
func (t *TransactionsTable) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	query := psql.Insert(
		im.Into(transactionsTableName, "id", "user_id", "amount", "kind", "category", "date", "note", "created_at", "updated_at"),
		im.Values(psql.Arg(id, create.UserID, create.Amount, create.Kind, create.Category, dateOnly(create.Date), create.Note, now, now)),
		im.Returning(transactionColumns...),
	)
	row, err := bob.One(ctx, t.exec, query, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns the owner's transactions matching the filter, newest date first.
func (t *TransactionsTable) List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	query := psql.Select(
		sm.Columns(transactionColumns...),
		sm.From(transactionsTableName),
		sm.Where(psql.And(transactionFilterExpressions(filter)...)),
		sm.OrderBy(psql.Quote("date")).Desc(),
		sm.OrderBy(psql.Quote("created_at")).Desc(),
	)
	rows, err := bob.All(ctx, t.exec, query, scan.StructMapper[Transaction]())
	if err != nil {
		return nil, err
	}
	result := make([]*Transaction, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}

// Update writes the set fields of setter and returns the stored row, or nil
// when the row no longer exists.
func (t *TransactionsTable) Update(ctx context.Context, id uuid.UUID, setter *TransactionSetter) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.UpdateQuery]{
		um.Table(transactionsTableName),
		um.SetCol("updated_at").ToArg(time.Now().UTC()),
	}
	if v, ok := setter.Amount.Get(); ok {
		queryMods = append(queryMods, um.SetCol("amount").ToArg(v))
	}
	if v, ok := setter.Kind.Get(); ok {
		queryMods = append(queryMods, um.SetCol("kind").ToArg(v))
	}
	if v, ok := setter.Category.Get(); ok {
		queryMods = append(queryMods, um.SetCol("category").ToArg(v))
	}
	if v, ok := setter.Date.Get(); ok {
		queryMods = append(queryMods, um.SetCol("date").ToArg(dateOnly(v)))
	}
	if v, ok := setter.Note.Get(); ok {
		queryMods = append(queryMods, um.SetCol("note").ToArg(v))
	}
	queryMods = append(queryMods,
		um.Where(psql.Quote("id").EQ(psql.Arg(id))),
		um.Returning(transactionColumns...),
	)

	row, err := bob.One(ctx, t.exec, psql.Update(queryMods...), scan.StructMapper[Transaction]())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the row permanently.
func (t *TransactionsTable) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := bob.Exec(ctx, t.exec, psql.Delete(
		dm.From(transactionsTableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	))
	return err
}

func transactionFilterExpressions(filter *TransactionFilter) []bob.Expression {
	where := []bob.Expression{psql.Quote("user_id").EQ(psql.Arg(filter.UserID))}
	if filter.Category != nil {
		where = append(where, psql.Quote("category").EQ(psql.Arg(*filter.Category)))
	}
	if filter.Kind != nil {
		where = append(where, psql.Quote("kind").EQ(psql.Arg(*filter.Kind)))
	}
	if filter.From != nil {
		where = append(where, psql.Quote("date").GTE(psql.Arg(dateOnly(*filter.From))))
	}
	if filter.To != nil {
		where = append(where, psql.Quote("date").LTE(psql.Arg(dateOnly(*filter.To))))
	}
	if filter.Search != nil {
		pattern := "%" + EscapeLike(*filter.Search) + "%"
		where = append(where, psql.Raw("(note ILIKE ? OR category ILIKE ?)", pattern, pattern))
	}
	return where
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike makes s match literally inside a LIKE pattern.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// dateOnly drops the time of day so DATE columns compare on calendar days.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
