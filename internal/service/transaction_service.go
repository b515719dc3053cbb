package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/events"
	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// TransactionService handles transaction business logic. Reads go straight
// to storage, writes run as operator actions.
type TransactionService struct {
	storage   *storage.Storage
	processor actionProcessor
	publisher events.Publisher
}

func NewTransactionService(store *storage.Storage, processor actionProcessor, publisher events.Publisher) *TransactionService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransactionService{
		storage:   store,
		processor: processor,
		publisher: publisher,
	}
}

// CreateTransaction stores a transaction owned by userID.
func (s *TransactionService) CreateTransaction(ctx context.Context, userID uuid.UUID, create NewTransaction) (*Transaction, error) {
	action := &actions.CreateTransaction{
		UserID:   userID,
		Amount:   create.Amount,
		Kind:     string(create.Kind),
		Category: create.Category,
		Date:     create.Date,
		Note:     create.Note,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	transaction := transactionFromRow(action.Result)
	s.publish(ctx, events.TransactionCreated, transaction.ID, userID)
	return &transaction, nil
}

// ListTransactions returns the caller's transactions matching filter, newest
// date first.
func (s *TransactionService) ListTransactions(ctx context.Context, userID uuid.UUID, filter TransactionFilter) ([]Transaction, error) {
	rows, err := s.storage.Transactions.List(ctx, filter.toStorage(userID))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	transactions := make([]Transaction, len(rows))
	for i, row := range rows {
		transactions[i] = transactionFromRow(row)
	}
	return transactions, nil
}

// UpdateTransaction applies patch to a transaction the caller owns.
func (s *TransactionService) UpdateTransaction(ctx context.Context, userID, transactionID uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	action := &actions.UpdateTransaction{
		UserID:        userID,
		TransactionID: transactionID,
		Setter:        patch.toSetter(),
	}
	if err := s.processor.Process(ctx, action); err != nil {
		if errors.Is(err, actions.ErrNotOwner) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	transaction := transactionFromRow(action.Result)
	s.publish(ctx, events.TransactionUpdated, transaction.ID, userID)
	return &transaction, nil
}

// DeleteTransaction removes a transaction the caller owns.
func (s *TransactionService) DeleteTransaction(ctx context.Context, userID, transactionID uuid.UUID) error {
	action := &actions.DeleteTransaction{
		UserID:        userID,
		TransactionID: transactionID,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		if errors.Is(err, actions.ErrNotOwner) {
			return ErrForbidden
		}
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publish(ctx, events.TransactionDeleted, transactionID, userID)
	return nil
}

// Summarize totals the same set ListTransactions would return.
func (s *TransactionService) Summarize(ctx context.Context, userID uuid.UUID, filter TransactionFilter) (*Summary, error) {
	transactions, err := s.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Income:  decimal.Zero,
		Expense: decimal.Zero,
		Count:   len(transactions),
	}
	for _, transaction := range transactions {
		switch transaction.Kind {
		case KindIncome:
			summary.Income = summary.Income.Add(transaction.Amount)
		case KindExpense:
			summary.Expense = summary.Expense.Add(transaction.Amount)
		}
	}
	summary.Net = summary.Income.Sub(summary.Expense)

	return summary, nil
}

func (s *TransactionService) publish(ctx context.Context, kind events.Kind, transactionID, userID uuid.UUID) {
	event := events.NewTransactionEvent(kind, transactionID, userID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"kind":          kind,
			"transactionID": transactionID.String(),
		}).Warn("TransactionService.publish")
	}
}
