package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-server/internal/operator/actions"
	"github.com/carson-networks/finance-server/internal/storage"
)

// WriterSource opens a transaction-bound storage.Writer.
type WriterSource interface {
	Write(ctx context.Context) (*storage.Writer, error)
}

// Operator is a worker that runs queued actions one at a time, each inside
// its own database transaction.
type Operator struct {
	id      int
	storage WriterSource
	queue   <-chan ActionItem
	logger  logrus.FieldLogger
}

func NewOperator(id int, s WriterSource, queue <-chan ActionItem, logger logrus.FieldLogger) *Operator {
	return &Operator{
		id:      id,
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run drains the queue until it is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		err := o.perform(item.ctx, item.action)
		if err != nil {
			o.logger.WithFields(logrus.Fields{
				"worker": o.id,
				"action": fmt.Sprintf("%T", item.action),
				"error":  err.Error(),
			}).Debug("Operator.perform")
		}
		item.response <- err
	}
}

func (o *Operator) perform(ctx context.Context, action actions.IAction) (err error) {
	// The caller may have given up while the item sat in the queue.
	if err = ctx.Err(); err != nil {
		return err
	}

	writer, err := o.storage.Write(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = writer.Rollback()
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()

	if err = action.Perform(ctx, writer); err != nil {
		_ = writer.Rollback()
		return err
	}

	return writer.Commit()
}

// ActionItem is a queued action plus the channel its result is sent on.
type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan<- error
}
