package xcontext

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var errNoTransaction = errors.New("no database transaction in context")

type txState struct {
	tx       *gorm.DB
	finished bool
}

// WithDBTransaction begins a unit of work. Every repository call made with the
// returned context writes through the transaction until it is committed or
// rolled back. Nested units of work are not supported.
func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	return context.WithValue(ctx, txKey{}, &txState{tx: tx})
}

// WithCommitDBTransaction commits the unit of work opened by
// WithDBTransaction.
func WithCommitDBTransaction(ctx context.Context) error {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok {
		return errNoTransaction
	}

	if state.finished {
		return nil
	}

	state.finished = true
	if state.tx.Error != nil {
		state.tx.Rollback()
		return state.tx.Error
	}

	return state.tx.Commit().Error
}

// WithRollbackDBTransaction discards the unit of work. It is a no-op if the
// unit has already been committed, so it is safe to defer right after
// WithDBTransaction.
func WithRollbackDBTransaction(ctx context.Context) {
	state, ok := ctx.Value(txKey{}).(*txState)
	if !ok || state.finished {
		return
	}

	state.finished = true
	state.tx.Rollback()
}

// Transaction runs fn as one unit of work. The unit is committed only if fn
// returns nil; on an error or a panic everything fn wrote is rolled back before
// control returns to the caller.
func Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx = WithDBTransaction(ctx)
	defer WithRollbackDBTransaction(ctx)

	if err := fn(ctx); err != nil {
		return err
	}

	return WithCommitDBTransaction(ctx)
}
