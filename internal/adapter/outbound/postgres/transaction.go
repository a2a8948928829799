package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// txContextKey is used to store transaction in context.
type txContextKeyType struct{}

var txContextKey = txContextKeyType{}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// translate maps gorm errors onto the outbound port errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return outbound.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return outbound.ErrDuplicate
	default:
		return err
	}
}

// ========== Transaction Adapter ==========

// TransactionAdapter implements RecruitmentTransactionPort.
type TransactionAdapter struct {
	db *gorm.DB
}

// NewTransactionAdapter creates a new transaction adapter.
func NewTransactionAdapter(db *gorm.DB) *TransactionAdapter {
	return &TransactionAdapter{db: db}
}

// RunInTransaction runs fn in a transaction. A nested call joins the
// transaction already carried by ctx.
func (a *TransactionAdapter) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txContextKey).(*gorm.DB); ok && tx != nil {
		return fn(ctx)
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Store tx in context for nested operations
		txCtx := context.WithValue(ctx, txContextKey, tx)
		return fn(txCtx)
	})
}

// LockKey takes a transaction-scoped advisory lock on key.
func (a *TransactionAdapter) LockKey(ctx context.Context, key string) error {
	tx, ok := ctx.Value(txContextKey).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}

var _ outbound.RecruitmentTransactionPort = (*TransactionAdapter)(nil)
