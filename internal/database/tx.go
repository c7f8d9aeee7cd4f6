package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs a function inside a single database transaction.
// The transaction commits when fn returns nil and rolls back when it
// returns an error, so no partial application of an operation is ever
// observable.
type Transactor interface {
	Transactional(ctx context.Context, fn func(ctx context.Context) error) error
}

// TxManager is the GORM-backed Transactor. The open transaction travels
// in the context; repositories pick it up via FromContext.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager on the given connection.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transactional runs fn inside one transaction. A nested call joins the
// ambient transaction instead of opening a second one.
func (m *TxManager) Transactional(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := FromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// FromContext returns the ambient transaction, or nil if none is open.
func FromContext(ctx context.Context) *gorm.DB {
	tx, _ := ctx.Value(txKey{}).(*gorm.DB)
	return tx
}
