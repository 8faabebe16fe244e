package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafabene/orquesta-admin/internal/domain/ports"
)

type txContextKey struct{}

// UnitOfWork implementa ports.UnitOfWork sobre gorm.DB.Transaction
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork cria um novo UnitOfWork
func NewUnitOfWork(db *gorm.DB) ports.UnitOfWork {
	return &UnitOfWork{db: db}
}

// WithTransaction abre uma transação, ou um savepoint quando ctx já carrega uma
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return dbFromContext(ctx, uow.db).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext devolve a transação corrente ou o pool, sempre ligado a ctx
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
