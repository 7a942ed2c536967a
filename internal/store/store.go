package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store persists the parking, wash and payroll records through GORM.
// Every method runs inside the transaction carried by ctx when there is one.
type Store struct {
	db *gorm.DB
}

// New constructs a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection.
func (s *Store) DB() *gorm.DB {
	if s == nil {
		return nil
	}
	return s.db
}

type txKey struct{}

// InTx runs fn inside a database transaction. Nested calls join the outer transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("store: not initialized")
	}
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// first loads a single row into dest and reports absence as (false, nil).
func first(query *gorm.DB, dest any) (bool, error) {
	errFind := query.Take(dest).Error
	if errFind == nil {
		return true, nil
	}
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, errFind
}

// sumInt64 runs a COALESCE(SUM(column), 0) over query.
func sumInt64(query *gorm.DB, column string) (int64, error) {
	var total int64
	if errSum := query.Select(fmt.Sprintf("COALESCE(SUM(%s), 0)", column)).Scan(&total).Error; errSum != nil {
		return 0, errSum
	}
	return total, nil
}
