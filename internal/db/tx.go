package db

import (
	"context"

	"github.com/uptrace/bun"
)

type txKey struct{}

// TxRunner runs fn inside a single all-or-nothing transaction.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Transactor struct {
	db *bun.DB
}

func NewTransactor(db *bun.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx joins the transaction already carried by ctx, or opens a new one.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return fn(ctx)
	}
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction carried by ctx, falling back to db.
func Conn(ctx context.Context, db *bun.DB) bun.IDB {
	if tx, ok := ctx.Value(txKey{}).(bun.Tx); ok {
		return tx
	}
	return db
}

// NoTx runs fn directly. For services wired with in-memory repositories.
type NoTx struct{}

func (NoTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
