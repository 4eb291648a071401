package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos take a Context instead of a bare context.Context so a caller can
// thread an in-flight transaction through without every repo method
// growing a *gorm.DB parameter.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// DB returns tx if this Context carries one, otherwise falls back to db.
func (c Context) DB(db *gorm.DB) *gorm.DB {
	if c.Tx != nil {
		return c.Tx.WithContext(c.Ctx)
	}
	return db.WithContext(c.Ctx)
}
