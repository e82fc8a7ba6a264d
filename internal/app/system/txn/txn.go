// Package txn runs multi-collection writes inside a MongoDB transaction
// when the deployment supports it.
package txn

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a transaction on db's client. Standalone servers
// reject transactions; in that case fn is run once more without one, the
// writes are applied sequentially, and the undo steps fn registered with
// OnRollback run in reverse order if fn fails.
//
// fn must use the ctx it is given so that its operations join the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runCompensated(ctx, log, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		if log != nil {
			log.Debug("transactions unavailable, running without", zap.Error(err))
		}
		return runCompensated(ctx, log, fn)
	}
	return err
}

type undoKey struct{}

type undoList struct {
	mu    sync.Mutex
	steps []func(ctx context.Context) error
}

// OnRollback registers undo for a write fn has just made. It only takes
// effect when Run has fallen back to untransacted writes; inside a
// transaction the abort discards the write and undo is dropped.
func OnRollback(ctx context.Context, undo func(ctx context.Context) error) {
	l, ok := ctx.Value(undoKey{}).(*undoList)
	if !ok {
		return
	}
	l.mu.Lock()
	l.steps = append(l.steps, undo)
	l.mu.Unlock()
}

// runCompensated runs fn without a transaction. When fn fails, the
// registered undo steps run newest first on a context that outlives a
// cancelled request. Undo failures are logged; fn's error is returned.
func runCompensated(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	l := &undoList{}
	err := fn(context.WithValue(ctx, undoKey{}, l))
	if err == nil {
		return nil
	}

	uctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Medium())
	defer cancel()
	l.mu.Lock()
	steps := l.steps
	l.mu.Unlock()
	for i := len(steps) - 1; i >= 0; i-- {
		if uerr := steps[i](uctx); uerr != nil && log != nil {
			log.Error("undo after failed write", zap.Error(uerr), zap.NamedError("cause", err))
		}
	}
	return err
}

// IsNotSupported reports whether err indicates that the server cannot run
// multi-document transactions (standalone mongod, old versions).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, UnknownError-on-standalone, OperationNotSupportedInTransaction
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}
