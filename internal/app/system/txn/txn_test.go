package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some random error"), false},
		{"command error code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"command error code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"command error code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other command error code", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"wrapped command error", fmt.Errorf("insert recipe: %w", mongo.CommandError{Code: 20}), true},
		{"transaction and replica set", errors.New("transaction failed because this is not a replica set member"), true},
		{"session and not supported", errors.New("session operations are not supported on this server"), true},
		{"transaction and session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation", errors.New("illegal operation during transaction"), true},
		{"only transaction keyword", errors.New("transaction failed"), false},
		{"upper case keywords", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_AppliesWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := db.Collection("a").InsertOne(ctx, bson.M{"_id": 1}); err != nil {
			return err
		}
		_, err := db.Collection("b").InsertOne(ctx, bson.M{"_id": 1})
		return err
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	for _, coll := range []string{"a", "b"} {
		n, err := db.Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 1 {
			t.Errorf("collection %s has %d docs, want 1", coll, n)
		}
	}
}

func TestRun_ReturnsFnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	boom := errors.New("boom")

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}

func TestRun_FailedWriteLeavesNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	boom := errors.New("boom")
	coll := db.Collection("a")

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := coll.InsertOne(ctx, bson.M{"_id": 1}); err != nil {
			return err
		}
		OnRollback(ctx, func(ctx context.Context) error {
			_, err := coll.DeleteOne(ctx, bson.M{"_id": 1})
			return err
		})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want %v", err, boom)
	}
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Errorf("failed Run left %d documents", n)
	}
}

func TestRunCompensated_UndoesNewestFirst(t *testing.T) {
	boom := errors.New("boom")
	var order []int

	err := runCompensated(context.Background(), zap.NewNop(), func(ctx context.Context) error {
		OnRollback(ctx, func(context.Context) error { order = append(order, 1); return nil })
		OnRollback(ctx, func(context.Context) error { order = append(order, 2); return errors.New("undo failed") })
		OnRollback(ctx, func(context.Context) error { order = append(order, 3); return nil })
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
	if fmt.Sprint(order) != "[3 2 1]" {
		t.Errorf("undo order = %v, want [3 2 1]", order)
	}
}

func TestRunCompensated_SuccessKeepsWrites(t *testing.T) {
	called := false
	err := runCompensated(context.Background(), nil, func(ctx context.Context) error {
		OnRollback(ctx, func(context.Context) error { called = true; return nil })
		return nil
	})
	if err != nil || called {
		t.Errorf("err = %v, undo called = %v", err, called)
	}
}

func TestRunCompensated_UndoOutlivesCancelledRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var undoErr error

	_ = runCompensated(ctx, nil, func(ctx context.Context) error {
		OnRollback(ctx, func(ctx context.Context) error { undoErr = ctx.Err(); return nil })
		cancel()
		return ctx.Err()
	})
	if undoErr != nil {
		t.Errorf("undo ran on a done context: %v", undoErr)
	}
}

func TestOnRollback_OutsideRunIsIgnored(t *testing.T) {
	called := false
	OnRollback(context.Background(), func(context.Context) error { called = true; return nil })
	if called {
		t.Error("undo must not run when registered outside Run")
	}
}
