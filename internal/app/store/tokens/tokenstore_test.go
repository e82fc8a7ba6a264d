package tokenstore_test

import (
	"sync"
	"testing"

	tokenstore "github.com/valera-kram/recipe-app-api/internal/app/store/tokens"
	"github.com/valera-kram/recipe-app-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewKey(t *testing.T) {
	a, err := tokenstore.NewKey()
	if err != nil {
		t.Fatalf("NewKey failed: %v", err)
	}
	b, _ := tokenstore.NewKey()
	if len(a) != 40 {
		t.Errorf("len(key) = %d, want 40", len(a))
	}
	if a == b {
		t.Error("expected distinct keys")
	}
}

func TestStore_GetOrCreate(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := tokenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	first, err := store.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	second, err := store.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("second GetOrCreate failed: %v", err)
	}
	if first.Key != second.Key {
		t.Errorf("expected same token, got %q and %q", first.Key, second.Key)
	}

	other, err := store.GetOrCreate(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("GetOrCreate (other) failed: %v", err)
	}
	if other.Key == first.Key {
		t.Error("different users must not share a token")
	}
}

func TestStore_GetOrCreate_Concurrent(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := tokenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	const n = 8
	keys := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := store.GetOrCreate(ctx, user)
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			keys[i] = tok.Key
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if keys[i] != keys[0] {
			t.Fatalf("expected one token per user, got %q and %q", keys[0], keys[i])
		}
	}
}

func TestStore_ResolveToken(t *testing.T) {
	db := testutil.SetupIndexedDB(t)
	store := tokenstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	tok, err := store.GetOrCreate(ctx, user)
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	got, ok, err := store.ResolveToken(ctx, tok.Key)
	if err != nil || !ok || got != user {
		t.Errorf("ResolveToken = %s, %v, %v; want %s, true, nil", got.Hex(), ok, err, user.Hex())
	}

	if _, ok, err := store.ResolveToken(ctx, "not-a-token"); ok || err != nil {
		t.Errorf("unknown key: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := store.ResolveToken(ctx, ""); ok {
		t.Error("empty key must not resolve")
	}

	if err := store.DeleteForUser(ctx, user); err != nil {
		t.Fatalf("DeleteForUser failed: %v", err)
	}
	if _, ok, _ := store.ResolveToken(ctx, tok.Key); ok {
		t.Error("revoked key still resolves")
	}
}
