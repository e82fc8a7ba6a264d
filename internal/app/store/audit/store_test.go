package audit_test

import (
	"testing"
	"time"

	"github.com/valera-kram/recipe-app-api/internal/app/store/audit"
	"github.com/valera-kram/recipe-app-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventTokenIssued,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestClient/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() || events[0].CreatedAt.IsZero() {
		t.Error("expected ID and CreatedAt to be generated")
	}
}

func TestStore_Query(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	base := time.Now().UTC().Add(-time.Hour)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventTokenIssued, UserID: &userID, Success: true, CreatedAt: base},
		{Category: audit.CategoryAuth, EventType: audit.EventTokenFailedWrongPass, UserID: &userID, CreatedAt: base.Add(time.Minute)},
		{Category: audit.CategoryAuth, EventType: audit.EventTokenFailedUserNotFound, CreatedAt: base.Add(2 * time.Minute)},
		{Category: audit.CategoryAccount, EventType: audit.EventUserCreated, UserID: &userID, Success: true, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	got, err := store.Query(ctx, audit.QueryFilter{UserID: &userID})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events for user, got %d", len(got))
	}
	if got[0].EventType != audit.EventUserCreated {
		t.Errorf("expected newest first, got %s", got[0].EventType)
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil || n != 3 {
		t.Errorf("CountByFilter = %d, %v; want 3", n, err)
	}

	notOK := false
	failed, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth, Success: &notOK, StartTime: &base})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(failed) != 2 {
		t.Errorf("expected 2 failed token requests, got %d", len(failed))
	}
}

func TestStore_Query_DefaultLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i := 0; i < 105; i++ {
		if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventTokenIssued}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	got, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("expected default limit of 100, got %d", len(got))
	}
}
