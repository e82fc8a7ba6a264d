package testutil

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/valera-kram/recipe-app-api/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoURIEnv names an existing MongoDB to test against. When unset, a
// mongo container is started once per test binary.
const MongoURIEnv = "RECIPES_TEST_MONGO_URI"

const (
	mongoImage = "mongo:7"
	replicaSet = "rs0"
)

var (
	clientOnce sync.Once
	client     *mongo.Client
	clientErr  error
)

// TestContext returns a context bounded for a single test's DB work.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// SetupTestDB returns a fresh, uniquely named database that is dropped
// when the test ends. The test is skipped when no MongoDB is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB test in -short mode")
	}

	uri := os.Getenv(MongoURIEnv)
	if uri == "" {
		testcontainers.SkipIfProviderIsNotHealthy(t)
	}

	clientOnce.Do(func() {
		client, clientErr = connect(uri)
	})
	if clientErr != nil {
		t.Skipf("MongoDB unavailable: %v", clientErr)
	}

	name := "recipes_test_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	db := client.Database(name)
	t.Cleanup(func() {
		ctx, cancel := TestContext()
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("drop test database %s: %v", name, err)
		}
	})
	return db
}

// SetupIndexedDB is SetupTestDB with the application's indexes in place.
// Tests that depend on unique constraints use it.
func SetupIndexedDB(t *testing.T) *mongo.Database {
	t.Helper()
	db := SetupTestDB(t)
	ctx, cancel := TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}
	return db
}

// connect dials uri, or starts a container when uri is empty. The
// container runs a single-node replica set so recipe and label writes use
// real transactions. It lives until the test binary exits; ryuk reaps it.
func connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if uri == "" {
		var err error
		if uri, err = startReplicaSet(ctx); err != nil {
			return nil, err
		}
	}

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := waitWritable(ctx, cl); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}
	return cl, nil
}

// startReplicaSet starts mongod with --replSet and initiates it. The
// member is registered as localhost, so clients connect directly.
func startReplicaSet(ctx context.Context) (string, error) {
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{"27017/tcp"},
			Cmd:          []string{"--replSet", replicaSet, "--bind_ip_all"},
			WaitingFor:   wait.ForListeningPort("27017/tcp"),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start mongo container: %w", err)
	}

	initiate := fmt.Sprintf("rs.initiate({_id: %q, members: [{_id: 0, host: \"localhost:27017\"}]})", replicaSet)
	code, out, err := c.Exec(ctx, []string{"mongosh", "--quiet", "--eval", initiate})
	if err != nil {
		return "", fmt.Errorf("initiate replica set: %w", err)
	}
	if code != 0 {
		msg, _ := io.ReadAll(out)
		return "", fmt.Errorf("initiate replica set: exit %d: %s", code, msg)
	}

	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := c.MappedPort(ctx, "27017/tcp")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("mongodb://%s:%s/?directConnection=true", host, port.Port()), nil
}

// waitWritable pings cl until the server accepts writes. A fresh replica
// set needs a moment to elect itself primary.
func waitWritable(ctx context.Context, cl *mongo.Client) error {
	for {
		var hello struct {
			IsWritablePrimary bool   `bson:"isWritablePrimary"`
			SetName           string `bson:"setName"`
		}
		err := cl.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
		if err == nil && (hello.IsWritablePrimary || hello.SetName == "") {
			return nil
		}
		select {
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}
			return fmt.Errorf("mongo not writable: %w", err)
		case <-time.After(250 * time.Millisecond):
		}
	}
}
