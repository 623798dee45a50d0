package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	testMongoURI         = "mongodb://localhost:27017"
	globalTestClient     *mongo.Client
	globalTestClientErr  error
	globalTestClientOnce sync.Once
)

func init() {
	if uri := os.Getenv("STORYHIVE_TEST_MONGO_URI"); uri != "" {
		testMongoURI = uri
	}
}

func getGlobalTestClient(t *testing.T) *mongo.Client {
	globalTestClientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(testMongoURI))
		if err != nil {
			globalTestClientErr = err
			return
		}
		if err := client.Ping(ctx, nil); err != nil {
			globalTestClientErr = err
			return
		}
		globalTestClient = client
	})

	if globalTestClientErr != nil {
		t.Skipf("Skipping test: MongoDB not reachable at %s: %v", testMongoURI, globalTestClientErr)
	}
	require.NotNil(t, globalTestClient)
	return globalTestClient
}

type testEnv struct {
	Client *mongo.Client
	DB     *mongo.Database
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Parallel()

	client := getGlobalTestClient(t)

	safeName := strings.ReplaceAll(t.Name(), "/", "_")
	if len(safeName) > 20 {
		safeName = safeName[len(safeName)-20:]
	}
	dbName := fmt.Sprintf("test_catalog_%s_%d", safeName, time.Now().UnixNano()%100000)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Database(dbName).Drop(ctx)
	})

	return &testEnv{Client: client, DB: client.Database(dbName)}
}
