// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/valera-kram/recipe-app-api/internal/app/system/workers"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Background runs periodic jobs against the database. It is created
	// with the connection, started by BuildHandler and stopped by Shutdown.
	Background *workers.Scheduler
}
