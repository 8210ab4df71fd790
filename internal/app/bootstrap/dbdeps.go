// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/notekeep/internal/app/system/summarize"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// This struct is created in ConnectDB and passed to subsequent lifecycle
// hooks: EnsureSchema, Startup, BuildHandler, and Shutdown. It serves as
// the central place to store all database clients and backend connections
// that the application needs.
//
// The Shutdown hook is responsible for closing these connections gracefully
// when the application terminates.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Summarizer generates note summaries via an OpenAI-compatible API.
	// Nil when no API key is configured; the summarize endpoint then
	// reports the feature as unavailable.
	Summarizer summarize.Provider
}
