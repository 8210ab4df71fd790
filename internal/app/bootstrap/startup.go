// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/notekeep/internal/app/system/authutil"
	"github.com/dalemusser/notekeep/internal/app/system/normalize"
	"github.com/dalemusser/notekeep/internal/app/system/tasks"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// This is the place for one-time initialization that depends on having live
// database connections and fully loaded configuration. Unlike ConnectDB and
// EnsureSchema which focus on infrastructure, Startup is for application-level
// initialization.
//
// Returning a non-nil error will abort startup and prevent the server from
// starting. Returning nil signals that initialization succeeded.
//
// The context will be cancelled if the process is asked to shut down while
// Startup is running; honor it in any long-running work.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	// Note: Indexes are created in EnsureSchema via indexes.EnsureAll().
	// Store-level EnsureIndexes() calls are not needed here.

	// Seed admin user if configured
	if appCfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, deps, appCfg.SeedAdminEmail, appCfg.SeedAdminName, logger); err != nil {
			logger.Error("failed to seed admin user", zap.Error(err))
			return err
		}
	}

	// Start background task runner
	startTaskRunner(deps.MongoDatabase, logger)

	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(db *mongo.Database, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Register cleanup jobs
	taskRunner.Register(tasks.OAuthStateCleanupJob(db, logger))
	taskRunner.Register(tasks.RateLimitCleanupJob(db, logger))
	taskRunner.Register(tasks.OrphanedItemSweepJob(db, logger))

	// Start running jobs
	taskRunner.Start()
}

// ensureAdminUser ensures an admin user exists with the given email.
// If a user exists with this email, ensure they have admin role.
// If no user exists, create a new admin user with Google auth (no password).
func ensureAdminUser(ctx context.Context, deps DBDeps, email string, name string, logger *zap.Logger) error {
	db := deps.MongoDatabase
	coll := db.Collection("users")

	email = normalize.Email(email)
	if name == "" {
		name = "Admin"
	}

	var existingUser models.User
	err := coll.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&existingUser)

	if err == nil {
		// User exists
		if existingUser.Role == models.RoleAdmin {
			logger.Debug("admin user already configured", zap.String("email", email))
			return nil
		}

		// Promote to admin
		_, err = coll.UpdateByID(ctx, existingUser.ID, bson.M{
			"$set": bson.M{
				"role":       models.RoleAdmin,
				"updated_at": time.Now().UTC(),
			},
		})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin",
			zap.String("email", email),
			zap.String("user_id", existingUser.ID.Hex()),
			zap.String("previous_role", existingUser.Role))
		return nil
	}

	if err != mongo.ErrNoDocuments {
		return err
	}

	// Create new admin user. Seeded admins sign in with Google; password
	// login stays unavailable until a hash is set.
	now := time.Now().UTC()
	newUser := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		EmailCI:    text.Fold(email),
		AuthMethod: authutil.MethodGoogle,
		Role:       models.RoleAdmin,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err = coll.InsertOne(ctx, newUser)
	if err != nil {
		return err
	}

	logger.Info("created admin user",
		zap.String("email", email),
		zap.String("user_id", newUser.ID.Hex()))
	return nil
}
