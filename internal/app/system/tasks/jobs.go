// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// OAuthStateCleanupJob creates a job that removes expired OAuth state tokens.
// The TTL index on oauth_states handles most of this; the job covers
// deployments where TTL monitors are disabled or lag badly.
func OAuthStateCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "oauth-state-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			coll := db.Collection("oauth_states")
			result, err := coll.DeleteMany(ctx, bson.M{
				"expires_at": bson.M{"$lt": time.Now()},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up expired oauth states",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// RateLimitCleanupJob creates a job that removes stale login rate limit records.
func RateLimitCleanupJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "rate-limit-cleanup",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			coll := db.Collection("rate_limits")
			cutoff := time.Now().Add(-24 * time.Hour)
			result, err := coll.DeleteMany(ctx, bson.M{
				"last_attempt": bson.M{"$lt": cutoff},
			})
			if err != nil {
				return err
			}
			if result.DeletedCount > 0 {
				logger.Info("cleaned up stale rate limit records",
					zap.Int64("deleted", result.DeletedCount))
			}
			return nil
		},
	}
}

// OrphanedItemSweepJob creates a job that detaches note references from
// folders when the note no longer exists. Deleting a note removes it from
// its folder in the same operation, so this only repairs drift from crashes
// mid-update or external edits to the database.
func OrphanedItemSweepJob(db *mongo.Database, logger *zap.Logger) Job {
	return Job{
		Name:     "orphaned-item-sweep",
		Interval: 12 * time.Hour,
		Run: func(ctx context.Context) error {
			folders := db.Collection("folders")
			notes := db.Collection("notes")

			cur, err := folders.Find(ctx, bson.M{"items.0": bson.M{"$exists": true}})
			if err != nil {
				return err
			}
			defer cur.Close(ctx)

			var removed int64
			for cur.Next(ctx) {
				var doc struct {
					ID    interface{} `bson:"_id"`
					Items []string    `bson:"items"`
				}
				if err := cur.Decode(&doc); err != nil {
					return err
				}

				var orphans []string
				for _, item := range doc.Items {
					id, err := primitive.ObjectIDFromHex(item)
					if err != nil {
						// Not a note reference; leave it alone.
						continue
					}
					n, err := notes.CountDocuments(ctx, bson.M{"_id": id})
					if err != nil {
						return err
					}
					if n == 0 {
						orphans = append(orphans, item)
					}
				}
				if len(orphans) == 0 {
					continue
				}

				res, err := folders.UpdateOne(ctx,
					bson.M{"_id": doc.ID},
					bson.M{
						"$pull": bson.M{"items": bson.M{"$in": orphans}},
						"$set":  bson.M{"updated_at": time.Now().UTC()},
					},
				)
				if err != nil {
					return err
				}
				removed += int64(len(orphans)) * res.ModifiedCount
			}
			if err := cur.Err(); err != nil {
				return err
			}

			if removed > 0 {
				logger.Info("detached orphaned note references",
					zap.Int64("removed", removed))
			}
			return nil
		},
	}
}
