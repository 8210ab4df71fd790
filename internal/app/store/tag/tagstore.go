// internal/app/store/tag/tagstore.go
package tagstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/notekeep/internal/app/system/normalize"
	"github.com/dalemusser/notekeep/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for tags.
const CollectionName = "tags"

var (
	// ErrDuplicateName is returned when the owner already has a tag with
	// the same case-insensitive name.
	ErrDuplicateName = errors.New("a tag with this name already exists")
	errEmptyName     = errors.New("tag name is required")
)

// Store provides access to the tags collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a new tag for owner. Name uniqueness is enforced per owner
// by the unique (owner, name_ci) index.
func (s *Store) Create(ctx context.Context, owner, name string) (models.Tag, error) {
	name = normalize.TagName(name)
	if name == "" {
		return models.Tag{}, errEmptyName
	}

	now := time.Now().UTC()
	t := models.Tag{
		ID:        primitive.NewObjectID(),
		Owner:     owner,
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Tag{}, ErrDuplicateName
		}
		return models.Tag{}, err
	}
	return t, nil
}

// GetByID loads a tag by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tag, error) {
	var t models.Tag
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByName looks up the owner's tag by case/diacritic-insensitive name.
// Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByName(ctx context.Context, owner, name string) (*models.Tag, error) {
	var t models.Tag
	folded := text.Fold(normalize.TagName(name))
	if err := s.c.FindOne(ctx, bson.M{"owner": owner, "name_ci": folded}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByOwner returns the owner's tags sorted by name.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Tag, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"owner": owner},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tags []models.Tag
	if err := cur.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Rename changes a tag's name. Returns ErrDuplicateName when the owner
// already has a tag with the new name, and mongo.ErrNoDocuments when the
// tag does not exist.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.TagName(name)
	if name == "" {
		return errEmptyName
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"name":       name,
			"name_ci":    text.Fold(name),
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete deletes a tag by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
