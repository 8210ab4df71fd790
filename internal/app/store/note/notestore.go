// internal/app/store/note/notestore.go
package notestore

import (
	"context"
	"time"

	"github.com/dalemusser/notekeep/internal/app/system/htmlsanitize"
	"github.com/dalemusser/notekeep/internal/app/system/normalize"
	"github.com/dalemusser/notekeep/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection for notes.
const CollectionName = "notes"

// Store provides access to the notes collection. Ownership checks live in
// the API layer; the store trusts the owner passed in its filters.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a new note for owner. The body is sanitized and stored
// alongside its rendered HTML form.
func (s *Store) Create(ctx context.Context, owner, title, body string, tagIDs []primitive.ObjectID) (models.Note, error) {
	title = normalize.Title(title)
	if tagIDs == nil {
		tagIDs = []primitive.ObjectID{}
	}

	now := time.Now().UTC()
	n := models.Note{
		ID:        primitive.NewObjectID(),
		Owner:     owner,
		Title:     title,
		TitleCI:   text.Fold(title),
		Body:      body,
		BodyHTML:  htmlsanitize.PrepareBody(body),
		TagIDs:    tagIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Note{}, err
	}
	return n, nil
}

// GetByID loads a note by ObjectID. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Note, error) {
	var n models.Note
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetByIDs loads multiple notes by their ObjectIDs. Missing IDs are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Note, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListByOwner returns the owner's notes sorted by recency.
func (s *Store) ListByOwner(ctx context.Context, owner string, opts ...*options.FindOptions) ([]models.Note, error) {
	findOpts := append([]*options.FindOptions{
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}),
	}, opts...)

	cur, err := s.c.Find(ctx, bson.M{"owner": owner}, findOpts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// ListByTag returns the owner's notes carrying the given tag.
func (s *Store) ListByTag(ctx context.Context, owner string, tagID primitive.ObjectID) ([]models.Note, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"owner": owner, "tag_ids": tagID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var notes []models.Note
	if err := cur.All(ctx, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// UpdateInput holds the optional fields for updating a note.
// All fields are pointers - nil means "don't update this field".
type UpdateInput struct {
	Title  *string
	Body   *string
	TagIDs []primitive.ObjectID
}

// UpdateFromInput updates a note's fields. A body update re-sanitizes the
// content and clears any stale summary.
func (s *Store) UpdateFromInput(ctx context.Context, id primitive.ObjectID, input UpdateInput) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	unset := bson.M{}

	if input.Title != nil {
		title := normalize.Title(*input.Title)
		set["title"] = title
		set["title_ci"] = text.Fold(title)
	}
	if input.Body != nil {
		set["body"] = *input.Body
		set["body_html"] = htmlsanitize.PrepareBody(*input.Body)
		// The stored summary no longer describes the new content.
		unset["summary"] = ""
		unset["summarized_at"] = ""
	}
	if input.TagIDs != nil {
		set["tag_ids"] = input.TagIDs
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetSummary stores a generated summary on the note.
func (s *Store) SetSummary(ctx context.Context, id primitive.ObjectID, summary string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"summary":       summary,
			"summarized_at": now,
			"updated_at":    now,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveTagFromAll pulls a tag ID out of every note owned by owner.
// Called when a tag is deleted.
func (s *Store) RemoveTagFromAll(ctx context.Context, owner string, tagID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"owner": owner, "tag_ids": tagID},
		bson.M{
			"$pull": bson.M{"tag_ids": tagID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// Delete deletes a note by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Count returns the number of notes matching the given filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.c.CountDocuments(ctx, filter)
}
