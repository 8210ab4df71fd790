package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag is a user-scoped label applied to notes. NameCI is the folded name
// used for case/diacritic-insensitive uniqueness within an owner.
type Tag struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner  string             `bson:"owner" json:"owner"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
