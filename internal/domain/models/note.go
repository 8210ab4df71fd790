package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Note is a user's note. Body holds the raw text as submitted; BodyHTML is
// the sanitized rendering stored alongside it so reads never re-sanitize.
type Note struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner    string             `bson:"owner" json:"owner"`
	Title    string             `bson:"title" json:"title"`
	TitleCI  string             `bson:"title_ci" json:"-"`
	Body     string             `bson:"body" json:"body"`
	BodyHTML string             `bson:"body_html,omitempty" json:"body_html,omitempty"`

	TagIDs []primitive.ObjectID `bson:"tag_ids,omitempty" json:"tag_ids,omitempty"`

	// Summary is the last AI-generated summary, empty until requested.
	Summary      string     `bson:"summary,omitempty" json:"summary,omitempty"`
	SummarizedAt *time.Time `bson:"summarized_at,omitempty" json:"summarized_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
