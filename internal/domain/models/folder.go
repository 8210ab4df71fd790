package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Folder is a node in a user's folder tree. A folder lists the ids of its
// child folders and the opaque ids of the items placed in it. The parent
// link is never stored; the parent of a folder is whichever document
// currently lists its id in `children`.
type Folder struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"` // Case-insensitive for sorting/search
	Owner   string             `bson:"owner" json:"owner"`

	Children []primitive.ObjectID `bson:"children" json:"children"`
	Items    []string             `bson:"items" json:"items"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasChild reports whether id is a direct child of the folder.
func (f *Folder) HasChild(id primitive.ObjectID) bool {
	for _, c := range f.Children {
		if c == id {
			return true
		}
	}
	return false
}

// HasItem reports whether the item id is directly contained in the folder.
func (f *Folder) HasItem(item string) bool {
	for _, it := range f.Items {
		if it == item {
			return true
		}
	}
	return false
}
