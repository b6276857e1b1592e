package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	DefaultColor = "#4800FF"
	DefaultIcon  = "folder"
)

type Collection struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User         bson.ObjectID `bson:"user" json:"user"`
	Name         string        `bson:"name" json:"name"`
	Description  string        `bson:"description" json:"description"`
	Color        string        `bson:"color" json:"color"`
	Icon         string        `bson:"icon" json:"icon"`
	IsArchived   bool          `bson:"is_archived" json:"isArchived"`
	NotesCount   int           `bson:"notes_count" json:"notesCount"`
	LastModified time.Time     `bson:"last_modified" json:"lastModified"`
	CreatedAt    time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updatedAt"`
}

// CollectionFilter selects collections of a single owner.
// A nil Archived matches both archived and active collections.
type CollectionFilter struct {
	User     bson.ObjectID
	Archived *bool
	Limit    int64
}

// Summary returns the fields shown next to the collection's notes.
func (c *Collection) Summary() *CollectionSummary {
	return &CollectionSummary{ID: c.ID, Name: c.Name, Color: c.Color, Icon: c.Icon}
}
