package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Note struct {
	ID               bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User             bson.ObjectID `bson:"user" json:"user"`
	ParentCollection bson.ObjectID `bson:"parent_collection" json:"parentCollection"`
	Title            string        `bson:"title" json:"title"`
	Content          string        `bson:"content" json:"content"`
	Tags             []string      `bson:"tags" json:"tags"`
	Color            string        `bson:"color" json:"color"`
	IsPinned         bool          `bson:"is_pinned" json:"isPinned"`
	IsArchived       bool          `bson:"is_archived" json:"isArchived"`
	LastModified     time.Time     `bson:"last_modified" json:"lastModified"`
	Attachments      []Attachment  `bson:"attachments" json:"attachments"`
	CreatedAt        time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updatedAt"`

	// Collection is filled on read paths that show the parent next to the
	// note. It is never stored.
	Collection *CollectionSummary `bson:"collection,omitempty" json:"-"`
}

// CollectionSummary is the parent collection as shown alongside a note.
type CollectionSummary struct {
	ID    bson.ObjectID `bson:"_id" json:"_id"`
	Name  string        `bson:"name" json:"name"`
	Color string        `bson:"color" json:"color"`
	Icon  string        `bson:"icon" json:"icon"`
}

// MarshalJSON writes parentCollection as the summary object when it is
// loaded and as the bare id otherwise.
func (n Note) MarshalJSON() ([]byte, error) {
	type note Note
	var parent any = n.ParentCollection
	if n.Collection != nil {
		parent = n.Collection
	}
	return json.Marshal(struct {
		note
		ParentCollection any `json:"parentCollection"`
	}{note(n), parent})
}

// UnmarshalJSON accepts both forms written by MarshalJSON.
func (n *Note) UnmarshalJSON(data []byte) error {
	type note Note
	aux := struct {
		*note
		ParentCollection json.RawMessage `json:"parentCollection"`
	}{note: (*note)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	raw := aux.ParentCollection
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if raw[0] == '{' {
		var c CollectionSummary
		if err := json.Unmarshal(raw, &c); err != nil {
			return err
		}
		n.Collection = &c
		n.ParentCollection = c.ID
		return nil
	}
	return json.Unmarshal(raw, &n.ParentCollection)
}

type Attachment struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
	Type string `bson:"type" json:"type"`
	Size int64  `bson:"size,omitempty" json:"size,omitempty"`
}

// NoteFilter selects notes of a single owner.
//
// Collection narrows to one parent collection. Search matches title, content
// and tags case-insensitively. Recent orders by last modification only;
// otherwise pinned notes come first. WithCollection loads each note's parent
// summary.
type NoteFilter struct {
	User       bson.ObjectID
	Collection *bson.ObjectID
	Archived   *bool
	Search     string
	Recent         bool
	Limit          int64
	WithCollection bool
}
