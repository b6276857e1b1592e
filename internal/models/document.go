package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Document statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSubmitted  = "submitted"
)

// Document priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const DefaultCategory = "general"

type Document struct {
	ID            bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          bson.ObjectID `bson:"user" json:"user"`
	Title         string        `bson:"title" json:"title"`
	Status        string        `bson:"status" json:"status"`
	Description   string        `bson:"description" json:"description"`
	Category      string        `bson:"category" json:"category"`
	Priority      string        `bson:"priority" json:"priority"`
	DueDate       *time.Time    `bson:"due_date,omitempty" json:"dueDate,omitempty"`
	CompletedDate *time.Time    `bson:"completed_date,omitempty" json:"completedDate,omitempty"`
	Attachments   []Attachment  `bson:"attachments" json:"attachments"`
	Notes         string        `bson:"notes" json:"notes"`
	IsArchived    bool          `bson:"is_archived" json:"isArchived"`
	LastModified  time.Time     `bson:"last_modified" json:"lastModified"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
}

// SyncCompletedDate stamps CompletedDate when the document becomes completed
// and clears it when the document leaves that status.
func (d *Document) SyncCompletedDate(now time.Time) {
	if d.Status == StatusCompleted {
		if d.CompletedDate == nil {
			d.CompletedDate = &now
		}
		return
	}
	d.CompletedDate = nil
}

// DocumentFilter selects documents of a single owner. Without Recent the
// result is ordered by due date ascending, newest first within a due date.
type DocumentFilter struct {
	User     bson.ObjectID
	Archived *bool
	Status   string
	Category string
	Recent   bool
	Limit    int64
}
