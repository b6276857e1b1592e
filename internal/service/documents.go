package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

type DocumentService struct {
	st  Stores
	now func() time.Time
}

func NewDocumentService(st Stores) *DocumentService {
	return &DocumentService{st: st, now: time.Now}
}

type DocumentInput struct {
	Title       string              `json:"title"`
	Status      string              `json:"status"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Priority    string              `json:"priority"`
	DueDate     *time.Time          `json:"dueDate"`
	Attachments []models.Attachment `json:"attachments"`
	Notes       string              `json:"notes"`
	IsArchived  bool                `json:"isArchived"`
}

type DocumentUpdate struct {
	Title       *string              `json:"title"`
	Status      *string              `json:"status"`
	Description *string              `json:"description"`
	Category    *string              `json:"category"`
	Priority    *string              `json:"priority"`
	DueDate     NullableTime         `json:"dueDate"`
	Attachments *[]models.Attachment `json:"attachments"`
	Notes       *string              `json:"notes"`
	IsArchived  *bool                `json:"isArchived"`
}

// NullableTime is an update field that tells an explicit null (clear the
// value) apart from an absent key (leave it alone).
type NullableTime struct {
	Set   bool
	Value *time.Time
}

// SetTime returns a NullableTime that writes t; a nil t clears the field.
func SetTime(t *time.Time) NullableTime {
	return NullableTime{Set: true, Value: t}
}

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}

func validateDocument(d *models.Document) error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Title,
			validation.Required.Error("Document title is required"),
			validation.RuneLength(0, 100).Error("Title cannot exceed 100 characters")),
		validation.Field(&d.Status, validation.Required.Error("Status is required"), validation.In(
			models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusSubmitted,
		).Error("Status must be one of pending, in_progress, completed, submitted")),
		validation.Field(&d.Description,
			validation.RuneLength(0, 300).Error("Description cannot exceed 300 characters")),
		validation.Field(&d.Category,
			validation.RuneLength(0, 50).Error("Category cannot exceed 50 characters")),
		validation.Field(&d.Priority, validation.Required.Error("Priority is required"), validation.In(
			models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent,
		).Error("Priority must be one of low, medium, high, urgent")),
		validation.Field(&d.Notes,
			validation.RuneLength(0, 500).Error("Notes cannot exceed 500 characters")),
	)
}

// List returns active documents, optionally narrowed by status and category,
// ordered by due date.
func (s *DocumentService) List(ctx context.Context, userID bson.ObjectID, status, category string) ([]models.Document, error) {
	return s.st.Documents.List(ctx, models.DocumentFilter{
		User:     userID,
		Archived: models.Bool(false),
		Status:   status,
		Category: category,
	})
}

func (s *DocumentService) Archived(ctx context.Context, userID bson.ObjectID) ([]models.Document, error) {
	return s.st.Documents.List(ctx, models.DocumentFilter{User: userID, Archived: models.Bool(true)})
}

func (s *DocumentService) Get(ctx context.Context, userID bson.ObjectID, id string) (*models.Document, error) {
	oid, err := parseID(id, "Document")
	if err != nil {
		return nil, err
	}
	d, err := s.st.Documents.FindOwned(ctx, oid, userID)
	if err != nil {
		return nil, fmt.Errorf("find document: %w", err)
	}
	if d == nil {
		return nil, apperr.NotFound("Document not found")
	}
	return d, nil
}

func (s *DocumentService) Create(ctx context.Context, userID bson.ObjectID, in DocumentInput) (*models.Document, error) {
	now := s.now()
	d := &models.Document{
		User:         userID,
		Title:        strings.TrimSpace(in.Title),
		Status:       orDefault(in.Status, models.StatusPending),
		Description:  strings.TrimSpace(in.Description),
		Category:     orDefault(strings.TrimSpace(in.Category), models.DefaultCategory),
		Priority:     orDefault(in.Priority, models.PriorityMedium),
		DueDate:      in.DueDate,
		Attachments:  in.Attachments,
		Notes:        strings.TrimSpace(in.Notes),
		IsArchived:   in.IsArchived,
		LastModified: now,
	}
	if d.Attachments == nil {
		d.Attachments = []models.Attachment{}
	}
	if err := invalid(validateDocument(d)); err != nil {
		return nil, err
	}
	d.SyncCompletedDate(now)

	err := s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Documents.Create(ctx, d); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return s.st.Users.AddRef(ctx, userID, models.RefDocuments, d.ID)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Update applies the present fields of upd and keeps completedDate in step
// with the status.
func (s *DocumentService) Update(ctx context.Context, userID bson.ObjectID, id string, upd DocumentUpdate) (*models.Document, error) {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	setString(&d.Title, upd.Title)
	setString(&d.Status, upd.Status)
	setString(&d.Description, upd.Description)
	setString(&d.Category, upd.Category)
	setString(&d.Priority, upd.Priority)
	setString(&d.Notes, upd.Notes)
	setBool(&d.IsArchived, upd.IsArchived)
	if upd.DueDate.Set {
		d.DueDate = upd.DueDate.Value
	}
	if upd.Attachments != nil {
		d.Attachments = *upd.Attachments
	}

	now := s.now()
	d.LastModified = now
	if err := invalid(validateDocument(d)); err != nil {
		return nil, err
	}
	d.SyncCompletedDate(now)

	if err := s.st.Documents.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return d, nil
}

func (s *DocumentService) Delete(ctx context.Context, userID bson.ObjectID, id string) error {
	d, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Documents.Delete(ctx, d.ID, userID); err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		return s.st.Users.PullRefs(ctx, userID, models.RefDocuments, d.ID)
	})
}
