package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

const noteNotFound = "Note not found"

type NoteService struct {
	st  Stores
	now func() time.Time
}

func NewNoteService(st Stores) *NoteService {
	return &NoteService{st: st, now: time.Now}
}

type NoteInput struct {
	Title        string              `json:"title"`
	Content      string              `json:"content"`
	CollectionID string              `json:"collectionId"`
	Tags         []string            `json:"tags"`
	Color        string              `json:"color"`
	IsPinned     bool                `json:"isPinned"`
	IsArchived   bool                `json:"isArchived"`
	Attachments  []models.Attachment `json:"attachments"`
}

type NoteUpdate struct {
	Title        *string              `json:"title"`
	Content      *string              `json:"content"`
	CollectionID *string              `json:"collectionId"`
	Tags         *[]string            `json:"tags"`
	Color        *string              `json:"color"`
	IsPinned     *bool                `json:"isPinned"`
	IsArchived   *bool                `json:"isArchived"`
	Attachments  *[]models.Attachment `json:"attachments"`
}

func validateNote(n *models.Note) error {
	return validation.ValidateStruct(n,
		validation.Field(&n.Title,
			validation.Required.Error("Note title is required"),
			validation.RuneLength(0, 100).Error("Title cannot exceed 100 characters")),
	)
}

// List returns the user's active notes, pinned first. A non-empty
// collectionID narrows the result to that collection.
func (s *NoteService) List(ctx context.Context, userID bson.ObjectID, collectionID string) ([]models.Note, error) {
	f := models.NoteFilter{User: userID, Archived: models.Bool(false), WithCollection: true}
	if collectionID != "" {
		cid, err := bson.ObjectIDFromHex(collectionID)
		if err != nil {
			return nil, apperr.Validation("Invalid collectionId")
		}
		f.Collection = &cid
	}
	return s.st.Notes.List(ctx, f)
}

func (s *NoteService) Archived(ctx context.Context, userID bson.ObjectID) ([]models.Note, error) {
	return s.st.Notes.List(ctx, models.NoteFilter{User: userID, Archived: models.Bool(true), WithCollection: true})
}

// Search matches query against title, content and tags of active notes,
// ignoring case.
func (s *NoteService) Search(ctx context.Context, userID bson.ObjectID, query string) ([]models.Note, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("Please provide a search query")
	}
	return s.st.Notes.List(ctx, models.NoteFilter{
		User:           userID,
		Archived:       models.Bool(false),
		Search:         query,
		WithCollection: true,
	})
}

func (s *NoteService) owned(ctx context.Context, userID bson.ObjectID, id string) (*models.Note, error) {
	oid, err := parseID(id, "Note")
	if err != nil {
		return nil, err
	}
	n, err := s.st.Notes.FindOwned(ctx, oid, userID)
	if err != nil {
		return nil, fmt.Errorf("find note: %w", err)
	}
	if n == nil {
		return nil, apperr.NotFound(noteNotFound)
	}
	return n, nil
}

// Get returns the note with its parent collection summary.
func (s *NoteService) Get(ctx context.Context, userID bson.ObjectID, id string) (*models.Note, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	c, err := s.st.Collections.FindOwned(ctx, n.ParentCollection, userID)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	if c != nil {
		n.Collection = c.Summary()
	}
	return n, nil
}

func (s *NoteService) ownedCollection(ctx context.Context, userID bson.ObjectID, id, msg string) (*models.Collection, error) {
	cid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound(msg)
	}
	c, err := s.st.Collections.FindOwned(ctx, cid, userID)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound(msg)
	}
	return c, nil
}

// Create files a note under one of the user's collections and bumps that
// collection's note count.
func (s *NoteService) Create(ctx context.Context, userID bson.ObjectID, in NoteInput) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || in.CollectionID == "" {
		return nil, apperr.Validation("Please provide title, content and collection")
	}
	c, err := s.ownedCollection(ctx, userID, in.CollectionID, collectionNotFound)
	if err != nil {
		return nil, err
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	n := &models.Note{
		User:             userID,
		ParentCollection: c.ID,
		Title:            strings.TrimSpace(in.Title),
		Content:          strings.TrimSpace(in.Content),
		Tags:             tags,
		Color:            orDefault(in.Color, models.DefaultColor),
		IsPinned:         in.IsPinned,
		IsArchived:       in.IsArchived,
		Attachments:      in.Attachments,
		LastModified:     s.now(),
	}
	if n.Attachments == nil {
		n.Attachments = []models.Attachment{}
	}
	if err := invalid(validateNote(n)); err != nil {
		return nil, err
	}

	err = s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Notes.Create(ctx, n); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		if err := s.st.Collections.IncNotes(ctx, c.ID, 1); err != nil {
			return fmt.Errorf("count note: %w", err)
		}
		return s.st.Users.AddRef(ctx, userID, models.RefNotes, n.ID)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Update applies the present fields of upd. A changed collectionId moves the
// note and shifts one unit of note count from the old parent to the new one.
// An empty collectionId leaves the note where it is.
func (s *NoteService) Update(ctx context.Context, userID bson.ObjectID, id string, upd NoteUpdate) (*models.Note, error) {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	from := n.ParentCollection
	if upd.CollectionID != nil && *upd.CollectionID != "" && *upd.CollectionID != from.Hex() {
		target, err := s.ownedCollection(ctx, userID, *upd.CollectionID, "Target collection not found")
		if err != nil {
			return nil, err
		}
		n.ParentCollection = target.ID
	}

	setString(&n.Title, upd.Title)
	setString(&n.Content, upd.Content)
	setString(&n.Color, upd.Color)
	setBool(&n.IsPinned, upd.IsPinned)
	setBool(&n.IsArchived, upd.IsArchived)
	if upd.Tags != nil {
		tags, err := normalizeTags(*upd.Tags)
		if err != nil {
			return nil, err
		}
		n.Tags = tags
	}
	if upd.Attachments != nil {
		n.Attachments = *upd.Attachments
	}
	n.LastModified = s.now()

	if err := invalid(validateNote(n)); err != nil {
		return nil, err
	}

	moved := n.ParentCollection != from
	err = s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if moved {
			if err := s.st.Collections.IncNotes(ctx, from, -1); err != nil {
				return fmt.Errorf("uncount note: %w", err)
			}
			if err := s.st.Collections.IncNotes(ctx, n.ParentCollection, 1); err != nil {
				return fmt.Errorf("count note: %w", err)
			}
		}
		if err := s.st.Notes.Update(ctx, n); err != nil {
			return fmt.Errorf("update note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes the note and decrements its collection's note count.
func (s *NoteService) Delete(ctx context.Context, userID bson.ObjectID, id string) error {
	n, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Collections.IncNotes(ctx, n.ParentCollection, -1); err != nil {
			return fmt.Errorf("uncount note: %w", err)
		}
		if err := s.st.Notes.Delete(ctx, n.ID, userID); err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		return s.st.Users.PullRefs(ctx, userID, models.RefNotes, n.ID)
	})
}
