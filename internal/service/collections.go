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

const (
	collectionNotFound  = "Collection not found"
	collectionNameTaken = "Collection with this name already exists"
)

type CollectionService struct {
	st  Stores
	now func() time.Time
}

func NewCollectionService(st Stores) *CollectionService {
	return &CollectionService{st: st, now: time.Now}
}

type CollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	IsArchived  bool   `json:"isArchived"`
}

type CollectionUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	IsArchived  *bool   `json:"isArchived"`
}

// CollectionDetail is a collection with its active notes.
type CollectionDetail struct {
	Collection *models.Collection `json:"collection"`
	Notes      []models.Note      `json:"notes"`
}

func validateCollection(c *models.Collection) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name,
			validation.Required.Error("Collection name is required"),
			validation.RuneLength(0, 50).Error("Collection name cannot exceed 50 characters")),
		validation.Field(&c.Description,
			validation.RuneLength(0, 200).Error("Description cannot exceed 200 characters")),
	)
}

// List returns the user's active or archived collections, most recently
// modified first.
func (s *CollectionService) List(ctx context.Context, userID bson.ObjectID, archived bool) ([]models.Collection, error) {
	return s.st.Collections.List(ctx, models.CollectionFilter{User: userID, Archived: models.Bool(archived)})
}

func (s *CollectionService) owned(ctx context.Context, userID bson.ObjectID, id string) (*models.Collection, error) {
	oid, err := parseID(id, "Collection")
	if err != nil {
		return nil, err
	}
	c, err := s.st.Collections.FindOwned(ctx, oid, userID)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	if c == nil {
		return nil, apperr.NotFound(collectionNotFound)
	}
	return c, nil
}

// Get returns the collection together with its non-archived notes.
func (s *CollectionService) Get(ctx context.Context, userID bson.ObjectID, id string) (*CollectionDetail, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	notes, err := s.st.Notes.List(ctx, models.NoteFilter{
		User:       userID,
		Collection: &c.ID,
		Archived:   models.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return &CollectionDetail{Collection: c, Notes: notes}, nil
}

func (s *CollectionService) Create(ctx context.Context, userID bson.ObjectID, in CollectionInput) (*models.Collection, error) {
	c := &models.Collection{
		User:         userID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Color:        orDefault(in.Color, models.DefaultColor),
		Icon:         orDefault(in.Icon, models.DefaultIcon),
		IsArchived:   in.IsArchived,
		LastModified: s.now(),
	}
	if err := invalid(validateCollection(c)); err != nil {
		return nil, err
	}

	existing, err := s.st.Collections.FindByName(ctx, userID, c.Name)
	if err != nil {
		return nil, fmt.Errorf("find collection: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict(collectionNameTaken)
	}

	err = s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Collections.Create(ctx, c); err != nil {
			return err
		}
		return s.st.Users.AddRef(ctx, userID, models.RefCollections, c.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return c, nil
}

// Update applies the present fields of upd. A rename is checked against the
// owner's other collections.
func (s *CollectionService) Update(ctx context.Context, userID bson.ObjectID, id string, upd CollectionUpdate) (*models.Collection, error) {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name != c.Name {
			other, err := s.st.Collections.FindByName(ctx, userID, name)
			if err != nil {
				return nil, fmt.Errorf("find collection: %w", err)
			}
			if other != nil && other.ID != c.ID {
				return nil, apperr.Conflict(collectionNameTaken)
			}
		}
		c.Name = name
	}
	setString(&c.Description, upd.Description)
	setString(&c.Color, upd.Color)
	setString(&c.Icon, upd.Icon)
	setBool(&c.IsArchived, upd.IsArchived)
	c.LastModified = s.now()

	if err := invalid(validateCollection(c)); err != nil {
		return nil, err
	}
	if err := s.st.Collections.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return c, nil
}

// Delete removes the collection and every note filed under it.
func (s *CollectionService) Delete(ctx context.Context, userID bson.ObjectID, id string) error {
	c, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}

	notes, err := s.st.Notes.List(ctx, models.NoteFilter{User: userID, Collection: &c.ID})
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	noteIDs := make([]bson.ObjectID, 0, len(notes))
	for _, n := range notes {
		noteIDs = append(noteIDs, n.ID)
	}

	return s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.st.Notes.DeleteByCollection(ctx, userID, c.ID); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if err := s.st.Collections.Delete(ctx, c.ID, userID); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		if err := s.st.Users.PullRefs(ctx, userID, models.RefNotes, noteIDs...); err != nil {
			return err
		}
		return s.st.Users.PullRefs(ctx, userID, models.RefCollections, c.ID)
	})
}
