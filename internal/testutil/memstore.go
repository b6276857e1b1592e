// Package testutil provides in-memory stores that mirror the MongoDB
// repositories' ordering and ownership rules for service and handler tests.
package testutil

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

// Memory holds every entity in maps guarded by one mutex.
type Memory struct {
	mu           sync.Mutex
	users        map[bson.ObjectID]models.User
	collections  map[bson.ObjectID]models.Collection
	notes        map[bson.ObjectID]models.Note
	documents    map[bson.ObjectID]models.Document
	universities map[bson.ObjectID]models.University
}

func NewMemory() *Memory {
	return &Memory{
		users:        map[bson.ObjectID]models.User{},
		collections:  map[bson.ObjectID]models.Collection{},
		notes:        map[bson.ObjectID]models.Note{},
		documents:    map[bson.ObjectID]models.Document{},
		universities: map[bson.ObjectID]models.University{},
	}
}

// Store views over m. Each satisfies the matching service store interface.
func (m *Memory) Users() *Users               { return (*Users)(m) }
func (m *Memory) Collections() *Collections   { return (*Collections)(m) }
func (m *Memory) Notes() *Notes               { return (*Notes)(m) }
func (m *Memory) Documents() *Documents       { return (*Documents)(m) }
func (m *Memory) Universities() *Universities { return (*Universities)(m) }

func matchArchived(archived *bool, v bool) bool {
	return archived == nil || *archived == v
}

func limit[T any](in []T, n int64) []T {
	if n > 0 && int64(len(in)) > n {
		return in[:n]
	}
	return in
}

type Users Memory

func cloneUser(u models.User) *models.User {
	u.ShortlistedUniversities = slices.Clone(u.ShortlistedUniversities)
	u.Collections = slices.Clone(u.Collections)
	u.Notes = slices.Clone(u.Notes)
	u.Documents = slices.Clone(u.Documents)
	return &u
}

func (s *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Users) FindByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (s *Users) emailTaken(email string, except bson.ObjectID) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Users) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTaken(user.Email, bson.NilObjectID) {
		return apperr.Conflict("User already exists")
	}
	now := time.Now()
	user.ID = bson.NewObjectID()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *cloneUser(*user)
	return nil
}

func (s *Users) Update(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.users[user.ID]
	if !ok {
		return nil
	}
	if s.emailTaken(user.Email, user.ID) {
		return apperr.Conflict("User already exists")
	}
	next := *cloneUser(*user)
	next.ShortlistedUniversities = stored.ShortlistedUniversities
	next.Collections = stored.Collections
	next.Notes = stored.Notes
	next.Documents = stored.Documents
	next.UpdatedAt = time.Now()
	s.users[user.ID] = next
	return nil
}

func (s *Users) MarkVerified(_ context.Context, id bson.ObjectID, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsEmailVerified || u.EmailVerificationCode != code {
		return false, nil
	}
	u.IsEmailVerified = true
	u.EmailVerificationCode = ""
	u.EmailVerificationExpires = nil
	u.UpdatedAt = time.Now()
	s.users[id] = u
	return true, nil
}

func refField(u *models.User, field string) *[]bson.ObjectID {
	switch field {
	case models.RefShortlist:
		return &u.ShortlistedUniversities
	case models.RefCollections:
		return &u.Collections
	case models.RefNotes:
		return &u.Notes
	case models.RefDocuments:
		return &u.Documents
	}
	panic("unknown reference field " + field)
}

func (s *Users) AddRef(_ context.Context, userID bson.ObjectID, field string, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	refs := refField(&u, field)
	if !slices.Contains(*refs, id) {
		*refs = append(slices.Clone(*refs), id)
	}
	s.users[userID] = u
	return nil
}

func (s *Users) PullRefs(_ context.Context, userID bson.ObjectID, field string, ids ...bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil
	}
	refs := refField(&u, field)
	*refs = slices.DeleteFunc(slices.Clone(*refs), func(r bson.ObjectID) bool {
		return slices.Contains(ids, r)
	})
	s.users[userID] = u
	return nil
}

func (s *Users) Delete(_ context.Context, id bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

type Collections Memory

func (s *Collections) filter(f models.CollectionFilter) []models.Collection {
	out := []models.Collection{}
	for _, c := range s.collections {
		if c.User == f.User && matchArchived(f.Archived, c.IsArchived) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out
}

func (s *Collections) List(_ context.Context, f models.CollectionFilter) ([]models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limit(s.filter(f), f.Limit), nil
}

func (s *Collections) Count(_ context.Context, f models.CollectionFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filter(f))), nil
}

func (s *Collections) FindOwned(_ context.Context, id, user bson.ObjectID) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok || c.User != user {
		return nil, nil
	}
	return &c, nil
}

func (s *Collections) FindByName(_ context.Context, user bson.ObjectID, name string) (*models.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.collections {
		if c.User == user && c.Name == name {
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Collections) nameTaken(c *models.Collection) bool {
	for id, other := range s.collections {
		if id != c.ID && other.User == c.User && other.Name == c.Name {
			return true
		}
	}
	return false
}

func (s *Collections) Create(_ context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c) {
		return apperr.Conflict("Collection with this name already exists")
	}
	now := time.Now()
	c.ID = bson.NewObjectID()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.LastModified.IsZero() {
		c.LastModified = now
	}
	s.collections[c.ID] = *c
	return nil
}

func (s *Collections) Update(_ context.Context, c *models.Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.collections[c.ID]
	if !ok || stored.User != c.User {
		return nil
	}
	if s.nameTaken(c) {
		return apperr.Conflict("Collection with this name already exists")
	}
	next := *c
	next.NotesCount = stored.NotesCount
	next.UpdatedAt = time.Now()
	s.collections[c.ID] = next
	return nil
}

func (s *Collections) IncNotes(_ context.Context, id bson.ObjectID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[id]
	if !ok {
		return nil
	}
	c.NotesCount += delta
	c.LastModified = time.Now()
	s.collections[id] = c
	return nil
}

func (s *Collections) Delete(_ context.Context, id, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[id]; ok && c.User == user {
		delete(s.collections, id)
	}
	return nil
}

func (s *Collections) DeleteByUser(_ context.Context, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.collections {
		if c.User == user {
			delete(s.collections, id)
		}
	}
	return nil
}

type Notes Memory

func noteMatches(n models.Note, f models.NoteFilter) bool {
	if n.User != f.User || !matchArchived(f.Archived, n.IsArchived) {
		return false
	}
	if f.Collection != nil && n.ParentCollection != *f.Collection {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

func (s *Notes) filter(f models.NoteFilter) []models.Note {
	out := []models.Note{}
	for _, n := range s.notes {
		if noteMatches(n, f) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !f.Recent && out[i].IsPinned != out[j].IsPinned {
			return out[i].IsPinned
		}
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out
}

func (s *Notes) List(_ context.Context, f models.NoteFilter) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := limit(s.filter(f), f.Limit)
	if f.WithCollection {
		for i := range out {
			if c, ok := s.collections[out[i].ParentCollection]; ok {
				out[i].Collection = c.Summary()
			}
		}
	}
	return out, nil
}

func (s *Notes) Count(_ context.Context, f models.NoteFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filter(f))), nil
}

func (s *Notes) FindOwned(_ context.Context, id, user bson.ObjectID) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.User != user {
		return nil, nil
	}
	n.Tags = slices.Clone(n.Tags)
	return &n, nil
}

func (s *Notes) Create(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	n.ID = bson.NewObjectID()
	n.CreatedAt, n.UpdatedAt = now, now
	if n.LastModified.IsZero() {
		n.LastModified = now
	}
	s.notes[n.ID] = *n
	return nil
}

func (s *Notes) Update(_ context.Context, n *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.notes[n.ID]; ok && stored.User == n.User {
		n.UpdatedAt = time.Now()
		s.notes[n.ID] = *n
	}
	return nil
}

func (s *Notes) Delete(_ context.Context, id, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n, ok := s.notes[id]; ok && n.User == user {
		delete(s.notes, id)
	}
	return nil
}

func (s *Notes) DeleteByCollection(_ context.Context, user, collection bson.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, note := range s.notes {
		if note.User == user && note.ParentCollection == collection {
			delete(s.notes, id)
			n++
		}
	}
	return n, nil
}

func (s *Notes) DeleteByUser(_ context.Context, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, note := range s.notes {
		if note.User == user {
			delete(s.notes, id)
		}
	}
	return nil
}

type Documents Memory

func (s *Documents) filter(f models.DocumentFilter) []models.Document {
	out := []models.Document{}
	for _, d := range s.documents {
		if d.User != f.User || !matchArchived(f.Archived, d.IsArchived) {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Category != "" && d.Category != f.Category {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if f.Recent {
			return a.LastModified.After(b.LastModified)
		}
		switch {
		case a.DueDate == nil && b.DueDate != nil:
			return true
		case a.DueDate != nil && b.DueDate == nil:
			return false
		case a.DueDate != nil && b.DueDate != nil && !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

func (s *Documents) List(_ context.Context, f models.DocumentFilter) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return limit(s.filter(f), f.Limit), nil
}

func (s *Documents) Count(_ context.Context, f models.DocumentFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filter(f))), nil
}

func (s *Documents) FindOwned(_ context.Context, id, user bson.ObjectID) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok || d.User != user {
		return nil, nil
	}
	return &d, nil
}

func (s *Documents) Create(_ context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	d.ID = bson.NewObjectID()
	d.CreatedAt, d.UpdatedAt = now, now
	if d.LastModified.IsZero() {
		d.LastModified = now
	}
	s.documents[d.ID] = *d
	return nil
}

func (s *Documents) Update(_ context.Context, d *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.documents[d.ID]; ok && stored.User == d.User {
		d.UpdatedAt = time.Now()
		s.documents[d.ID] = *d
	}
	return nil
}

func (s *Documents) Delete(_ context.Context, id, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.documents[id]; ok && d.User == user {
		delete(s.documents, id)
	}
	return nil
}

func (s *Documents) DeleteByUser(_ context.Context, user bson.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, d := range s.documents {
		if d.User == user {
			delete(s.documents, id)
		}
	}
	return nil
}

type Universities Memory

func (s *Universities) List(_ context.Context, f models.UniversityFilter) ([]models.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.University{}
	q := strings.ToLower(f.Search)
	for _, u := range s.universities {
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) {
			continue
		}
		if f.State != "" && u.State != f.State {
			continue
		}
		if f.Country != "" && u.Country != f.Country {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return limit(out, f.Limit), nil
}

func (s *Universities) FindByID(_ context.Context, id bson.ObjectID) (*models.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.universities[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Universities) FindByIDs(_ context.Context, ids []bson.ObjectID) ([]models.University, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.University{}
	for _, id := range ids {
		if u, ok := s.universities[id]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Universities) Upsert(_ context.Context, u *models.University) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, existing := range s.universities {
		if existing.Name == u.Name {
			u.ID = id
			u.CreatedAt = existing.CreatedAt
			u.UpdatedAt = now
			s.universities[id] = *u
			return nil
		}
	}
	u.ID = bson.NewObjectID()
	u.CreatedAt, u.UpdatedAt = now, now
	s.universities[u.ID] = *u
	return nil
}
