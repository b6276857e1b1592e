package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

const recentLimit = 5

type DashboardCounts struct {
	ShortlistedUniversities int   `json:"shortlistedUniversities"`
	Collections             int64 `json:"collections"`
	Notes                   int64 `json:"notes"`
	Documents               int64 `json:"documents"`
	PendingDocuments        int64 `json:"pendingDocuments"`
	CompletedDocuments      int64 `json:"completedDocuments"`
}

type RecentActivity struct {
	Notes       []models.Note       `json:"notes"`
	Documents   []models.Document   `json:"documents"`
	Collections []models.Collection `json:"collections"`
}

type Dashboard struct {
	Counts         DashboardCounts `json:"counts"`
	RecentActivity RecentActivity  `json:"recentActivity"`
}

type DashboardService struct {
	st Stores
}

func NewDashboardService(st Stores) *DashboardService {
	return &DashboardService{st: st}
}

// Build gathers counts and recent activity concurrently. The first failing
// query cancels the others and fails the whole dashboard.
func (s *DashboardService) Build(ctx context.Context, userID bson.ObjectID) (*Dashboard, error) {
	var d Dashboard
	active := models.Bool(false)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		user, err := s.st.Users.FindByID(gctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return apperr.NotFound("User not found")
		}
		d.Counts.ShortlistedUniversities = len(user.ShortlistedUniversities)
		return nil
	})
	g.Go(func() (err error) {
		d.Counts.Collections, err = s.st.Collections.Count(gctx, models.CollectionFilter{User: userID, Archived: active})
		return err
	})
	g.Go(func() (err error) {
		d.Counts.Notes, err = s.st.Notes.Count(gctx, models.NoteFilter{User: userID, Archived: active})
		return err
	})
	g.Go(func() (err error) {
		d.Counts.Documents, err = s.st.Documents.Count(gctx, models.DocumentFilter{User: userID, Archived: active})
		return err
	})
	g.Go(func() (err error) {
		d.Counts.PendingDocuments, err = s.st.Documents.Count(gctx, models.DocumentFilter{
			User: userID, Archived: active, Status: models.StatusPending,
		})
		return err
	})
	g.Go(func() (err error) {
		d.Counts.CompletedDocuments, err = s.st.Documents.Count(gctx, models.DocumentFilter{
			User: userID, Archived: active, Status: models.StatusCompleted,
		})
		return err
	})
	g.Go(func() (err error) {
		d.RecentActivity.Notes, err = s.st.Notes.List(gctx, models.NoteFilter{
			User: userID, Archived: active, Recent: true, Limit: recentLimit, WithCollection: true,
		})
		return err
	})
	g.Go(func() (err error) {
		d.RecentActivity.Documents, err = s.st.Documents.List(gctx, models.DocumentFilter{
			User: userID, Archived: active, Recent: true, Limit: recentLimit,
		})
		return err
	})
	g.Go(func() (err error) {
		d.RecentActivity.Collections, err = s.st.Collections.List(gctx, models.CollectionFilter{
			User: userID, Archived: active, Limit: recentLimit,
		})
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build dashboard: %w", err)
	}
	return &d, nil
}
