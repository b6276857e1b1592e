package service

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/models"
)

// UniversityService exposes the global university catalog.
type UniversityService struct {
	st Stores
}

func NewUniversityService(st Stores) *UniversityService {
	return &UniversityService{st: st}
}

func validateUniversity(u *models.University) error {
	return validation.ValidateStruct(u,
		validation.Field(&u.Name,
			validation.Required.Error("University name is required"),
			validation.RuneLength(0, 100).Error("University name cannot exceed 100 characters")),
		validation.Field(&u.Location, validation.Required.Error("Location is required")),
		validation.Field(&u.Link,
			validation.Required.Error("University link is required"),
			validation.Match(linkPattern).Error("Please provide a valid URL")),
		validation.Field(&u.Ranking, validation.Min(1).Error("Ranking must be at least 1")),
		validation.Field(&u.AcceptanceRate,
			validation.Min(0.0).Error("Acceptance rate must be between 0 and 100"),
			validation.Max(100.0).Error("Acceptance rate must be between 0 and 100")),
		validation.Field(&u.TuitionFee, validation.Min(0.0).Error("Tuition fee cannot be negative")),
		validation.Field(&u.Description,
			validation.RuneLength(0, 500).Error("Description cannot exceed 500 characters")),
	)
}

func (s *UniversityService) List(ctx context.Context, f models.UniversityFilter) ([]models.University, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.st.Universities.List(ctx, f)
}

func (s *UniversityService) Get(ctx context.Context, id string) (*models.University, error) {
	oid, err := parseID(id, "University")
	if err != nil {
		return nil, err
	}
	u, err := s.st.Universities.FindByID(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("find university: %w", err)
	}
	if u == nil {
		return nil, apperr.NotFound("University not found")
	}
	return u, nil
}

// Seed validates and upserts catalog entries by name. It stops at the first
// invalid entry and reports how many were written before it.
func (s *UniversityService) Seed(ctx context.Context, list []models.University) (int, error) {
	for i := range list {
		u := &list[i]
		u.Name = strings.TrimSpace(u.Name)
		u.Country = orDefault(u.Country, models.DefaultCountry)
		if u.Programs == nil {
			u.Programs = []string{}
		}
		if err := invalid(validateUniversity(u)); err != nil {
			return i, fmt.Errorf("university %d (%q): %w", i+1, u.Name, err)
		}
		if err := s.st.Universities.Upsert(ctx, u); err != nil {
			return i, fmt.Errorf("upsert %q: %w", u.Name, err)
		}
	}
	return len(list), nil
}
