package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/errgroup"

	"beyondnp-backend/internal/apperr"
	"beyondnp-backend/internal/auth"
	"beyondnp-backend/internal/models"
)

// ProfileView is a user with its reference arrays resolved.
type ProfileView struct {
	*models.User
	ShortlistedUniversities []models.University `json:"shortlistedUniversities"`
	Collections             []models.Collection `json:"collections"`
	Notes                   []models.Note       `json:"notes"`
	Documents               []models.Document   `json:"documents"`
}

// ProfileUpdate is a partial update. Nil fields are left untouched, so empty
// strings and false are valid values to store.
type ProfileUpdate struct {
	Name        *string           `json:"name"`
	Email       *string           `json:"email"`
	Profile     *ProfilePatch     `json:"profile"`
	Preferences *PreferencesPatch `json:"preferences"`
}

type ProfilePatch struct {
	Avatar           *string         `json:"avatar"`
	Bio              *string         `json:"bio"`
	Phone            *string         `json:"phone"`
	DateOfBirth      *time.Time      `json:"dateOfBirth"`
	Nationality      *string         `json:"nationality"`
	CurrentEducation *EducationPatch `json:"currentEducation"`
	TargetIntake     *string         `json:"targetIntake"`
	TargetMajor      *string         `json:"targetMajor"`
}

type EducationPatch struct {
	Level          *string `json:"level"`
	Institution    *string `json:"institution"`
	GraduationYear *int    `json:"graduationYear"`
}

type PreferencesPatch struct {
	Theme         *string             `json:"theme"`
	Notifications *NotificationsPatch `json:"notifications"`
}

type NotificationsPatch struct {
	Email             *bool `json:"email"`
	DocumentReminders *bool `json:"documentReminders"`
	UniversityUpdates *bool `json:"universityUpdates"`
}

func (s *UserService) loadUser(ctx context.Context, id bson.ObjectID) (*models.User, error) {
	user, err := s.st.Users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// Profile returns the user with shortlist, collections, notes and documents
// resolved.
func (s *UserService) Profile(ctx context.Context, userID bson.ObjectID) (*ProfileView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{User: user}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.ShortlistedUniversities, err = s.st.Universities.FindByIDs(gctx, user.ShortlistedUniversities)
		return err
	})
	g.Go(func() (err error) {
		view.Collections, err = s.st.Collections.List(gctx, models.CollectionFilter{User: userID})
		return err
	})
	g.Go(func() (err error) {
		view.Notes, err = s.st.Notes.List(gctx, models.NoteFilter{User: userID})
		return err
	})
	g.Go(func() (err error) {
		view.Documents, err = s.st.Documents.List(gctx, models.DocumentFilter{User: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve profile: %w", err)
	}
	return view, nil
}

// UpdateProfile merges the present fields of upd into the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, userID bson.ObjectID, upd ProfileUpdate) (*models.User, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			other, err := s.st.Users.FindByEmail(ctx, email)
			if err != nil {
				return nil, fmt.Errorf("find user: %w", err)
			}
			if other != nil {
				return nil, apperr.Conflict("User already exists")
			}
		}
		user.Email = email
	}
	if p := upd.Profile; p != nil {
		applyProfile(&user.Profile, p)
	}
	if p := upd.Preferences; p != nil {
		if p.Theme != nil {
			user.Preferences.Theme = *p.Theme
		}
		if n := p.Notifications; n != nil {
			setBool(&user.Preferences.Notifications.Email, n.Email)
			setBool(&user.Preferences.Notifications.DocumentReminders, n.DocumentReminders)
			setBool(&user.Preferences.Notifications.UniversityUpdates, n.UniversityUpdates)
		}
	}

	if err := invalid(validateUser(user)); err != nil {
		return nil, err
	}
	if err := s.st.Users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func applyProfile(dst *models.Profile, p *ProfilePatch) {
	setString(&dst.Avatar, p.Avatar)
	setString(&dst.Bio, p.Bio)
	setString(&dst.Phone, p.Phone)
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		dst.DateOfBirth = &dob
	}
	setString(&dst.Nationality, p.Nationality)
	setString(&dst.TargetIntake, p.TargetIntake)
	setString(&dst.TargetMajor, p.TargetMajor)
	if e := p.CurrentEducation; e != nil {
		setString(&dst.CurrentEducation.Level, e.Level)
		setString(&dst.CurrentEducation.Institution, e.Institution)
		if e.GraduationYear != nil {
			dst.CurrentEducation.GraduationYear = *e.GraduationYear
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func validateUser(u *models.User) error {
	if err := validation.ValidateStruct(u,
		validation.Field(&u.Name,
			validation.Required.Error("Name is required"),
			validation.RuneLength(2, 50).Error("Name must be between 2 and 50 characters")),
		validation.Field(&u.Email,
			validation.Required.Error("Email is required"),
			validation.Match(emailPattern).Error("Please provide a valid email address")),
	); err != nil {
		return err
	}
	p := &u.Profile
	if err := validation.ValidateStruct(p,
		validation.Field(&p.Bio, validation.RuneLength(0, 200).Error("Bio cannot exceed 200 characters")),
		validation.Field(&p.Phone, validation.Match(phonePattern).Error("Please provide a valid phone number")),
	); err != nil {
		return err
	}
	e := &p.CurrentEducation
	if err := validation.ValidateStruct(e,
		validation.Field(&e.Level, validation.In(
			models.EducationHighSchool, models.EducationBachelor, models.EducationMaster, models.EducationPhD,
		).Error("Education level must be one of high_school, bachelor, master, phd")),
	); err != nil {
		return err
	}
	pr := &u.Preferences
	return validation.ValidateStruct(pr,
		validation.Field(&pr.Theme, validation.Required.Error("Theme must be light, dark or auto"),
			validation.In(models.ThemeLight, models.ThemeDark, models.ThemeAuto).Error("Theme must be light, dark or auto")),
	)
}

// ChangePassword replaces the password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID bson.ObjectID, current, next string) error {
	if current == "" || next == "" {
		return apperr.Validation("Current and new password are required")
	}
	if len([]rune(next)) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	if err := passwordFits(next); err != nil {
		return apperr.Validation(err.Error())
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperr.Validation("Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.st.Users.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// DeleteAccount removes the user together with every collection, note and
// document they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID bson.ObjectID) error {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return err
	}
	return s.st.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.st.Notes.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}
		if err := s.st.Collections.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete collections: %w", err)
		}
		if err := s.st.Documents.DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("delete documents: %w", err)
		}
		if err := s.st.Users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
}

// Shortlist returns the user's shortlisted universities.
func (s *UserService) Shortlist(ctx context.Context, userID bson.ObjectID) ([]models.University, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.st.Universities.FindByIDs(ctx, user.ShortlistedUniversities)
}

// AddToShortlist adds a catalog university to the user's shortlist and
// returns it.
func (s *UserService) AddToShortlist(ctx context.Context, userID bson.ObjectID, universityID string) (*models.University, error) {
	id, err := parseID(universityID, "University")
	if err != nil {
		return nil, err
	}
	uni, err := s.st.Universities.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find university: %w", err)
	}
	if uni == nil {
		return nil, apperr.NotFound("University not found")
	}

	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.HasShortlisted(id) {
		return nil, apperr.Validation("University already in shortlist")
	}
	if err := s.st.Users.AddRef(ctx, userID, models.RefShortlist, id); err != nil {
		return nil, fmt.Errorf("add to shortlist: %w", err)
	}
	return uni, nil
}

// RemoveFromShortlist drops a university from the shortlist. Removing an
// entry that is not present succeeds.
func (s *UserService) RemoveFromShortlist(ctx context.Context, userID bson.ObjectID, universityID string) error {
	id, err := parseID(universityID, "University")
	if err != nil {
		return err
	}
	return s.st.Users.PullRefs(ctx, userID, models.RefShortlist, id)
}
