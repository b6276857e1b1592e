package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Reference arrays kept on the user document.
const (
	RefShortlist   = "shortlisted_universities"
	RefCollections = "collections"
	RefNotes       = "notes"
	RefDocuments   = "documents"
)

// Education levels.
const (
	EducationHighSchool = "high_school"
	EducationBachelor   = "bachelor"
	EducationMaster     = "master"
	EducationPhD        = "phd"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

const DefaultNationality = "Nepalese"

type User struct {
	ID       bson.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string        `bson:"name" json:"name"`
	Email    string        `bson:"email" json:"email"`
	Password string        `bson:"password" json:"-"`

	ShortlistedUniversities []bson.ObjectID `bson:"shortlisted_universities" json:"shortlistedUniversities"`
	Collections             []bson.ObjectID `bson:"collections" json:"collections"`
	Notes                   []bson.ObjectID `bson:"notes" json:"notes"`
	Documents               []bson.ObjectID `bson:"documents" json:"documents"`

	Profile     Profile     `bson:"profile" json:"profile"`
	Preferences Preferences `bson:"preferences" json:"preferences"`

	IsEmailVerified          bool       `bson:"is_email_verified" json:"isEmailVerified"`
	EmailVerificationCode    string     `bson:"email_verification_code,omitempty" json:"-"`
	EmailVerificationExpires *time.Time `bson:"email_verification_expires,omitempty" json:"-"`

	LastLogin *time.Time `bson:"last_login,omitempty" json:"lastLogin,omitempty"`
	IsActive  bool       `bson:"is_active" json:"isActive"`
	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updatedAt"`
}

type Profile struct {
	Avatar           string     `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio              string     `bson:"bio,omitempty" json:"bio,omitempty"`
	Phone            string     `bson:"phone,omitempty" json:"phone,omitempty"`
	DateOfBirth      *time.Time `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Nationality      string     `bson:"nationality" json:"nationality"`
	CurrentEducation Education  `bson:"current_education" json:"currentEducation"`
	TargetIntake     string     `bson:"target_intake,omitempty" json:"targetIntake,omitempty"`
	TargetMajor      string     `bson:"target_major,omitempty" json:"targetMajor,omitempty"`
}

type Education struct {
	Level          string `bson:"level,omitempty" json:"level,omitempty"`
	Institution    string `bson:"institution,omitempty" json:"institution,omitempty"`
	GraduationYear int    `bson:"graduation_year,omitempty" json:"graduationYear,omitempty"`
}

type Preferences struct {
	Theme         string        `bson:"theme" json:"theme"`
	Notifications Notifications `bson:"notifications" json:"notifications"`
}

type Notifications struct {
	Email             bool `bson:"email" json:"email"`
	DocumentReminders bool `bson:"document_reminders" json:"documentReminders"`
	UniversityUpdates bool `bson:"university_updates" json:"universityUpdates"`
}

// NewUser returns a user with the documented defaults applied.
func NewUser(name, email, passwordHash string) *User {
	return &User{
		Name:                    name,
		Email:                   email,
		Password:                passwordHash,
		ShortlistedUniversities: []bson.ObjectID{},
		Collections:             []bson.ObjectID{},
		Notes:                   []bson.ObjectID{},
		Documents:               []bson.ObjectID{},
		Profile:                 Profile{Nationality: DefaultNationality},
		Preferences: Preferences{
			Theme: ThemeAuto,
			Notifications: Notifications{
				Email:             true,
				DocumentReminders: true,
				UniversityUpdates: true,
			},
		},
		IsActive: true,
	}
}

// VerificationValid reports whether code matches the stored verification
// code and has not expired at now.
func (u *User) VerificationValid(code string, now time.Time) bool {
	if u.EmailVerificationCode == "" || u.EmailVerificationExpires == nil {
		return false
	}
	return u.EmailVerificationCode == code && now.Before(*u.EmailVerificationExpires)
}

// HasShortlisted reports whether the university is already in the shortlist.
func (u *User) HasShortlisted(id bson.ObjectID) bool {
	for _, ref := range u.ShortlistedUniversities {
		if ref == id {
			return true
		}
	}
	return false
}
