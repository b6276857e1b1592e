package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const DefaultCountry = "USA"

type University struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id" yaml:"-"`
	Name           string        `bson:"name" json:"name" yaml:"name"`
	Location       string        `bson:"location" json:"location" yaml:"location"`
	Link           string        `bson:"link" json:"link" yaml:"link"`
	State          string        `bson:"state,omitempty" json:"state,omitempty" yaml:"state"`
	Country        string        `bson:"country" json:"country" yaml:"country"`
	Ranking        int           `bson:"ranking,omitempty" json:"ranking,omitempty" yaml:"ranking"`
	AcceptanceRate float64       `bson:"acceptance_rate,omitempty" json:"acceptanceRate,omitempty" yaml:"acceptance_rate"`
	TuitionFee     float64       `bson:"tuition_fee,omitempty" json:"tuitionFee,omitempty" yaml:"tuition_fee"`
	IsPublic       bool          `bson:"is_public" json:"isPublic" yaml:"is_public"`
	Programs       []string      `bson:"programs" json:"programs" yaml:"programs"`
	Description    string        `bson:"description,omitempty" json:"description,omitempty" yaml:"description"`
	CreatedAt      time.Time     `bson:"created_at" json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time     `bson:"updated_at" json:"updatedAt" yaml:"-"`
}

// UniversityFilter narrows the global catalog. Search matches the name
// case-insensitively.
type UniversityFilter struct {
	Search  string
	State   string
	Country string
	Limit   int64
}

// Bool returns a pointer to b, for optional filter fields.
func Bool(b bool) *bool { return &b }
