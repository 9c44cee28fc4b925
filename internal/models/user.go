package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Address struct {
	Formatted   string `bson:"formatted,omitempty" json:"formatted,omitempty"`
	Sublocality string `bson:"sublocality,omitempty" json:"sublocality,omitempty"`
	City        string `bson:"city,omitempty" json:"city,omitempty"`
}

type User struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	FirstName      string        `bson:"firstname" json:"firstname"`
	LastName       string        `bson:"lastname" json:"lastname"`
	Email          string        `bson:"email" json:"email"`
	NeighborhoodID bson.ObjectID `bson:"neighborhood_id" json:"neighborhoodId"`
	Address        Address       `bson:"address,omitempty" json:"address,omitempty"`
	CreatedAt      time.Time     `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt      time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// HasVerifiedAddress reports whether geocoding resolved the user down to a sublocality.
func (u *User) HasVerifiedAddress() bool {
	return u != nil && u.Address.Sublocality != ""
}

// AccountAgeDays is the fractional age of the account at now.
func (u *User) AccountAgeDays(now time.Time) float64 {
	if u == nil || u.CreatedAt.IsZero() {
		return 0
	}
	return now.Sub(u.CreatedAt).Hours() / 24
}
