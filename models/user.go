package models

import (
	"time"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User represents a registered account. Profile data lives in Profile.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password,omitempty" json:"-"` // bcrypt hash, never returned
	Provider  string    `bson:"provider" json:"provider"`
	Picture   string    `bson:"picture,omitempty" json:"picture,omitempty"`
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}
