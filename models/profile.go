package models

import "time"

const (
	StylingVeiled   = "veiled"
	StylingUnveiled = "unveiled"
)

// Profile is keyed by the owning user id: exactly one document per user.
type Profile struct {
	ID                string    `bson:"_id,omitempty" json:"id"`
	UserID            string    `bson:"userId" json:"userId"`
	DisplayName       string    `bson:"displayName" json:"displayName"`
	StylingPreference string    `bson:"stylingPreference,omitempty" json:"stylingPreference,omitempty"`
	Occupation        string    `bson:"occupation,omitempty" json:"occupation,omitempty"`
	Location          string    `bson:"location,omitempty" json:"location,omitempty"`
	FavoriteBrands    []string  `bson:"favoriteBrands,omitempty" json:"favoriteBrands,omitempty"`
	CreatedAt         time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// IsVeiled reports whether outfit suggestions must be restricted to modest garments.
func (p *Profile) IsVeiled() bool {
	return p != nil && p.StylingPreference == StylingVeiled
}
