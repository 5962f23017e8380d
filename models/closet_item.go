package models

import "time"

const (
	CategoryTops        = "tops"
	CategoryBottoms     = "bottoms"
	CategoryDresses     = "dresses"
	CategoryOuterwear   = "outerwear"
	CategoryShoes       = "shoes"
	CategoryAccessories = "accessories"
	CategoryBags        = "bags"
)

// Categories lists every valid closet category.
var Categories = []string{
	CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear,
	CategoryShoes, CategoryAccessories, CategoryBags,
}

// IsCategory reports whether c is one of Categories.
func IsCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// IsGarment reports whether items of the category cover the body and are
// therefore subject to modest-coverage filtering.
func IsGarment(c string) bool {
	switch c {
	case CategoryTops, CategoryBottoms, CategoryDresses, CategoryOuterwear:
		return true
	}
	return false
}

// ClosetItem is a single digitized clothing or accessory record owned by a user.
type ClosetItem struct {
	ID                string     `bson:"_id,omitempty" json:"id"`
	UserID            string     `bson:"userId" json:"userId"`
	Name              string     `bson:"name" json:"name"`
	Category          string     `bson:"category" json:"category"`
	Color             string     `bson:"color,omitempty" json:"color,omitempty"`
	Colors            []string   `bson:"colors,omitempty" json:"colors,omitempty"`
	Pattern           string     `bson:"pattern,omitempty" json:"pattern,omitempty"`
	Brand             string     `bson:"brand,omitempty" json:"brand,omitempty"`
	Style             string     `bson:"style,omitempty" json:"style,omitempty"`
	Seasons           []string   `bson:"seasons,omitempty" json:"seasons,omitempty"`
	Tags              []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	AITags            []string   `bson:"aiTags,omitempty" json:"aiTags,omitempty"`
	SuitableOccasions []string   `bson:"suitableOccasions,omitempty" json:"suitableOccasions,omitempty"`
	FormalityLevel    int        `bson:"formalityLevel,omitempty" json:"formalityLevel,omitempty"`
	ModestCoverage    bool       `bson:"modestCoverage" json:"modestCoverage"`
	CoverageLevel     string     `bson:"coverageLevel,omitempty" json:"coverageLevel,omitempty"`
	ImageURL          string     `bson:"imageUrl" json:"imageUrl"`
	ImagePublicID     string     `bson:"imagePublicId,omitempty" json:"imagePublicId,omitempty"`
	PricePaid         float64    `bson:"pricePaid,omitempty" json:"pricePaid,omitempty"`
	WearCount         int        `bson:"wearCount" json:"wearCount"`
	CostPerWear       *float64   `bson:"costPerWear" json:"costPerWear"`
	LastWornAt        *time.Time `bson:"lastWornAt,omitempty" json:"lastWornAt,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time  `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// RecordWear increments the wear count and recomputes cost-per-wear.
// Cost-per-wear is nil when no purchase price is known.
func (c *ClosetItem) RecordWear(at time.Time) {
	c.WearCount++
	c.LastWornAt = &at
	if c.PricePaid > 0 && c.WearCount > 0 {
		cpw := c.PricePaid / float64(c.WearCount)
		c.CostPerWear = &cpw
	} else {
		c.CostPerWear = nil
	}
}

// ItemUpdate is the editable subset of a ClosetItem. Nil fields are left untouched.
type ItemUpdate struct {
	Name              *string   `json:"name" validate:"omitempty,max=120"`
	Category          *string   `json:"category" validate:"omitempty,oneof=tops bottoms dresses outerwear shoes accessories bags"`
	Color             *string   `json:"color" validate:"omitempty,max=40"`
	Pattern           *string   `json:"pattern" validate:"omitempty,max=40"`
	Brand             *string   `json:"brand" validate:"omitempty,max=80"`
	Style             *string   `json:"style" validate:"omitempty,max=40"`
	Seasons           *[]string `json:"seasons" validate:"omitempty,dive,oneof=spring summer fall autumn winter all"`
	SuitableOccasions *[]string `json:"suitableOccasions"`
	FormalityLevel    *int      `json:"formalityLevel" validate:"omitempty,min=1,max=5"`
	ModestCoverage    *bool     `json:"modestCoverage"`
	PricePaid         *float64  `json:"pricePaid" validate:"omitempty,min=0"`
}

// Fields converts the update into a field map for store.Update.
func (u ItemUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if u.Color != nil {
		fields["color"] = *u.Color
	}
	if u.Pattern != nil {
		fields["pattern"] = *u.Pattern
	}
	if u.Brand != nil {
		fields["brand"] = *u.Brand
	}
	if u.Style != nil {
		fields["style"] = *u.Style
	}
	if u.Seasons != nil {
		fields["seasons"] = *u.Seasons
	}
	if u.SuitableOccasions != nil {
		fields["suitableOccasions"] = *u.SuitableOccasions
	}
	if u.FormalityLevel != nil {
		fields["formalityLevel"] = *u.FormalityLevel
	}
	if u.ModestCoverage != nil {
		fields["modestCoverage"] = *u.ModestCoverage
	}
	if u.PricePaid != nil {
		fields["pricePaid"] = *u.PricePaid
	}
	return fields
}
