package models

import "time"

// Avatar is keyed by the owning user id and derived from a BodyScan.
type Avatar struct {
	ID             string            `bson:"_id,omitempty" json:"id"`
	UserID         string            `bson:"userId" json:"userId"`
	ScanID         string            `bson:"scanId" json:"scanId"`
	ModelURL       string            `bson:"modelUrl" json:"modelUrl"`
	ThumbnailURL   string            `bson:"thumbnailUrl" json:"thumbnailUrl"`
	SkinTone       string            `bson:"skinTone,omitempty" json:"skinTone,omitempty"` // hex, e.g. #C68642
	HairColor      string            `bson:"hairColor,omitempty" json:"hairColor,omitempty"`
	HairStyle      string            `bson:"hairStyle,omitempty" json:"hairStyle,omitempty"`
	FacialFeatures map[string]string `bson:"facialFeatures,omitempty" json:"facialFeatures,omitempty"`
	BodyShape      BodyShapeParams   `bson:"bodyShape" json:"bodyShape"`
	Provider       string            `bson:"provider" json:"provider"`
	CreatedAt      time.Time         `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt      time.Time         `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type BodyShapeParams struct {
	Shape        string       `bson:"shape,omitempty" json:"shape,omitempty"`
	Measurements Measurements `bson:"measurements" json:"measurements"`
}
