package models

import "time"

const (
	ScanStatusPending  = "pending"
	ScanStatusAnalyzed = "analyzed"

	MeasurementManual = "manual"
	MeasurementAI     = "ai"
)

// Measurements are in centimetres.
type Measurements struct {
	Height float64 `bson:"height,omitempty" json:"height,omitempty"`
	Bust   float64 `bson:"bust,omitempty" json:"bust,omitempty"`
	Waist  float64 `bson:"waist,omitempty" json:"waist,omitempty"`
	Hips   float64 `bson:"hips,omitempty" json:"hips,omitempty"`
}

// BodyScan is a set of three reference photos plus derived body measurements.
type BodyScan struct {
	ID                string         `bson:"_id,omitempty" json:"id"`
	UserID            string         `bson:"userId" json:"userId"`
	FrontImageURL     string         `bson:"frontImageUrl" json:"frontImageUrl"`
	SideImageURL      string         `bson:"sideImageUrl" json:"sideImageUrl"`
	FaceImageURL      string         `bson:"faceImageUrl" json:"faceImageUrl"`
	Height            float64        `bson:"height,omitempty" json:"height,omitempty"` // cm
	Weight            float64        `bson:"weight,omitempty" json:"weight,omitempty"` // kg
	Measurements      Measurements   `bson:"measurements" json:"measurements"`
	MeasurementSource string         `bson:"measurementSource,omitempty" json:"measurementSource,omitempty"`
	BodyShape         string         `bson:"bodyShape,omitempty" json:"bodyShape,omitempty"`
	AIAnalysis        map[string]any `bson:"aiAnalysis,omitempty" json:"aiAnalysis,omitempty"`
	Status            string         `bson:"status" json:"status"`
	CreatedAt         time.Time      `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt         time.Time      `bson:"updatedAt,omitempty" json:"updatedAt"`
}
