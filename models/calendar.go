package models

import "time"

// CalendarEvent schedules a set of closet items for a given day.
type CalendarEvent struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Date      string    `bson:"date" json:"date" validate:"required,datetime=2006-01-02"`
	Occasion  string    `bson:"occasion,omitempty" json:"occasion,omitempty" validate:"max=80"`
	ItemIDs   []string  `bson:"itemIds" json:"itemIds" validate:"required,min=1,max=20"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty" validate:"max=500"`
	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}
