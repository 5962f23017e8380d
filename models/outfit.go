package models

// Outfit is ephemeral: a grouping of closet items proposed by the model. It is never persisted.
type Outfit struct {
	Name          string       `json:"name"`
	ItemIDs       []string     `json:"itemIds"`
	Items         []ClosetItem `json:"items"`
	HarmonyScore  float64      `json:"harmonyScore"`
	CohesionScore float64      `json:"cohesionScore"`
	OccasionScore float64      `json:"occasionScore"`
	StylingNotes  string       `json:"stylingNotes"`
}
