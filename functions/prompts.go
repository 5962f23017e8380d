package functions

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
)

const closetItemPrompt = `You are a fashion cataloguing assistant. Look at the clothing item in the image and describe it.
Respond with JSON only, using exactly these keys:
{
  "item_type": "a short noun such as shirt, jeans, dress, jacket, sneakers, bag, scarf",
  "name": "a short descriptive name",
  "colors": ["primary colour first"],
  "pattern": "solid, striped, floral, ...",
  "style": "casual, formal, sporty, ...",
  "brand": "brand if a logo is visible, else empty",
  "seasons": ["spring", "summer", "fall", "winter"],
  "suitable_occasions": ["work", "casual", ...],
  "formality_level": 1-5,
  "modest_coverage": true if it covers arms and legs loosely,
  "coverage_level": "full, moderate or minimal",
  "tags": ["up to eight descriptive tags"]
}`

func bodyShapePrompt(height, weight float64) string {
	var sb strings.Builder
	sb.WriteString("You are a body measurement assistant. The images show a person from the front and, if present, the side.\n")
	if height > 0 {
		fmt.Fprintf(&sb, "Their height is %.0f cm.\n", height)
	}
	if weight > 0 {
		fmt.Fprintf(&sb, "Their weight is %.0f kg.\n", weight)
	}
	sb.WriteString(`Estimate their measurements in centimetres and classify the body shape as one of
hourglass, pear, apple, rectangle, inverted_triangle.
Respond with JSON only:
{
  "measurements": {"height": 0, "bust": 0, "waist": 0, "hips": 0},
  "body_shape": "...",
  "confidence": 0.0,
  "notes": "..."
}`)
	return sb.String()
}

type promptItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	Colors    []string `json:"colors,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Style     string   `json:"style,omitempty"`
	Formality int      `json:"formality,omitempty"`
	Occasions []string `json:"occasions,omitempty"`
	Seasons   []string `json:"seasons,omitempty"`
}

func outfitPrompt(items []models.ClosetItem, occasion, weather string, count int, veiled bool) (string, error) {
	closet := make([]promptItem, 0, len(items))
	for _, it := range items {
		colors := it.Colors
		if len(colors) == 0 && it.Color != "" {
			colors = []string{it.Color}
		}
		closet = append(closet, promptItem{
			ID: it.ID, Name: it.Name, Category: it.Category, Colors: colors, Pattern: it.Pattern,
			Style: it.Style, Formality: it.FormalityLevel, Occasions: it.SuitableOccasions, Seasons: it.Seasons,
		})
	}
	closetJSON, err := json.Marshal(closet)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are a personal stylist. Build outfits using only items from this closet:\n")
	sb.Write(closetJSON)
	fmt.Fprintf(&sb, "\n\nOccasion: %s\n", occasion)
	if weather != "" {
		fmt.Fprintf(&sb, "Weather: %s\n", weather)
	}
	if veiled {
		sb.WriteString("The wearer dresses modestly and wears a hijab; keep every look hijab-friendly with full coverage.\n")
	}
	fmt.Fprintf(&sb, `Suggest %d outfits. Respond with JSON only:
{
  "outfits": [
    {
      "name": "...",
      "item_ids": ["ids from the closet"],
      "harmony_score": 0-100,
      "cohesion_score": 0-100,
      "occasion_score": 0-100,
      "styling_notes": "..."
    }
  ]
}`, count)
	return sb.String(), nil
}

const avatarFeaturesPrompt = `Describe the person's face in this photo for a 3D avatar.
Respond with JSON only:
{
  "skin_tone": "hex colour such as #C68642",
  "hair_color": "...",
  "hair_style": "...",
  "gender": "masculine or feminine",
  "facial_features": {"face_shape": "...", "eye_color": "...", "eyebrows": "...", "nose": "...", "lips": "..."}
}`
