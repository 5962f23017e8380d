package models

// ProductPreview holds what could be read from a shop product page,
// used to prefill a new closet item.
type ProductPreview struct {
	URL               string   `json:"url"`
	Title             string   `json:"title"`
	Brand             string   `json:"brand,omitempty"`
	Price             float64  `json:"price,omitempty"`
	Currency          string   `json:"currency,omitempty"`
	Description       string   `json:"description,omitempty"`
	Images            []string `json:"images"`
	SuggestedCategory string   `json:"suggestedCategory"`
	ImageURL          string   `json:"imageUrl,omitempty"` // re-hosted copy of Images[0]
}
