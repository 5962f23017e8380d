// Package outfits holds the local outfit composer: a fixed-size cross product
// of the first tops and bottoms plus standalone dresses. It does no colour,
// style or occasion matching; model-backed recommendations live in functions.
package outfits

import (
	"github.com/raushankrgupta/stylesync/config"
	"github.com/raushankrgupta/stylesync/models"
)

// Limits bound how many items of each bucket are combined and how many
// outfits are returned.
type Limits struct {
	MaxTops    int
	MaxBottoms int
	MaxDresses int
	MaxResults int
}

// DefaultLimits yields at most 3x2 top/bottom pairs and 2 dresses, capped at 5.
var DefaultLimits = Limits{MaxTops: 3, MaxBottoms: 2, MaxDresses: 2, MaxResults: 5}

// LimitsFromConfig reads the OUTFIT_MAX_* settings.
func LimitsFromConfig(cfg *config.Config) Limits {
	return Limits{
		MaxTops:    cfg.OutfitMaxTops,
		MaxBottoms: cfg.OutfitMaxBottoms,
		MaxDresses: cfg.OutfitMaxDresses,
		MaxResults: cfg.OutfitMaxResults,
	}
}

// LocalOutfit is either a top/bottom pair or a single dress.
type LocalOutfit struct {
	Top    *models.ClosetItem `json:"top,omitempty"`
	Bottom *models.ClosetItem `json:"bottom,omitempty"`
	Dress  *models.ClosetItem `json:"dress,omitempty"`
}

// Compose buckets items by category and emits, in order: every pairing of
// the first MaxTops tops (outer loop) with the first MaxBottoms bottoms
// (inner loop), then one outfit per dress among the first MaxDresses. The
// result is truncated to MaxResults.
func Compose(items []models.ClosetItem, limits Limits) []LocalOutfit {
	var tops, bottoms, dresses []*models.ClosetItem
	for i := range items {
		switch items[i].Category {
		case models.CategoryTops:
			tops = append(tops, &items[i])
		case models.CategoryBottoms:
			bottoms = append(bottoms, &items[i])
		case models.CategoryDresses:
			dresses = append(dresses, &items[i])
		}
	}
	tops = head(tops, limits.MaxTops)
	bottoms = head(bottoms, limits.MaxBottoms)
	dresses = head(dresses, limits.MaxDresses)

	outfits := make([]LocalOutfit, 0, len(tops)*len(bottoms)+len(dresses))
	for _, top := range tops {
		for _, bottom := range bottoms {
			outfits = append(outfits, LocalOutfit{Top: top, Bottom: bottom})
		}
	}
	for _, dress := range dresses {
		outfits = append(outfits, LocalOutfit{Dress: dress})
	}

	if limits.MaxResults >= 0 && len(outfits) > limits.MaxResults {
		outfits = outfits[:limits.MaxResults]
	}
	return outfits
}

func head(items []*models.ClosetItem, n int) []*models.ClosetItem {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
