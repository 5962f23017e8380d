package functions

import (
	"context"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/store"
)

const (
	defaultOutfitCount = 3
	maxOutfitCount     = 10
)

type GenerateOutfitRecommendationsRequest struct {
	Occasion string `json:"occasion"`
	Weather  string `json:"weather"`
	Count    int    `json:"count"`
}

type GenerateOutfitRecommendationsResponse struct {
	Outfits []models.Outfit `json:"outfits"`
}

type rawOutfits struct {
	Outfits []struct {
		Name          string   `json:"name"`
		ItemIDs       []string `json:"item_ids"`
		HarmonyScore  float64  `json:"harmony_score"`
		CohesionScore float64  `json:"cohesion_score"`
		OccasionScore float64  `json:"occasion_score"`
		StylingNotes  string   `json:"styling_notes"`
	} `json:"outfits"`
}

// GenerateOutfitRecommendations asks the model for outfits built from the
// caller's closet. Veiled profiles only see modest garments. Ids the model
// invents are dropped and the stored items are attached to each outfit.
func (s *Service) GenerateOutfitRecommendations(ctx context.Context, uid string, req GenerateOutfitRecommendationsRequest) (*GenerateOutfitRecommendationsResponse, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	req.Occasion = strings.TrimSpace(req.Occasion)
	if req.Occasion == "" {
		return nil, Errorf(CodeInvalidArgument, "occasion is required")
	}
	count := req.Count
	if count <= 0 {
		count = defaultOutfitCount
	}
	if count > maxOutfitCount {
		count = maxOutfitCount
	}

	var items []models.ClosetItem
	if err := s.store.List(ctx, store.ClosetItems, store.Query{
		Where:   map[string]any{"userId": uid},
		OrderBy: "createdAt",
	}, &items); err != nil {
		return nil, internal("generateOutfitRecommendations: list items", err)
	}

	var profile models.Profile
	veiled := false
	if err := s.store.Get(ctx, store.Profiles, uid, &profile); err == nil {
		veiled = profile.IsVeiled()
	} else if !store.IsNotFound(err) {
		return nil, internal("generateOutfitRecommendations: load profile", err)
	}
	if veiled {
		items = ModestFilter(items)
	}
	if len(items) == 0 {
		return nil, Errorf(CodeFailedPrecondition, "Add items to your closet before requesting outfits")
	}

	prompt, err := outfitPrompt(items, req.Occasion, req.Weather, count, veiled)
	if err != nil {
		return nil, internal("generateOutfitRecommendations: prompt", err)
	}
	var raw rawOutfits
	if err := s.generate(ctx, "generateOutfitRecommendations", prompt, &raw); err != nil {
		return nil, err
	}

	byID := make(map[string]models.ClosetItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	outfits := make([]models.Outfit, 0, len(raw.Outfits))
	for _, o := range raw.Outfits {
		outfit := models.Outfit{
			Name:          o.Name,
			HarmonyScore:  o.HarmonyScore,
			CohesionScore: o.CohesionScore,
			OccasionScore: o.OccasionScore,
			StylingNotes:  o.StylingNotes,
		}
		seen := map[string]bool{}
		for _, id := range o.ItemIDs {
			it, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			outfit.ItemIDs = append(outfit.ItemIDs, id)
			outfit.Items = append(outfit.Items, it)
		}
		if len(outfit.Items) == 0 {
			continue
		}
		outfits = append(outfits, outfit)
		if len(outfits) == count {
			break
		}
	}
	return &GenerateOutfitRecommendationsResponse{Outfits: outfits}, nil
}

// ModestFilter drops garments without modest coverage. Shoes, bags and
// accessories are always kept.
func ModestFilter(items []models.ClosetItem) []models.ClosetItem {
	out := make([]models.ClosetItem, 0, len(items))
	for _, it := range items {
		if models.IsGarment(it.Category) && !it.ModestCoverage {
			continue
		}
		out = append(out, it)
	}
	return out
}
