package functions

import (
	"context"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
)

type AnalyzeClosetItemRequest struct {
	ImageURL    string `json:"imageUrl"`
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// ItemAnalysis is the normalized tagging result for one clothing photo.
type ItemAnalysis struct {
	ItemType          string   `json:"itemType"`
	Category          string   `json:"category"`
	Name              string   `json:"name,omitempty"`
	Colors            []string `json:"colors"`
	PrimaryColor      string   `json:"primaryColor,omitempty"`
	Pattern           string   `json:"pattern,omitempty"`
	Style             string   `json:"style,omitempty"`
	Brand             string   `json:"brand,omitempty"`
	Seasons           []string `json:"seasons"`
	SuitableOccasions []string `json:"suitableOccasions"`
	FormalityLevel    int      `json:"formalityLevel"`
	ModestCoverage    bool     `json:"modestCoverage"`
	CoverageLevel     string   `json:"coverageLevel,omitempty"`
	Tags              []string `json:"tags"`
}

type AnalyzeClosetItemResponse struct {
	Analysis ItemAnalysis `json:"analysis"`
}

type rawItemAnalysis struct {
	ItemType          string   `json:"item_type"`
	Name              string   `json:"name"`
	Colors            []string `json:"colors"`
	Pattern           string   `json:"pattern"`
	Style             string   `json:"style"`
	Brand             string   `json:"brand"`
	Seasons           []string `json:"seasons"`
	SuitableOccasions []string `json:"suitable_occasions"`
	FormalityLevel    float64  `json:"formality_level"`
	ModestCoverage    bool     `json:"modest_coverage"`
	CoverageLevel     string   `json:"coverage_level"`
	Tags              []string `json:"tags"`
}

// AnalyzeClosetItem tags a clothing photo and maps the detected item type to a category.
func (s *Service) AnalyzeClosetItem(ctx context.Context, uid string, req AnalyzeClosetItemRequest) (*AnalyzeClosetItemResponse, error) {
	if err := requireCaller(uid); err != nil {
		return nil, err
	}
	ref := req.ImageBase64
	if ref == "" {
		ref = req.ImageURL
	}
	if strings.TrimSpace(ref) == "" {
		return nil, Errorf(CodeInvalidArgument, "imageUrl or imageBase64 is required")
	}

	img, err := s.image(ctx, ref, req.MimeType)
	if err != nil {
		return nil, err
	}

	var raw rawItemAnalysis
	if err := s.generate(ctx, "analyzeClosetItem", closetItemPrompt, &raw, img); err != nil {
		return nil, err
	}
	return &AnalyzeClosetItemResponse{Analysis: normalizeItem(raw)}, nil
}

func normalizeItem(raw rawItemAnalysis) ItemAnalysis {
	a := ItemAnalysis{
		ItemType:          strings.ToLower(strings.TrimSpace(raw.ItemType)),
		Category:          models.CategoryForItemType(raw.ItemType),
		Name:              strings.TrimSpace(raw.Name),
		Colors:            nonEmpty(raw.Colors),
		Pattern:           raw.Pattern,
		Style:             raw.Style,
		Brand:             raw.Brand,
		Seasons:           nonEmpty(raw.Seasons),
		SuitableOccasions: nonEmpty(raw.SuitableOccasions),
		FormalityLevel:    clampFormality(raw.FormalityLevel),
		ModestCoverage:    raw.ModestCoverage,
		CoverageLevel:     raw.CoverageLevel,
		Tags:              nonEmpty(raw.Tags),
	}
	if len(a.Colors) > 0 {
		a.PrimaryColor = a.Colors[0]
	}
	if len(a.Tags) > 8 {
		a.Tags = a.Tags[:8]
	}
	return a
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
