package myntra

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/scrapers/base"
	"github.com/raushankrgupta/stylesync/scrapers/structured"
)

// Myntra renders the product client side; the page state is embedded as
// window.__myx and carries more than the meta tags do.
const stateMarker = "window.__myx ="

// imageSizing is the templated resize segment Myntra leaves in image URLs.
var imageSizing = strings.NewReplacer("h_($height),q_($qualityPercentage),w_($width)/", "")

type MyntraScraper struct {
	*base.BaseScraper
}

func NewMyntraScraper() *MyntraScraper {
	return &MyntraScraper{
		BaseScraper: base.NewBaseScraper(),
	}
}

func (s *MyntraScraper) CanScrape(url string) bool {
	return strings.Contains(url, "myntra.com")
}

func (s *MyntraScraper) ScrapeProduct(ctx context.Context, url string) (*models.ProductPreview, error) {
	doc, err := s.FetchDocument(ctx, url, func(doc *goquery.Document) bool {
		return strings.Contains(doc.Text(), "window.__myx") || base.IsValidDocument(doc)
	})
	if err != nil {
		return nil, err
	}

	if p := fromPageState(doc, url); p != nil {
		return p, nil
	}
	return structured.Extract(doc, url), nil
}

type pdpState struct {
	PdpData *pdpData `json:"pdpData"`
}

type pdpData struct {
	Name      string       `json:"name"`
	Brand     any          `json:"brand"`
	Price     any          `json:"price"`
	MRP       any          `json:"mrp"`
	Details   []pdpDetail  `json:"productDetails"`
	Analytics pdpAnalytics `json:"analytics"`
	Media     pdpMedia     `json:"media"`
}

type pdpDetail struct {
	Description string `json:"description"`
}

type pdpAnalytics struct {
	ArticleType string `json:"articleType"`
}

type pdpMedia struct {
	Albums []struct {
		Images []struct {
			Src string `json:"src"`
		} `json:"images"`
	} `json:"albums"`
}

func fromPageState(doc *goquery.Document, url string) *models.ProductPreview {
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		i := strings.Index(text, stateMarker)
		if i < 0 {
			return true
		}
		raw = strings.TrimSuffix(strings.TrimSpace(text[i+len(stateMarker):]), ";")
		return false
	})
	if raw == "" {
		return nil
	}

	var state pdpState
	if err := json.Unmarshal([]byte(raw), &state); err != nil || state.PdpData == nil || state.PdpData.Name == "" {
		return nil
	}
	pd := state.PdpData

	p := &models.ProductPreview{
		URL:      url,
		Title:    pd.Name,
		Brand:    base.NameOf(pd.Brand),
		Currency: "INR",
		Images:   []string{},
	}

	// price is either a number or {mrp, discounted}.
	if m, ok := pd.Price.(map[string]any); ok {
		if v, ok := base.ParsePrice(m["discounted"]); ok {
			p.Price = v
		} else if v, ok := base.ParsePrice(m["mrp"]); ok {
			p.Price = v
		}
	} else if v, ok := base.ParsePrice(pd.Price); ok {
		p.Price = v
	} else if v, ok := base.ParsePrice(pd.MRP); ok {
		p.Price = v
	}

	if len(pd.Details) > 0 {
		p.Description = strings.TrimSpace(pd.Details[0].Description)
	}
	for _, album := range pd.Media.Albums {
		for _, img := range album.Images {
			p.Images = base.AppendUnique(p.Images, imageSizing.Replace(img.Src))
		}
	}
	p.SuggestedCategory = models.SuggestCategory(pd.Analytics.ArticleType)
	return p
}
