// Package structured reads product metadata that shops publish for link
// previews and search engines: OpenGraph meta tags and JSON-LD Product blocks.
package structured

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/scrapers/base"
)

type StructuredScraper struct {
	*base.BaseScraper
}

func NewStructuredScraper() *StructuredScraper {
	return &StructuredScraper{
		BaseScraper: base.NewBaseScraper(),
	}
}

// CanScrape accepts any http(s) page; it is the fallback scraper.
func (s *StructuredScraper) CanScrape(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

func (s *StructuredScraper) ScrapeProduct(ctx context.Context, url string) (*models.ProductPreview, error) {
	doc, err := s.FetchDocument(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return Extract(doc, url), nil
}

// Extract builds a preview from JSON-LD first, then fills gaps from
// OpenGraph tags and finally the <title>.
func Extract(doc *goquery.Document, pageURL string) *models.ProductPreview {
	p := &models.ProductPreview{URL: pageURL}

	if product := findProduct(doc); product != nil {
		applyJSONLD(p, product, pageURL)
	}
	applyOpenGraph(p, doc, pageURL)

	if p.Title == "" {
		p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if p.Description == "" {
		p.Description = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}

func applyOpenGraph(p *models.ProductPreview, doc *goquery.Document, pageURL string) {
	meta := func(keys ...string) string {
		for _, k := range keys {
			sel := doc.Find(`meta[property="` + k + `"], meta[name="` + k + `"]`).First()
			if v := strings.TrimSpace(sel.AttrOr("content", "")); v != "" {
				return v
			}
		}
		return ""
	}

	if p.Title == "" {
		p.Title = meta("og:title", "twitter:title")
	}
	if p.Description == "" {
		p.Description = meta("og:description", "twitter:description")
	}
	if p.Brand == "" {
		p.Brand = meta("product:brand", "og:brand")
	}
	if p.Price == 0 {
		if price, ok := base.ParsePrice(meta("product:price:amount", "og:price:amount")); ok {
			p.Price = price
		}
	}
	if p.Currency == "" {
		p.Currency = meta("product:price:currency", "og:price:currency")
	}
	doc.Find(`meta[property="og:image"], meta[property="og:image:secure_url"], meta[name="twitter:image"]`).Each(func(_ int, sel *goquery.Selection) {
		p.Images = base.AppendUnique(p.Images, base.AbsoluteURL(pageURL, sel.AttrOr("content", "")))
	})
}

// findProduct returns the first JSON-LD node typed Product, searching
// top-level arrays and @graph containers.
func findProduct(doc *goquery.Document) map[string]any {
	var found map[string]any
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var v any
		if err := json.Unmarshal([]byte(sel.Text()), &v); err != nil {
			return true
		}
		found = productNode(v)
		return found == nil
	})
	return found
}

func productNode(v any) map[string]any {
	switch n := v.(type) {
	case []any:
		for _, e := range n {
			if p := productNode(e); p != nil {
				return p
			}
		}
	case map[string]any:
		if isType(n["@type"], "Product") || isType(n["@type"], "ProductGroup") {
			return n
		}
		if graph, ok := n["@graph"]; ok {
			return productNode(graph)
		}
	}
	return nil
}

func isType(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return t == want
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}

func applyJSONLD(p *models.ProductPreview, n map[string]any, pageURL string) {
	p.Title = base.NameOf(n["name"])
	p.Brand = base.NameOf(n["brand"])
	if s, ok := n["description"].(string); ok {
		p.Description = strings.TrimSpace(s)
	}

	switch img := n["image"].(type) {
	case string:
		p.Images = base.AppendUnique(p.Images, base.AbsoluteURL(pageURL, img))
	case []any:
		for _, e := range img {
			p.Images = base.AppendUnique(p.Images, base.AbsoluteURL(pageURL, imageURL(e)))
		}
	case map[string]any:
		p.Images = base.AppendUnique(p.Images, base.AbsoluteURL(pageURL, imageURL(img)))
	}

	offer := firstOffer(n["offers"])
	if offer == nil {
		return
	}
	for _, key := range []string{"price", "lowPrice"} {
		if price, ok := base.ParsePrice(offer[key]); ok {
			p.Price = price
			break
		}
	}
	if c, ok := offer["priceCurrency"].(string); ok {
		p.Currency = c
	}
}

// imageURL handles both bare strings and ImageObject nodes.
func imageURL(v any) string {
	switch i := v.(type) {
	case string:
		return i
	case map[string]any:
		if u, ok := i["url"].(string); ok {
			return u
		}
		if u, ok := i["contentUrl"].(string); ok {
			return u
		}
	}
	return ""
}

func firstOffer(v any) map[string]any {
	switch o := v.(type) {
	case map[string]any:
		return o
	case []any:
		for _, e := range o {
			if m, ok := e.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}
