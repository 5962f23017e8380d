package scrapers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/scrapers/myntra"
	"github.com/raushankrgupta/stylesync/scrapers/structured"
	"github.com/raushankrgupta/stylesync/utils"
)

var (
	ErrUnsupportedURL = errors.New("only http and https product links can be imported")
	ErrNoProduct      = errors.New("no product details found at this link")
)

// registered is checked in order; the structured scraper accepts any page
// and must stay last.
var registered = []Scraper{
	myntra.NewMyntraScraper(),
	structured.NewStructuredScraper(),
}

// GetScraper returns the appropriate scraper and the resolved URL
func GetScraper(ctx context.Context, url string) (Scraper, string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, url, ErrUnsupportedURL
	}

	// Resolve shortened URLs (e.g., amzn.in, bit.ly)
	resolvedURL, err := utils.ResolveShortenedURL(ctx, url)
	if err != nil {
		return nil, url, fmt.Errorf("error resolving url: %w", err)
	}

	for _, s := range registered {
		if s.CanScrape(resolvedURL) {
			return s, resolvedURL, nil
		}
	}

	return nil, resolvedURL, fmt.Errorf("no scraper found for url: %s", resolvedURL)
}

// Import scrapes a product link and fills in a suggested closet category.
// A page without a title or an image is reported as ErrNoProduct.
func Import(ctx context.Context, url string) (*models.ProductPreview, error) {
	s, resolved, err := GetScraper(ctx, strings.TrimSpace(url))
	if err != nil {
		return nil, err
	}

	p, err := s.ScrapeProduct(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("error scraping product: %w", err)
	}
	if p.Title == "" || len(p.Images) == 0 {
		return nil, ErrNoProduct
	}

	if p.SuggestedCategory == "" {
		p.SuggestedCategory = models.SuggestCategory(p.Title)
	}
	if p.SuggestedCategory == "" {
		p.SuggestedCategory = models.CategoryAccessories
	}
	return p, nil
}
