package scrapers

import (
	"context"

	"github.com/raushankrgupta/stylesync/models"
)

// Scraper defines the interface for all product scrapers
type Scraper interface {
	// CanScrape checks if the scraper can handle the given URL
	CanScrape(url string) bool
	// ScrapeProduct reads a product preview from the given URL
	ScrapeProduct(ctx context.Context, url string) (*models.ProductPreview, error)
}
