// Command import-preview prints the closet-item preview for one or more shop links.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/raushankrgupta/stylesync/scrapers"
)

func main() {
	timeout := flag.Duration("timeout", 45*time.Second, "per-link timeout")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: import-preview [-timeout 45s] <product_url>...")
		os.Exit(2)
	}

	failed := 0
	for _, u := range urls {
		fmt.Printf("Testing URL: %s\n", u)

		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		scraper, resolved, err := scrapers.GetScraper(ctx, u)
		if err != nil {
			cancel()
			log.Printf("Failed to get scraper for %s: %v\n", u, err)
			failed++
			continue
		}
		fmt.Printf("Resolved URL: %s\n", resolved)
		fmt.Printf("Scraper: %T\n", scraper)

		preview, err := scrapers.Import(ctx, resolved)
		cancel()
		if err != nil {
			log.Printf("Failed to import product: %v\n", err)
			failed++
			continue
		}

		b, _ := json.MarshalIndent(preview, "", "  ")
		fmt.Printf("Preview: %s\n", string(b))
		fmt.Println("--------------------------------------------------")
	}

	if failed > 0 {
		os.Exit(1)
	}
}
