package structured

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/raushankrgupta/stylesync/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test servers listen on loopback.
func TestMain(m *testing.M) {
	utils.AllowPrivateNetworks(true)
	os.Exit(m.Run())
}

const jsonLDPage = `<html><head>
<title>Linen Shirt | Shop</title>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList"}</script>
<script type="application/ld+json">
{"@context":"https://schema.org","@graph":[
  {"@type":"WebPage","name":"ignored"},
  {"@type":["Product"],"name":"Relaxed Linen Shirt","brand":{"@type":"Brand","name":"Uniqlo"},
   "description":"Breathable linen.",
   "image":["/img/front.jpg",{"@type":"ImageObject","url":"https://cdn.example.com/back.jpg"}],
   "offers":[{"@type":"Offer","price":"39.90","priceCurrency":"USD"}]}
]}
</script>
<meta property="og:title" content="OG title should lose">
<meta property="og:image" content="https://cdn.example.com/back.jpg">
</head><body></body></html>`

const openGraphPage = `<html><head>
<title>fallback</title>
<meta property="og:title" content="Pleated Midi Skirt">
<meta property="og:description" content="Flowing pleats.">
<meta property="og:image" content="//cdn.example.com/skirt.jpg">
<meta property="product:brand" content="Mango">
<meta property="product:price:amount" content="59.99">
<meta property="product:price:currency" content="EUR">
</head><body></body></html>`

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtract_JSONLD(t *testing.T) {
	p := Extract(parse(t, jsonLDPage), "https://shop.example.com/p/1")

	assert.Equal(t, "Relaxed Linen Shirt", p.Title)
	assert.Equal(t, "Uniqlo", p.Brand)
	assert.Equal(t, "Breathable linen.", p.Description)
	assert.InDelta(t, 39.90, p.Price, 1e-9)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, []string{"https://shop.example.com/img/front.jpg", "https://cdn.example.com/back.jpg"}, p.Images)
}

func TestExtract_OpenGraph(t *testing.T) {
	p := Extract(parse(t, openGraphPage), "https://shop.example.com/p/2")

	assert.Equal(t, "Pleated Midi Skirt", p.Title)
	assert.Equal(t, "Mango", p.Brand)
	assert.Equal(t, "Flowing pleats.", p.Description)
	assert.InDelta(t, 59.99, p.Price, 1e-9)
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, []string{"https://cdn.example.com/skirt.jpg"}, p.Images)
}

func TestExtract_TitleOnly(t *testing.T) {
	p := Extract(parse(t, `<html><head><title> Plain page </title></head></html>`), "https://x.example.com")
	assert.Equal(t, "Plain page", p.Title)
	assert.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
}

func TestScrapeProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/blocked" {
			w.Write([]byte(`<html><head><title>Robot Check</title></head><body></body></html>`))
			return
		}
		if r.URL.Path == "/gone" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(openGraphPage))
	}))
	defer srv.Close()

	s := NewStructuredScraper()
	assert.True(t, s.CanScrape(srv.URL))
	assert.False(t, s.CanScrape("ftp://example.com/file"))

	p, err := s.ScrapeProduct(context.Background(), srv.URL+"/item")
	require.NoError(t, err)
	assert.Equal(t, "Pleated Midi Skirt", p.Title)
	assert.Equal(t, srv.URL+"/item", p.URL)

	_, err = s.ScrapeProduct(context.Background(), srv.URL+"/blocked")
	assert.Error(t, err)

	_, err = s.ScrapeProduct(context.Background(), srv.URL+"/gone")
	assert.Error(t, err)
}
