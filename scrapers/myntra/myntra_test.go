package myntra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/raushankrgupta/stylesync/models"
	"github.com/raushankrgupta/stylesync/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test servers listen on loopback.
func TestMain(m *testing.M) {
	utils.AllowPrivateNetworks(true)
	os.Exit(m.Run())
}

const statePage = `<html><head><title>Myntra</title></head><body>
<script>window.__myx = {"pdpData":{"name":"Roadster Men Slim Fit Jeans",
"brand":{"name":"Roadster"},
"price":{"mrp":2499,"discounted":1249},
"productDetails":[{"description":" Dark blue wash "}],
"analytics":{"articleType":"Jeans"},
"media":{"albums":[{"images":[
 {"src":"http://assets.myntassets.com/h_($height),q_($qualityPercentage),w_($width)/v1/assets/images/1.jpg"},
 {"src":"http://assets.myntassets.com/v1/assets/images/1.jpg"}]}]}}};</script>
</body></html>`

func TestScrapeProduct_PageState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(statePage))
	}))
	defer srv.Close()

	p, err := NewMyntraScraper().ScrapeProduct(context.Background(), srv.URL+"/jeans/123")
	require.NoError(t, err)

	assert.Equal(t, "Roadster Men Slim Fit Jeans", p.Title)
	assert.Equal(t, "Roadster", p.Brand)
	assert.InDelta(t, 1249.0, p.Price, 1e-9)
	assert.Equal(t, "INR", p.Currency)
	assert.Equal(t, "Dark blue wash", p.Description)
	assert.Equal(t, []string{"http://assets.myntassets.com/v1/assets/images/1.jpg"}, p.Images)
	assert.Equal(t, models.CategoryBottoms, p.SuggestedCategory)
}

func TestScrapeProduct_FallsBackToMetaTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta property="og:title" content="Kurta Set"></head><body></body></html>`))
	}))
	defer srv.Close()

	p, err := NewMyntraScraper().ScrapeProduct(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Kurta Set", p.Title)
}

func TestCanScrape(t *testing.T) {
	s := NewMyntraScraper()
	assert.True(t, s.CanScrape("https://www.myntra.com/jeans/roadster/123/buy"))
	assert.False(t, s.CanScrape("https://www.zara.com/item"))
}
