package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryForItemType(t *testing.T) {
	assert.Equal(t, CategoryBags, CategoryForItemType("bag"))
	assert.Equal(t, CategoryTops, CategoryForItemType(" T-Shirt "))
	assert.Equal(t, CategoryDresses, CategoryForItemType("dresses"))
	assert.Equal(t, CategoryShoes, CategoryForItemType("sneakers"))
	assert.Equal(t, CategoryAccessories, CategoryForItemType("umbrella"))
}

func TestSuggestCategory(t *testing.T) {
	assert.Equal(t, CategoryDresses, SuggestCategory("H&M Women Striped Shirt Dress"))
	assert.Equal(t, CategoryTops, SuggestCategory("Ribbed Tank Top, black"))
	assert.Equal(t, CategoryBottoms, SuggestCategory("Levi's 511 Slim Fit Jeans"))
	assert.Equal(t, "", SuggestCategory("Gift card"))
}

func TestRecordWear(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	item := ClosetItem{PricePaid: 90, WearCount: 2}
	item.RecordWear(at)
	assert.Equal(t, 3, item.WearCount)
	require.NotNil(t, item.CostPerWear)
	assert.InDelta(t, 30.0, *item.CostPerWear, 1e-9)
	assert.Equal(t, at, *item.LastWornAt)

	free := ClosetItem{}
	free.RecordWear(at)
	assert.Equal(t, 1, free.WearCount)
	assert.Nil(t, free.CostPerWear)
}
