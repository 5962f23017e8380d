package outfits

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raushankrgupta/stylesync/models"
)

func closet(counts map[string]int) []models.ClosetItem {
	var items []models.ClosetItem
	for _, cat := range []string{models.CategoryTops, models.CategoryShoes, models.CategoryBottoms, models.CategoryDresses} {
		for i := 0; i < counts[cat]; i++ {
			items = append(items, models.ClosetItem{ID: fmt.Sprintf("%s-%d", cat, i), Category: cat})
		}
	}
	return items
}

func TestCompose_DefaultLimits(t *testing.T) {
	items := closet(map[string]int{models.CategoryTops: 3, models.CategoryBottoms: 2, models.CategoryDresses: 2, models.CategoryShoes: 4})

	got := Compose(items, DefaultLimits)
	require.Len(t, got, 5)

	want := [][2]string{
		{"tops-0", "bottoms-0"},
		{"tops-0", "bottoms-1"},
		{"tops-1", "bottoms-0"},
		{"tops-1", "bottoms-1"},
		{"tops-2", "bottoms-0"},
	}
	for i, w := range want {
		require.NotNil(t, got[i].Top)
		require.NotNil(t, got[i].Bottom)
		assert.Nil(t, got[i].Dress)
		assert.Equal(t, w[0], got[i].Top.ID)
		assert.Equal(t, w[1], got[i].Bottom.ID)
	}
}

func TestCompose_DressesAppended(t *testing.T) {
	items := closet(map[string]int{models.CategoryTops: 1, models.CategoryBottoms: 1, models.CategoryDresses: 3})

	got := Compose(items, DefaultLimits)
	require.Len(t, got, 3)
	assert.Equal(t, "tops-0", got[0].Top.ID)
	assert.Equal(t, "dresses-0", got[1].Dress.ID)
	assert.Equal(t, "dresses-1", got[2].Dress.ID)
}

func TestCompose_CustomLimits(t *testing.T) {
	items := closet(map[string]int{models.CategoryTops: 4, models.CategoryBottoms: 3, models.CategoryDresses: 2})

	got := Compose(items, Limits{MaxTops: 4, MaxBottoms: 3, MaxDresses: 2, MaxResults: 20})
	assert.Len(t, got, 14)
}

func TestCompose_Empty(t *testing.T) {
	assert.Empty(t, Compose(nil, DefaultLimits))
	assert.Empty(t, Compose(closet(map[string]int{models.CategoryTops: 2}), DefaultLimits))
}
