package models

import "strings"

// itemTypeCategory maps free-form garment nouns onto closet categories.
var itemTypeCategory = map[string]string{
	"shirt": CategoryTops, "t-shirt": CategoryTops, "tshirt": CategoryTops, "tee": CategoryTops,
	"blouse": CategoryTops, "top": CategoryTops, "sweater": CategoryTops, "hoodie": CategoryTops,
	"tank top": CategoryTops, "polo": CategoryTops, "tunic": CategoryTops, "kurta": CategoryTops,
	"sweatshirt": CategoryTops,

	"pants": CategoryBottoms, "jeans": CategoryBottoms, "trousers": CategoryBottoms,
	"shorts": CategoryBottoms, "skirt": CategoryBottoms, "leggings": CategoryBottoms,
	"joggers": CategoryBottoms, "chinos": CategoryBottoms,

	"dress": CategoryDresses, "gown": CategoryDresses, "jumpsuit": CategoryDresses,
	"abaya": CategoryDresses, "maxi dress": CategoryDresses, "saree": CategoryDresses,

	"jacket": CategoryOuterwear, "coat": CategoryOuterwear, "blazer": CategoryOuterwear,
	"cardigan": CategoryOuterwear, "vest": CategoryOuterwear, "parka": CategoryOuterwear,
	"overcoat": CategoryOuterwear, "trench": CategoryOuterwear,

	"shoes": CategoryShoes, "shoe": CategoryShoes, "sneakers": CategoryShoes,
	"boots": CategoryShoes, "sandals": CategoryShoes, "heels": CategoryShoes,
	"flats": CategoryShoes, "loafers": CategoryShoes,

	"bag": CategoryBags, "handbag": CategoryBags, "backpack": CategoryBags,
	"purse": CategoryBags, "clutch": CategoryBags, "tote": CategoryBags,

	"hat": CategoryAccessories, "scarf": CategoryAccessories, "hijab": CategoryAccessories,
	"belt": CategoryAccessories, "jewelry": CategoryAccessories, "watch": CategoryAccessories,
	"sunglasses": CategoryAccessories,
}

// LookupItemType returns the category of a known item type or category name.
func LookupItemType(itemType string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(itemType))
	if IsCategory(t) {
		return t, true
	}
	c, ok := itemTypeCategory[t]
	return c, ok
}

// CategoryForItemType is LookupItemType with unknown types filed as accessories.
func CategoryForItemType(itemType string) string {
	if c, ok := LookupItemType(itemType); ok {
		return c
	}
	return CategoryAccessories
}

// SuggestCategory scans free text (a product title) for a known item type,
// preferring two-word types such as "tank top". It returns "" when nothing matches.
func SuggestCategory(text string) string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != '-'
	})
	for i := 0; i+1 < len(words); i++ {
		if c, ok := itemTypeCategory[words[i]+" "+words[i+1]]; ok {
			return c
		}
	}
	// Later nouns win: "shirt dress" is a dress.
	for i := len(words) - 1; i >= 0; i-- {
		if c, ok := LookupItemType(words[i]); ok {
			return c
		}
	}
	return ""
}
