package testing

import "storefront/internal/catalog"

// Shop, category, group, option and product ids of TestCatalog.
const (
	ShopEnglish = 1
	ShopGerman  = 2

	RootCategory = 3

	GroupColor = 1
	GroupSize  = 2

	OptionRed  = 11
	OptionBlue = 12
	OptionS    = 21
	OptionM    = 22

	ProductShirt = 100
	ProductCap   = 200
)

// TestCatalog is a small storefront: a picture-configured shirt in color and
// size, a single-group cap, and a three-level category tree.
//
// Shirt variants: SW1 red/S, SW2 red/M (sold out, last stock), SW3 blue/S,
// SW4 blue/M. Red therefore only combines with S.
func TestCatalog() *catalog.Document {
	inactive := false

	return &catalog.Document{
		Shops: []catalog.ShopItem{
			{ID: ShopEnglish, Name: "Main", Locale: "en_GB", CategoryID: RootCategory},
			{ID: ShopGerman, Name: "Deutsch", Locale: "de_DE", FallbackLocale: "en_GB", CategoryID: RootCategory},
		},
		Categories: []catalog.CategoryItem{
			{ID: 1, Name: "Root"},
			{ID: RootCategory, ParentID: 1, Name: "Main"},
			{ID: 10, ParentID: RootCategory, Name: "Women", Position: 2},
			{ID: 11, ParentID: RootCategory, Name: "Men", Position: 1},
			{ID: 12, ParentID: RootCategory, Name: "Service", Position: 3, HideTop: true},
			{ID: 13, ParentID: RootCategory, Name: "Archive", Active: &inactive},
			{ID: 20, ParentID: 10, Name: "Shoes & Socks"},
			{ID: 30, ParentID: 20, Name: "Sneakers"},
			{ID: 31, ParentID: 30, Name: "Too deep"},
			{ID: 40, ParentID: 11, Name: "Blog", External: "https://blog.example/?a=1&b=2"},
		},
		Groups: []catalog.GroupItem{
			{ID: GroupColor, Name: "Color", Position: 1, Options: []catalog.OptionItem{
				{ID: OptionRed, Name: "Red", Position: 1},
				{ID: OptionBlue, Name: "Blue", Position: 2},
			}},
			{ID: GroupSize, Name: "Size", Position: 2, Options: []catalog.OptionItem{
				{ID: OptionS, Name: "S", Position: 1},
				{ID: OptionM, Name: "M", Position: 2},
			}},
		},
		Products: []catalog.ProductItem{
			{
				ID:   ProductShirt,
				Name: "Shirt",
				Type: "picture",
				Variants: []catalog.VariantItem{
					{ID: 1001, Number: "SW1", Main: true, Stock: 10, Options: []int{OptionRed, OptionS}},
					{ID: 1002, Number: "SW2", LastStock: true, Options: []int{OptionRed, OptionM}},
					{ID: 1003, Number: "SW3", Stock: 3, Options: []int{OptionBlue, OptionS}},
					{ID: 1004, Number: "SW4", Stock: 1, Options: []int{OptionBlue, OptionM}},
				},
				Media: []catalog.MediaItem{
					{ID: 501, Option: OptionRed, Path: "media/image/shirt-red.jpg", Description: "Red shirt"},
					{ID: 502, Option: OptionBlue, Path: "media/image/shirt-blue.jpg"},
				},
			},
			{
				ID:   ProductCap,
				Name: "Cap",
				Type: "selection",
				Variants: []catalog.VariantItem{
					{ID: 2001, Number: "CAP1", Main: true, Options: []int{OptionRed}},
					{ID: 2002, Number: "CAP2", Options: []int{OptionBlue}},
				},
			},
		},
		Translations: []catalog.TranslationItem{
			{Type: catalog.ObjectGroup, Key: GroupColor, Locale: "de_DE", Field: "name", Value: "Farbe"},
			{Type: catalog.ObjectGroup, Key: GroupSize, Locale: "en_GB", Field: "description", Value: "Regular fit"},
			{Type: catalog.ObjectOption, Key: OptionRed, Locale: "de_DE", Field: "name", Value: "Rot"},
			{Type: catalog.ObjectCategory, Key: 10, Locale: "de_DE", Field: "name", Value: "Damen"},
			{Type: catalog.ObjectMedia, Key: 501, Locale: "de_DE", Field: "description", Value: "Rotes Shirt"},
		},
	}
}
