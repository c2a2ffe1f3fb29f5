package catalog

import (
	"math"

	"github.com/shopspring/decimal"
)

// Prices travel as JSON numbers in API responses and webhook payloads.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// AllCategoryID selects every product.
const AllCategoryID = "all"

// Color is a named color variant with its display value (usually a CSS color).
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is one catalog entry. Products are immutable once loaded.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Images        []string         `json:"images"`
	Category      string           `json:"category"`
	Colors        []Color          `json:"colors,omitempty"`
	Sizes         []string         `json:"sizes,omitempty"`
	Rating        float64          `json:"rating,omitempty"`
	ReviewCount   int              `json:"reviewCount,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
}

// Category groups products. Filter is carried through from the catalog document untouched.
type Category struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Filter *string `json:"filter"`
}

// FirstImage returns the primary image URL.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// DiscountPercent is the rounded markdown against OriginalPrice, or 0 when there is none.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.IsPositive() {
		return 0
	}
	ratio := decimal.NewFromInt(1).Sub(p.Price.Div(*p.OriginalPrice))
	return int(ratio.Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}

// valid reports whether p satisfies the catalog invariants.
func (p Product) valid() bool {
	if p.ID == "" || len(p.Images) == 0 || p.Price.IsNegative() {
		return false
	}
	if p.OriginalPrice != nil && p.OriginalPrice.LessThan(p.Price) {
		return false
	}
	return true
}

// Stars splits a 0-5 rating into full, half and empty star counts.
func Stars(rating float64) (full, half, empty int) {
	rating = math.Max(0, math.Min(5, rating))
	full = int(math.Floor(rating))
	if rating != math.Floor(rating) {
		half = 1
	}
	empty = 5 - full - half
	return full, half, empty
}
