package cart

import (
	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

// Storage keys for the persisted collections.
const (
	CartKey     = "grindctrl_cart"
	WishlistKey = "grindctrl_wishlist"
)

const defaultVariant = "default"

// MaxQuantity caps the quantity of a single line. Adds and adjustments saturate at it.
const MaxQuantity = 999

func clampQuantity(q int) int {
	return min(max(q, 0), MaxQuantity)
}

// Line is one product+variant entry in the cart. Name, Price and Image are a snapshot taken
// when the line was first added.
type Line struct {
	Key       string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	Size      Option          `json:"size"`
	Color     Option          `json:"color"`
}

// Subtotal is Price × Quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineKey builds the composite key of a line; absent variants become "default".
func LineKey(productID string, size, color Option) string {
	return productID + "_" + size.Or(defaultVariant) + "_" + color.Or(defaultVariant)
}

// AddOptions parameterise Store.AddItem. A Quantity below 1 means 1; above MaxQuantity means
// MaxQuantity.
type AddOptions struct {
	Quantity int
	Size     Option
	Color    Option
}

// ProductFinder resolves product ids for AddItem.
type ProductFinder interface {
	Find(id string) (catalog.Product, bool)
}

// Persistence toggles mirroring of each collection to storage.
type Persistence struct {
	Cart     bool
	Wishlist bool
}
