package cart

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/storage"
)

// Store owns the cart lines and wishlist of one shopper. Every mutation is mirrored to storage
// before the method returns. A Store is not safe for concurrent use.
type Store struct {
	finder   ProductFinder
	storage  *storage.Adapter
	persist  Persistence
	lines    []Line
	wishlist []string
}

// NewStore loads the persisted collections (when enabled) and returns the Store. Unreadable or
// missing data yields empty collections.
func NewStore(ctx context.Context, finder ProductFinder, adapter *storage.Adapter, persist Persistence) *Store {
	s := &Store{
		finder:   finder,
		storage:  adapter,
		persist:  persist,
		lines:    []Line{},
		wishlist: []string{},
	}
	if persist.Cart {
		var lines []Line
		if adapter.Load(ctx, CartKey, &lines) {
			s.lines = normaliseLines(lines)
		}
	}
	if persist.Wishlist {
		var ids []string
		if adapter.Load(ctx, WishlistKey, &ids) {
			s.wishlist = normaliseIDs(ids)
		}
	}
	return s
}

// normaliseLines merges duplicate keys, drops non-positive quantities and caps the rest at
// MaxQuantity.
func normaliseLines(in []Line) []Line {
	out := make([]Line, 0, len(in))
	pos := make(map[string]int, len(in))
	for _, l := range in {
		if l.Quantity <= 0 || l.ProductID == "" {
			continue
		}
		if l.Key == "" {
			l.Key = LineKey(l.ProductID, l.Size, l.Color)
		}
		l.Quantity = clampQuantity(l.Quantity)
		if i, ok := pos[l.Key]; ok {
			out[i].Quantity = clampQuantity(out[i].Quantity + l.Quantity)
			continue
		}
		pos[l.Key] = len(out)
		out = append(out, l)
	}
	return out
}

func normaliseIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, id := range in {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func (s *Store) saveCart(ctx context.Context) {
	if s.persist.Cart {
		s.storage.Save(ctx, CartKey, s.lines)
	}
}

func (s *Store) saveWishlist(ctx context.Context) {
	if s.persist.Wishlist {
		s.storage.Save(ctx, WishlistKey, s.wishlist)
	}
}

func (s *Store) indexOf(key string) int {
	return slices.IndexFunc(s.lines, func(l Line) bool { return l.Key == key })
}

// AddItem adds opts.Quantity of the product variant to the cart, merging into an existing line
// with the same key. It returns false, without touching the cart, when the product is unknown.
func (s *Store) AddItem(ctx context.Context, productID string, opts AddOptions) bool {
	product, ok := s.finder.Find(productID)
	if !ok {
		return false
	}
	qty := max(clampQuantity(opts.Quantity), 1)

	key := LineKey(productID, opts.Size, opts.Color)
	if i := s.indexOf(key); i >= 0 {
		s.lines[i].Quantity = clampQuantity(s.lines[i].Quantity + qty)
	} else {
		s.lines = append(s.lines, Line{
			Key:       key,
			ProductID: productID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.FirstImage(),
			Quantity:  qty,
			Size:      opts.Size,
			Color:     opts.Color,
		})
	}

	s.saveCart(ctx)
	return true
}

// RemoveItem deletes the line with key. Removing an absent key still persists and is not an error.
func (s *Store) RemoveItem(ctx context.Context, key string) {
	s.lines = slices.DeleteFunc(s.lines, func(l Line) bool { return l.Key == key })
	s.saveCart(ctx)
}

// SetQuantity overwrites the quantity of a line; qty <= 0 removes it and qty above MaxQuantity
// is capped.
func (s *Store) SetQuantity(ctx context.Context, key string, qty int) {
	if qty <= 0 {
		s.RemoveItem(ctx, key)
		return
	}
	i := s.indexOf(key)
	if i < 0 {
		return
	}
	s.lines[i].Quantity = clampQuantity(qty)
	s.saveCart(ctx)
}

// ChangeQuantity applies delta to a line's quantity, clamping at zero (which removes the line)
// and at MaxQuantity.
func (s *Store) ChangeQuantity(ctx context.Context, key string, delta int) {
	i := s.indexOf(key)
	if i < 0 {
		return
	}
	delta = min(max(delta, -MaxQuantity), MaxQuantity)
	s.SetQuantity(ctx, key, clampQuantity(s.lines[i].Quantity+delta))
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.lines = []Line{}
	s.saveCart(ctx)
}

// Total is the sum of price × quantity. Shipping is free and tax is not applied.
func (s *Store) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Shipping is always zero.
func (s *Store) Shipping() decimal.Decimal { return decimal.Zero }

// Count is the sum of quantities across lines.
func (s *Store) Count() int {
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	return slices.Clone(s.lines)
}

func (s *Store) Line(key string) (Line, bool) {
	i := s.indexOf(key)
	if i < 0 {
		return Line{}, false
	}
	return s.lines[i], true
}

func (s *Store) Empty() bool { return len(s.lines) == 0 }

// ToggleWishlist adds productID when absent and removes it when present. It returns true when
// the product is on the wishlist after the call.
func (s *Store) ToggleWishlist(ctx context.Context, productID string) bool {
	i := slices.Index(s.wishlist, productID)
	if i >= 0 {
		s.wishlist = slices.Delete(s.wishlist, i, i+1)
	} else {
		s.wishlist = append(s.wishlist, productID)
	}
	s.saveWishlist(ctx)
	return i < 0
}

func (s *Store) IsWishlisted(productID string) bool {
	return slices.Contains(s.wishlist, productID)
}

// Wishlist returns the wishlisted ids in insertion order.
func (s *Store) Wishlist() []string {
	return slices.Clone(s.wishlist)
}
