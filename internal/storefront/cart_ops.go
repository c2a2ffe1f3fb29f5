package storefront

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
)

// CartView is the cart summary shown to the shopper.
type CartView struct {
	Items    []cart.Line     `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
	Currency string          `json:"currency"`
}

// ProductView decorates a product with derived display values.
type ProductView struct {
	catalog.Product
	Image           string    `json:"image"`
	DiscountPercent int       `json:"discountPercent,omitempty"`
	Stars           StarsView `json:"stars"`
	Wishlisted      bool      `json:"wishlisted"`
}

type StarsView struct {
	Full  int `json:"full"`
	Half  int `json:"half"`
	Empty int `json:"empty"`
}

func (s *Session) productView(p catalog.Product) ProductView {
	full, half, empty := catalog.Stars(p.Rating)
	return ProductView{
		Product:         p,
		Image:           p.FirstImage(),
		DiscountPercent: p.DiscountPercent(),
		Stars:           StarsView{Full: full, Half: half, Empty: empty},
		Wishlisted:      s.store.IsWishlisted(p.ID),
	}
}

// Products lists the products of categoryID ("all" or empty for everything).
func (s *Session) Products(categoryID string) []ProductView {
	if categoryID == "" {
		categoryID = catalog.AllCategoryID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	products := s.app.Catalog().Filter(categoryID)
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, s.productView(p))
	}
	return out
}

func (s *Session) Product(id string) (ProductView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.app.Find(id)
	if !ok {
		return ProductView{}, fmt.Errorf("product %q: %w", id, ErrProductNotFound)
	}
	return s.productView(p), nil
}

// AddToCart adds a product line, merging with an existing line of the same variant.
func (s *Session) AddToCart(ctx context.Context, productID string, opts cart.AddOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.app.Find(productID)
	if !ok {
		s.notes.Error(msgProductNotFound)
		return fmt.Errorf("add to cart %q: %w", productID, ErrProductNotFound)
	}
	if !s.store.AddItem(ctx, productID, opts) {
		s.notes.Error(msgAddToCartFailed)
		return fmt.Errorf("add to cart %q: %w", productID, ErrProductNotFound)
	}
	s.notes.Success(fmt.Sprintf(msgAddedToCart, p.Name))
	return nil
}

// UpdateQuantity sets a line's quantity; zero or less removes it.
func (s *Session) UpdateQuantity(ctx context.Context, key string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.SetQuantity(ctx, key, qty)
}

// ChangeQuantity adjusts a line's quantity by delta; reaching zero removes it.
func (s *Session) ChangeQuantity(ctx context.Context, key string, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.ChangeQuantity(ctx, key, delta)
}

func (s *Session) RemoveItem(ctx context.Context, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.RemoveItem(ctx, key)
}

func (s *Session) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear(ctx)
}

func (s *Session) CartSummary() CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartView()
}

func (s *Session) cartView() CartView {
	subtotal := s.store.Total()
	shipping := s.store.Shipping()
	return CartView{
		Items:    s.store.Lines(),
		Count:    s.store.Count(),
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    subtotal.Add(shipping),
		Currency: s.app.cfg.Catalog.Currency,
	}
}

// ToggleWishlist flips the product's wishlist membership and reports the new state. Ids that are
// not in the catalog are toggled silently.
func (s *Session) ToggleWishlist(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := s.store.ToggleWishlist(ctx, productID)
	if p, ok := s.app.Find(productID); ok {
		if added {
			s.notes.Success(fmt.Sprintf(msgAddedToWishlist, p.Name))
		} else {
			s.notes.Info(fmt.Sprintf(msgRemovedFromWish, p.Name))
		}
	}
	return added
}

// WishlistProducts resolves wishlisted ids against the catalog, skipping unknown ones.
func (s *Session) WishlistProducts() []ProductView {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.store.Wishlist()
	out := make([]ProductView, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.app.Find(id); ok {
			out = append(out, s.productView(p))
		}
	}
	return out
}
