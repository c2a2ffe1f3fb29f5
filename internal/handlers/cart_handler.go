package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/storefront"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

func registerCartRoutes(r gin.IRouter, app *storefront.App) {
	v := app.Validator()

	r.GET("/cart", func(c *gin.Context) {
		s := sessionFrom(c)
		respond(c, http.StatusOK, s, gin.H{"cart": s.CartSummary()})
	})

	r.POST("/cart/items", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.AddItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		opts := cart.AddOptions{Quantity: req.Quantity, Size: cart.Some(req.Size), Color: cart.Some(req.Color)}
		if err := s.AddToCart(c.Request.Context(), req.ProductID, opts); err != nil {
			fail(c, s, err, gin.H{"cart": s.CartSummary()})
			return
		}
		respond(c, http.StatusCreated, s, gin.H{"cart": s.CartSummary()})
	})

	r.PUT("/cart/items/:key", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.QuantityRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		s.UpdateQuantity(c.Request.Context(), c.Param("key"), *req.Quantity)
		respond(c, http.StatusOK, s, gin.H{"cart": s.CartSummary()})
	})

	r.POST("/cart/items/:key/adjust", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.AdjustRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		s.ChangeQuantity(c.Request.Context(), c.Param("key"), req.Delta)
		respond(c, http.StatusOK, s, gin.H{"cart": s.CartSummary()})
	})

	r.DELETE("/cart/items/:key", func(c *gin.Context) {
		s := sessionFrom(c)
		s.RemoveItem(c.Request.Context(), c.Param("key"))
		respond(c, http.StatusOK, s, gin.H{"cart": s.CartSummary()})
	})

	r.DELETE("/cart", func(c *gin.Context) {
		s := sessionFrom(c)
		s.ClearCart(c.Request.Context())
		respond(c, http.StatusOK, s, gin.H{"cart": s.CartSummary()})
	})

	r.GET("/wishlist", func(c *gin.Context) {
		s := sessionFrom(c)
		respond(c, http.StatusOK, s, gin.H{"products": s.WishlistProducts()})
	})

	r.POST("/wishlist/:productId/toggle", func(c *gin.Context) {
		s := sessionFrom(c)
		added := s.ToggleWishlist(c.Request.Context(), c.Param("productId"))
		respond(c, http.StatusOK, s, gin.H{"productId": c.Param("productId"), "wishlisted": added})
	})
}
