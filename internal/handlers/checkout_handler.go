package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/checkout"
	"github.com/imrishuroy/go-storefront/internal/storefront"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

func registerCheckoutRoutes(r gin.IRouter, app *storefront.App) {
	currency := app.Config().Catalog.Currency

	r.GET("/checkout", func(c *gin.Context) {
		s := sessionFrom(c)
		respond(c, http.StatusOK, s, gin.H{"checkout": s.CheckoutState()})
	})

	r.POST("/checkout", func(c *gin.Context) {
		s := sessionFrom(c)
		view, err := s.OpenCheckout()
		if err != nil {
			fail(c, s, err, gin.H{"checkout": view})
			return
		}
		respond(c, http.StatusOK, s, gin.H{"checkout": view})
	})

	r.POST("/checkout/contact", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.ContactStep
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		view, err := s.SubmitContactStep(req)
		if err != nil {
			fail(c, s, err, gin.H{"checkout": view})
			return
		}
		respond(c, http.StatusOK, s, gin.H{"checkout": view})
	})

	r.POST("/checkout/shipping", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.ShippingStep
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		view, err := s.SubmitShippingStep(req)
		if err != nil {
			fail(c, s, err, gin.H{"checkout": view})
			return
		}
		respond(c, http.StatusOK, s, gin.H{"checkout": view})
	})

	r.POST("/checkout/back", func(c *gin.Context) {
		s := sessionFrom(c)
		respond(c, http.StatusOK, s, gin.H{"checkout": s.PreviousStep()})
	})

	r.POST("/checkout/submit", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.PaymentStep
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		order, err := s.SubmitOrder(c.Request.Context(), req)
		if err != nil {
			fail(c, s, err, gin.H{"checkout": s.CheckoutState()})
			return
		}
		respond(c, http.StatusCreated, s, gin.H{
			"order": order,
			"confirmation": gin.H{
				"orderId":  order.ID,
				"tracking": order.Tracking,
				"total":    order.Total.StringFixed(2) + " " + currency,
				"items":    len(order.Items),
			},
		})
	})

	r.DELETE("/checkout", func(c *gin.Context) {
		s := sessionFrom(c)
		var view storefront.CheckoutView
		if s.CheckoutState().Phase == checkout.PhaseSuccess {
			view = s.CloseSuccess()
		} else {
			view = s.CloseCheckout()
		}
		respond(c, http.StatusOK, s, gin.H{"checkout": view})
	})
}
