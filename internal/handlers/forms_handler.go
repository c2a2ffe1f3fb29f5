package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/storefront"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

func registerFormRoutes(r gin.IRouter, app *storefront.App) {
	paths := app.Config().APIEndpoints

	r.POST(paths.Newsletter, func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.NewsletterRequest
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		if err := s.SubscribeNewsletter(c.Request.Context(), req); err != nil {
			fail(c, s, err, nil)
			return
		}
		respond(c, http.StatusOK, s, gin.H{"status": "subscribed"})
	})

	r.POST(paths.Contact, func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.ContactMessageRequest
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		if err := s.SendContactMessage(c.Request.Context(), req); err != nil {
			fail(c, s, err, nil)
			return
		}
		respond(c, http.StatusOK, s, gin.H{"status": "sent"})
	})

	r.POST("/returns", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.ReturnRequest
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		record, err := s.SubmitReturn(c.Request.Context(), req)
		if err != nil {
			fail(c, s, err, nil)
			return
		}
		respond(c, http.StatusAccepted, s, gin.H{"return": record})
	})

	r.POST("/exchanges", func(c *gin.Context) {
		s := sessionFrom(c)
		var req validation.ExchangeRequest
		if err := validation.Bind(c, &req); err != nil {
			return
		}
		record, err := s.SubmitExchange(c.Request.Context(), req)
		if err != nil {
			fail(c, s, err, nil)
			return
		}
		respond(c, http.StatusAccepted, s, gin.H{"exchange": record})
	})
}
