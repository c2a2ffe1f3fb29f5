// Package handlers exposes the storefront over HTTP with gin.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/storefront"
)

// NewRouter builds the engine with every storefront route registered.
func NewRouter(app *storefront.App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterRoutes(r, app)
	return r
}

// RegisterRoutes registers the storefront API on r.
func RegisterRoutes(r gin.IRouter, app *storefront.App) {
	cfg := app.Config()

	r.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"currency": cfg.Catalog.Currency,
			"settings": gin.H{
				"cartPersistence":     cfg.Settings.CartPersistence,
				"wishlistPersistence": cfg.Settings.WishlistPersistence,
				"animationsEnabled":   cfg.Settings.AnimationsEnabled,
				"lazyLoading":         cfg.Settings.LazyLoading,
			},
			"apiEndpoints": gin.H{
				"newsletter": cfg.APIEndpoints.Newsletter,
				"contact":    cfg.APIEndpoints.Contact,
			},
		})
	})

	r.GET("/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"categories": app.Catalog().Categories()})
	})

	sg := r.Group("/")
	sg.Use(sessionMiddleware(app))

	registerCatalogRoutes(sg)
	registerCartRoutes(sg, app)
	registerCheckoutRoutes(sg, app)
	registerFormRoutes(sg, app)

	sg.GET("/notifications", func(c *gin.Context) {
		respond(c, http.StatusOK, sessionFrom(c), nil)
	})
}
