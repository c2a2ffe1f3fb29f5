package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/catalog"
)

func registerCatalogRoutes(r gin.IRouter) {
	r.GET("/products", func(c *gin.Context) {
		s := sessionFrom(c)
		category := c.DefaultQuery("category", catalog.AllCategoryID)
		respond(c, http.StatusOK, s, gin.H{
			"category": category,
			"products": s.Products(category),
		})
	})

	r.GET("/products/:id", func(c *gin.Context) {
		s := sessionFrom(c)
		p, err := s.Product(c.Param("id"))
		if err != nil {
			fail(c, s, err, nil)
			return
		}
		respond(c, http.StatusOK, s, gin.H{"product": p})
	})

	r.POST("/catalog/reload", func(c *gin.Context) {
		s := sessionFrom(c)
		if err := s.ReloadCatalog(c.Request.Context()); err != nil {
			respond(c, http.StatusBadGateway, s, gin.H{"error": "catalog_unavailable", "detail": err.Error()})
			return
		}
		respond(c, http.StatusOK, s, gin.H{"products": len(s.Products(catalog.AllCategoryID))})
	})
}
