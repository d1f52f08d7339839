package handler

import "github.com/gin-gonic/gin"

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *HealthHandler
	Events   *SSEHandler
	Category *CategoryHandler
	Product  *ProductHandler
	Tag      *TagHandler
}

// RegisterRoutes mounts every catalog route under /api.
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	api := router.Group("/api")

	api.GET("/health", h.Health.GetHealth)
	if h.Events != nil {
		api.GET("/events", h.Events.Stream)
	}

	categories := api.Group("/categories")
	{
		categories.GET("", h.Category.ListCategories)
		categories.GET("/:id", h.Category.GetCategory)
		categories.POST("", h.Category.CreateCategory)
		categories.PUT("/:id", h.Category.UpdateCategory)
		categories.DELETE("/:id", h.Category.DeleteCategory)
	}

	products := api.Group("/products")
	{
		products.GET("", h.Product.ListProducts)
		products.GET("/:id", h.Product.GetProduct)
		products.POST("", h.Product.CreateProduct)
		products.PUT("/:id", h.Product.UpdateProduct)
		products.DELETE("/:id", h.Product.DeleteProduct)
	}

	tags := api.Group("/tags")
	{
		tags.GET("", h.Tag.ListTags)
		tags.GET("/:id", h.Tag.GetTag)
		tags.POST("", h.Tag.CreateTag)
		tags.PUT("/:id", h.Tag.UpdateTag)
		tags.DELETE("/:id", h.Tag.DeleteTag)
	}
}
