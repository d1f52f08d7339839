package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/service"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// ProductHandler handles product HTTP endpoints.
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list products failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding product")
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// GetProduct handles GET /api/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := paramID(c, "Invalid product id.")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Product not found.")
			return
		}
		log.Error().Err(err).Int("product_id", id).Msg("get product failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding product")
		return
	}
	utils.Success(c, 200, "Product retrieved", product)
}

// CreateProduct handles POST /api/products
//
// When tag ids are submitted the response carries the created join rows,
// otherwise the created product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Msg("create product rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	if len(req.TagIDs) > 0 {
		utils.Success(c, 201, "Product created successfully", result.ProductTags)
		return
	}
	utils.Success(c, 201, "Product created successfully", result.Product)
}

// UpdateProduct handles PUT /api/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := paramID(c, "Invalid product id.")
	if !ok {
		return
	}

	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	result, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Product not found.")
			return
		}
		log.Warn().Err(err).Int("product_id", id).Msg("update product rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Product updated successfully", result)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := paramID(c, "Invalid product id.")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Product not found.")
			return
		}
		log.Warn().Err(err).Int("product_id", id).Msg("delete product rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Product successfully deleted.", nil)
}
