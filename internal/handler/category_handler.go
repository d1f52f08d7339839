package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/service"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// CategoryHandler handles category HTTP endpoints.
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list categories failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding category")
		return
	}
	utils.Success(c, 200, "Categories retrieved", categories)
}

// GetCategory handles GET /api/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "Invalid category id.")
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Category not found.")
			return
		}
		log.Error().Err(err).Int("category_id", id).Msg("get category failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding category")
		return
	}
	utils.Success(c, 200, "Category retrieved", category)
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Msg("create category rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 201, "Category created successfully", category)
}

// UpdateCategory handles PUT /api/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "Invalid category id.")
	if !ok {
		return
	}

	var req service.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Category not found.")
			return
		}
		log.Warn().Err(err).Int("category_id", id).Msg("update category rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /api/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "Invalid category id.")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Category not found.")
			return
		}
		log.Warn().Err(err).Int("category_id", id).Msg("delete category rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Category successfully deleted.", nil)
}
