package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/catalog_api/internal/service"
	"github.com/GTDGit/catalog_api/internal/utils"
)

// TagHandler handles tag HTTP endpoints.
type TagHandler struct {
	tagService *service.TagService
}

// NewTagHandler constructs a TagHandler.
func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// ListTags handles GET /api/tags
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tagService.ListTags(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list tags failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding tag")
		return
	}
	utils.Success(c, 200, "Tags retrieved", tags)
}

// GetTag handles GET /api/tags/:id
func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := paramID(c, "Invalid tag id.")
	if !ok {
		return
	}

	tag, err := h.tagService.GetTag(c.Request.Context(), id)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Tag not found.")
			return
		}
		log.Error().Err(err).Int("tag_id", id).Msg("get tag failed")
		utils.Error(c, 500, utils.CodeInternalError, "Error finding tag")
		return
	}
	utils.Success(c, 200, "Tag retrieved", tag)
}

// CreateTag handles POST /api/tags
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req service.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	tag, err := h.tagService.CreateTag(c.Request.Context(), &req)
	if err != nil {
		log.Warn().Err(err).Msg("create tag rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 201, "Tag created successfully", tag)
}

// UpdateTag handles PUT /api/tags/:id
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := paramID(c, "Invalid tag id.")
	if !ok {
		return
	}

	var req service.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}

	tag, err := h.tagService.UpdateTag(c.Request.Context(), id, &req)
	if err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Tag not found.")
			return
		}
		log.Warn().Err(err).Int("tag_id", id).Msg("update tag rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Tag updated successfully", tag)
}

// DeleteTag handles DELETE /api/tags/:id
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := paramID(c, "Invalid tag id.")
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(c.Request.Context(), id); err != nil {
		if utils.IsNotFound(err) {
			utils.Error(c, 404, utils.CodeNotFound, "Tag not found.")
			return
		}
		log.Warn().Err(err).Int("tag_id", id).Msg("delete tag rejected")
		utils.Error(c, 400, utils.CodeInvalidRequest, err.Error())
		return
	}
	utils.Success(c, 200, "Tag successfully deleted.", nil)
}
