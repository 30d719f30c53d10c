package handlers

import (
	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/services"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagService services.TagService
	http       *helper.HTTPHelper
}

func NewTagHandler(tagService services.TagService, http *helper.HTTPHelper) *TagHandler {
	return &TagHandler{tagService: tagService, http: http}
}

// GetTags ...
// @Summary List tags
// @Tags Tag
// @Produce json
// @Success 200 {object} helper.Response
// @Router /tags [get]
func (h *TagHandler) GetTags(c *gin.Context) {
	tags, err := h.tagService.List(c.Request.Context())
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", gin.H{"items": tags})
}

// GetPopularTags ...
// @Summary Popular tags
// @Description Tags ordered by the number of articles carrying them.
// @Tags Tag
// @Produce json
// @Param limit query int false "number of tags" default(20)
// @Success 200 {object} helper.Response{data=models.PopularTagList}
// @Router /tags/popular [get]
func (h *TagHandler) GetPopularTags(c *gin.Context) {
	var params models.PopularTagParams
	if !bindQuery(c, h.http, &params) {
		return
	}

	tags, err := h.tagService.Popular(c.Request.Context(), params.Limit)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", models.PopularTagList{Items: tags})
}

// CreateTag ...
// @Summary Create tag
// @Tags Tag
// @Accept json
// @Produce json
// @Param tag body models.CreateTagRequest true "tag"
// @Success 201 {object} helper.Response{data=models.TagItem}
// @Failure 400 {object} helper.Response
// @Router /tags [post]
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req models.CreateTagRequest
	if !bindJSON(c, h.http, &req) {
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendCreated(c, "tag created", tag)
}
