package handlers

import (
	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/services"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categoryService services.CategoryService
	http            *helper.HTTPHelper
}

func NewCategoryHandler(categoryService services.CategoryService, http *helper.HTTPHelper) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, http: http}
}

// GetCategories ...
// @Summary List categories
// @Tags Category
// @Produce json
// @Success 200 {object} helper.Response
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", gin.H{"items": categories})
}

// GetCategory ...
// @Summary Get category
// @Tags Category
// @Produce json
// @Param id_or_slug path string true "category id or slug"
// @Success 200 {object} helper.Response{data=models.CategoryItem}
// @Failure 404 {object} helper.Response
// @Router /categories/{id_or_slug} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categoryService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", category)
}

// CreateCategory ...
// @Summary Create category
// @Tags Category
// @Accept json
// @Produce json
// @Param category body models.CreateCategoryRequest true "category"
// @Success 201 {object} helper.Response{data=models.CategoryItem}
// @Failure 400 {object} helper.Response
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if !bindJSON(c, h.http, &req) {
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendCreated(c, "category created", category)
}

// UpdateCategory ...
// @Summary Update category
// @Tags Category
// @Accept json
// @Produce json
// @Param id path int true "category id"
// @Param category body models.UpdateCategoryRequest true "fields to change"
// @Success 200 {object} helper.Response{data=models.CategoryItem}
// @Failure 400 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c, h.http, "id")
	if !ok {
		return
	}

	var req models.UpdateCategoryRequest
	if !bindJSON(c, h.http, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "category updated", category)
}

// DeleteCategory ...
// @Summary Delete category
// @Description Articles of the category are kept with no category.
// @Tags Category
// @Produce json
// @Param id path int true "category id"
// @Success 200 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c, h.http, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "category deleted", nil)
}
