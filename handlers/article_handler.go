package handlers

import (
	"autoinfo-cms/helper"
	"autoinfo-cms/models"
	"autoinfo-cms/services"

	"github.com/gin-gonic/gin"
)

type ArticleHandler struct {
	articleService services.ArticleService
	http           *helper.HTTPHelper
}

func NewArticleHandler(articleService services.ArticleService, http *helper.HTTPHelper) *ArticleHandler {
	return &ArticleHandler{articleService: articleService, http: http}
}

// GetArticles lists articles.
// @Summary List articles
// @Tags Article
// @Produce json
// @Param page query int false "page number" default(1)
// @Param page_size query int false "page size" default(20)
// @Param category query string false "category slug"
// @Param tag query string false "tag slug"
// @Param status query string false "draft or published" default(published)
// @Success 200 {object} models.PageResult
// @Router /articles [get]
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	var params models.ArticleListParams
	if !bindQuery(c, h.http, &params) {
		return
	}

	page, err := h.articleService.List(c.Request.Context(), params)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendPage(c, *page)
}

// GetArticle returns one article by id or slug and counts the view.
// @Summary Get article
// @Tags Article
// @Produce json
// @Param id_or_slug path string true "article id or slug"
// @Success 200 {object} helper.Response{data=models.ArticleDetail}
// @Failure 404 {object} helper.Response
// @Router /articles/{id_or_slug} [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	article, err := h.articleService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", article)
}

// CreateArticle ...
// @Summary Create article
// @Tags Article
// @Accept json
// @Produce json
// @Param article body models.CreateArticleRequest true "article"
// @Success 201 {object} helper.Response{data=models.ArticleDetail}
// @Failure 400 {object} helper.Response
// @Router /articles [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if !bindJSON(c, h.http, &req) {
		return
	}

	article, err := h.articleService.Create(c.Request.Context(), req)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendCreated(c, "article created", article)
}

// UpdateArticle ...
// @Summary Update article
// @Description Only the supplied fields change. tags and media_items replace the existing sets.
// @Tags Article
// @Accept json
// @Produce json
// @Param id path int true "article id"
// @Param article body models.UpdateArticleRequest true "fields to change"
// @Success 200 {object} helper.Response{data=models.ArticleDetail}
// @Failure 400 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /articles/{id} [put]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c, h.http, "id")
	if !ok {
		return
	}

	var req models.UpdateArticleRequest
	if !bindJSON(c, h.http, &req) {
		return
	}

	article, err := h.articleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "article updated", article)
}

// DeleteArticle ...
// @Summary Delete article
// @Tags Article
// @Produce json
// @Param id path int true "article id"
// @Success 200 {object} helper.Response
// @Failure 404 {object} helper.Response
// @Router /articles/{id} [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c, h.http, "id")
	if !ok {
		return
	}

	if err := h.articleService.Delete(c.Request.Context(), id); err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "article deleted", nil)
}

// Search ...
// @Summary Search articles
// @Description Case-insensitive substring match on title and content of published articles.
// @Tags Search
// @Produce json
// @Param q query string true "keyword, at least 2 characters"
// @Param page query int false "page number" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} helper.Response{data=models.SearchResult}
// @Failure 400 {object} helper.Response
// @Router /search [get]
func (h *ArticleHandler) Search(c *gin.Context) {
	var params models.SearchParams
	if !bindQuery(c, h.http, &params) {
		return
	}

	result, err := h.articleService.Search(c.Request.Context(), params)
	if err != nil {
		h.http.SendError(c, err)
		return
	}

	h.http.SendSuccess(c, "", result)
}
