package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"autoinfo-cms/config"
	"autoinfo-cms/handlers"
	"autoinfo-cms/models"
	"autoinfo-cms/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type validationData struct {
	Errors map[string][]string `json:"errors"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.db = testutils.SetupTestDB(suite.T())
	suite.router = handlers.SetupRouter(handlers.Deps{
		Config: &config.AppConfig{
			App:        config.AppInfo{Name: "Auto Info API", Version: "1.0.0"},
			CORS:       config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
			Pagination: config.PaginationConfig{DefaultPageSize: 20, MaxPageSize: 100},
			Content:    config.ContentConfig{SanitizeHTML: true, SummaryLength: 120},
		},
		DB:  suite.db,
		Log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (suite *IntegrationTestSuite) request(method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		switch p := payload.(type) {
		case string:
			body = bytes.NewBufferString(p)
		default:
			raw, err := json.Marshal(p)
			suite.Require().NoError(err)
			body = bytes.NewBuffer(raw)
		}
	}

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// call performs the request, checks the status and decodes the envelope data into out.
func (suite *IntegrationTestSuite) call(method, path string, payload interface{}, status int, out interface{}) envelope {
	w := suite.request(method, path, payload)
	suite.Require().Equal(status, w.Code, w.Body.String())

	var env envelope
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	if out != nil {
		suite.Require().NoError(json.Unmarshal(env.Data, out))
	}
	return env
}

func (suite *IntegrationTestSuite) createArticle(payload map[string]interface{}) models.ArticleDetail {
	var article models.ArticleDetail
	suite.call(http.MethodPost, "/api/articles", payload, http.StatusCreated, &article)
	return article
}

func (suite *IntegrationTestSuite) TestRootAndHealth() {
	env := suite.call(http.MethodGet, "/", nil, http.StatusOK, nil)
	suite.Equal(0, env.Code)
	suite.Equal("Auto Info API is running", env.Message)
	suite.JSONEq(`{"version":"1.0.0"}`, string(env.Data))

	env = suite.call(http.MethodGet, "/api/health", nil, http.StatusOK, nil)
	suite.Equal("OK", env.Message)
	suite.JSONEq(`{"status":"healthy"}`, string(env.Data))
}

func (suite *IntegrationTestSuite) TestArticleLifecycle() {
	created := suite.createArticle(map[string]interface{}{
		"title":   "生命周期测试文章",
		"content": "<p>内容</p>",
		"status":  "published",
		"tags":    []string{"测试", "CRUD"},
	})
	suite.NotZero(created.ID)
	suite.Equal("生命周期测试文章", created.Slug)
	suite.Len(created.Tags, 2)
	suite.EqualValues(0, created.Views)

	var detail models.ArticleDetail
	suite.call(http.MethodGet, fmt.Sprintf("/api/articles/%d", created.ID), nil, http.StatusOK, &detail)
	suite.EqualValues(1, detail.Views)

	suite.call(http.MethodGet, "/api/articles/"+url.PathEscape(created.Slug), nil, http.StatusOK, &detail)
	suite.EqualValues(2, detail.Views)

	var updated models.ArticleDetail
	env := suite.call(http.MethodPut, fmt.Sprintf("/api/articles/%d", created.ID),
		map[string]interface{}{"title": "更新后的标题"}, http.StatusOK, &updated)
	suite.Equal("article updated", env.Message)
	suite.Equal("更新后的标题", updated.Title)
	suite.Equal(created.Slug, updated.Slug)
	suite.Len(updated.Tags, 2)
	suite.EqualValues(2, updated.Views)

	suite.call(http.MethodDelete, fmt.Sprintf("/api/articles/%d", created.ID), nil, http.StatusOK, nil)
	suite.call(http.MethodGet, fmt.Sprintf("/api/articles/%d", created.ID), nil, http.StatusNotFound, nil)
}

func (suite *IntegrationTestSuite) TestCreateArticle_DerivedSlugSuffix() {
	first := suite.createArticle(map[string]interface{}{"title": "Hello World", "content": "a"})
	second := suite.createArticle(map[string]interface{}{"title": "Hello World", "content": "b"})
	third := suite.createArticle(map[string]interface{}{"title": "Hello World", "content": "c"})

	suite.Equal("hello-world", first.Slug)
	suite.Equal("hello-world-1", second.Slug)
	suite.Equal("hello-world-2", third.Slug)
}

func (suite *IntegrationTestSuite) TestCreateArticle_LongTitleSlugFitsColumn() {
	title := strings.Repeat("a", 255)
	first := suite.createArticle(map[string]interface{}{"title": title, "content": "a"})
	second := suite.createArticle(map[string]interface{}{"title": title, "content": "b"})

	suite.Equal(title, first.Slug)
	suite.Equal(255, utf8.RuneCountInString(second.Slug))
	suite.True(strings.HasSuffix(second.Slug, "-1"))
	suite.NotEqual(first.Slug, second.Slug)
}

func (suite *IntegrationTestSuite) TestCreateArticle_TagsSharingASlug() {
	created := suite.createArticle(map[string]interface{}{
		"title":   "Gophers",
		"content": "a",
		"tags":    []string{"Go", "GO", "go."},
	})

	suite.Require().Len(created.Tags, 3)
	slugs := map[string]bool{}
	for _, tag := range created.Tags {
		suite.True(strings.HasPrefix(tag.Slug, "go"), tag.Slug)
		slugs[tag.Slug] = true
	}
	suite.Len(slugs, 3)
	suite.True(slugs["go"])
}

func (suite *IntegrationTestSuite) TestCreateArticle_ContentEmptyAfterSanitising() {
	var data validationData
	suite.call(http.MethodPost, "/api/articles",
		map[string]interface{}{"title": "t", "content": "<script>alert(1)</script>"}, http.StatusBadRequest, &data)
	suite.Contains(data.Errors, "content")

	created := suite.createArticle(map[string]interface{}{"title": "t", "content": "kept"})
	data = validationData{}
	suite.call(http.MethodPut, fmt.Sprintf("/api/articles/%d", created.ID),
		map[string]interface{}{"content": "<script>x</script>"}, http.StatusBadRequest, &data)
	suite.Contains(data.Errors, "content")

	var got models.ArticleDetail
	suite.call(http.MethodGet, fmt.Sprintf("/api/articles/%d", created.ID), nil, http.StatusOK, &got)
	suite.Equal("kept", got.Content)
}

func (suite *IntegrationTestSuite) TestCreateArticle_ExplicitSlugConflict() {
	suite.createArticle(map[string]interface{}{"title": "a", "slug": "taken", "content": "a"})

	env := suite.call(http.MethodPost, "/api/articles",
		map[string]interface{}{"title": "b", "slug": "taken", "content": "b"}, http.StatusBadRequest, nil)
	suite.Equal(http.StatusBadRequest, env.Code)
	suite.Equal("Slug 'taken' already exists", env.Message)
}

func (suite *IntegrationTestSuite) TestCreateArticle_Defaults() {
	created := suite.createArticle(map[string]interface{}{
		"title":   "Defaults",
		"content": "<p>Some <b>bold</b> text</p><script>alert(1)</script>",
	})

	suite.Equal(models.StatusPublished, created.Status)
	suite.True(created.IsOriginal)
	suite.Equal(models.DefaultAuthorName, created.AuthorName)
	suite.NotNil(created.PublishedAt)
	suite.NotContains(created.Content, "script")
	suite.Require().NotNil(created.Summary)
	suite.Equal("Some bold text", *created.Summary)
}

func (suite *IntegrationTestSuite) TestCreateArticle_ValidationErrors() {
	var data validationData
	env := suite.call(http.MethodPost, "/api/articles", map[string]interface{}{
		"status":      "archived",
		"media_items": []map[string]interface{}{{"type": "audio"}},
	}, http.StatusBadRequest, &data)

	suite.Equal("validation failed", env.Message)
	suite.Contains(data.Errors, "title")
	suite.Contains(data.Errors, "content")
	suite.Contains(data.Errors, "status")
	suite.Contains(data.Errors, "media_items[0].type")
	suite.Contains(data.Errors, "media_items[0].url")
}

func (suite *IntegrationTestSuite) TestCreateArticle_MalformedJSON() {
	w := suite.request(http.MethodPost, "/api/articles", `{"title":`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestCreateArticle_UnknownCategory() {
	env := suite.call(http.MethodPost, "/api/articles",
		map[string]interface{}{"title": "t", "content": "c", "category_id": 999}, http.StatusBadRequest, nil)
	suite.Equal("category not found", env.Message)

	var count int64
	suite.db.Model(&models.Article{}).Count(&count)
	suite.Zero(count)
}

func (suite *IntegrationTestSuite) TestListArticles_Pagination() {
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		published := base.Add(time.Duration(i) * time.Minute)
		testutils.CreateTestArticle(suite.db, testutils.WithPublishedAt(&published))
	}

	w := suite.request(http.MethodGet, "/api/articles?page=3&page_size=5", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var page models.PageResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Len(page.Items, 5)
	suite.EqualValues(25, page.Total)
	suite.Equal(3, page.Page)
	suite.Equal(5, page.PageSize)
	suite.Equal(5, page.TotalPages)

	w = suite.request(http.MethodGet, "/api/articles?page=1&page_size=1", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Require().Len(page.Items, 1)
	suite.WithinDuration(base.Add(24*time.Minute), *page.Items[0].PublishedAt, time.Second)
}

func (suite *IntegrationTestSuite) TestListArticles_HugePage() {
	testutils.CreateTestArticle(suite.db)

	w := suite.request(http.MethodGet, "/api/articles?page=9223372036854775807&page_size=5", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var page models.PageResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
	suite.Empty(page.Items)
	suite.EqualValues(1, page.Total)
}

func (suite *IntegrationTestSuite) TestListArticles_StatusAndFilters() {
	ev := testutils.CreateTestCategory(suite.db, testutils.WithCategoryName("EV", "ev"))
	tesla := testutils.CreateTestTag(suite.db, "Tesla", "tesla")

	testutils.CreateTestArticle(suite.db, testutils.WithCategory(ev), testutils.WithTags(*tesla))
	testutils.CreateTestArticle(suite.db, testutils.WithCategory(ev))
	testutils.CreateTestArticle(suite.db)
	testutils.CreateTestArticle(suite.db, testutils.WithStatus(models.StatusDraft), testutils.WithPublishedAt(nil))

	cases := map[string]int64{
		"/api/articles":                       3,
		"/api/articles?status=draft":          1,
		"/api/articles?category=ev":           2,
		"/api/articles?tag=tesla":             1,
		"/api/articles?category=ev&tag=tesla": 1,
		"/api/articles?category=missing":      0,
	}
	for path, want := range cases {
		w := suite.request(http.MethodGet, path, nil)
		suite.Require().Equal(http.StatusOK, w.Code, path)

		var page models.PageResult
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &page))
		suite.Equal(want, page.Total, path)
		suite.Len(page.Items, int(want), path)
	}

	w := suite.request(http.MethodGet, "/api/articles?status=archived", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestGetArticle_NotFound() {
	env := suite.call(http.MethodGet, "/api/articles/does-not-exist", nil, http.StatusNotFound, nil)
	suite.Equal(http.StatusNotFound, env.Code)
	suite.Equal("article not found", env.Message)
	suite.Equal("null", string(env.Data))
}

func (suite *IntegrationTestSuite) TestUpdateArticle() {
	ev := testutils.CreateTestCategory(suite.db, testutils.WithCategoryName("EV", "ev"))
	draft := suite.createArticle(map[string]interface{}{
		"title":       "Draft",
		"content":     "c",
		"status":      "draft",
		"category_id": ev.ID,
		"tags":        []string{"old"},
		"media_items": []map[string]interface{}{{"url": "a.jpg"}, {"url": "b.jpg", "order_index": 1}},
	})
	suite.Equal(models.StatusDraft, draft.Status)
	suite.Require().NotNil(draft.Category)
	suite.Len(draft.MediaItems, 2)

	path := fmt.Sprintf("/api/articles/%d", draft.ID)

	var updated models.ArticleDetail
	suite.call(http.MethodPut, path, map[string]interface{}{
		"status":      "published",
		"category_id": nil,
		"tags":        []string{"new", "fresh"},
		"media_items": []map[string]interface{}{{"type": "video", "url": "c.mp4"}},
	}, http.StatusOK, &updated)

	suite.Equal(models.StatusPublished, updated.Status)
	suite.NotNil(updated.PublishedAt)
	suite.Nil(updated.Category)
	suite.Require().Len(updated.Tags, 2)
	suite.Require().Len(updated.MediaItems, 1)
	suite.Equal(models.MediaVideo, updated.MediaItems[0].Type)
	suite.Equal("Draft", updated.Title)

	var mediaCount int64
	suite.db.Model(&models.Media{}).Count(&mediaCount)
	suite.EqualValues(1, mediaCount)
}

func (suite *IntegrationTestSuite) TestUpdateArticle_Errors() {
	suite.call(http.MethodPut, "/api/articles/999", map[string]interface{}{"title": "x"}, http.StatusNotFound, nil)

	var data validationData
	suite.call(http.MethodPut, "/api/articles/abc", map[string]interface{}{"title": "x"}, http.StatusBadRequest, &data)
	suite.Contains(data.Errors, "id")

	a := suite.createArticle(map[string]interface{}{"title": "a", "content": "a"})
	b := suite.createArticle(map[string]interface{}{"title": "b", "content": "b"})
	env := suite.call(http.MethodPut, fmt.Sprintf("/api/articles/%d", b.ID),
		map[string]interface{}{"slug": a.Slug}, http.StatusBadRequest, nil)
	suite.Equal(fmt.Sprintf("Slug '%s' already exists", a.Slug), env.Message)
}

func (suite *IntegrationTestSuite) TestDeleteArticle_CascadesMedia() {
	tag := testutils.CreateTestTag(suite.db, "EV", "ev")
	article := testutils.CreateTestArticle(suite.db,
		testutils.WithTags(*tag),
		testutils.WithMedia(models.Media{Type: models.MediaImage, URL: "a.jpg"}, models.Media{Type: models.MediaImage, URL: "b.jpg"}),
	)

	env := suite.call(http.MethodDelete, fmt.Sprintf("/api/articles/%d", article.ID), nil, http.StatusOK, nil)
	suite.Equal("article deleted", env.Message)

	var mediaCount, joinCount, tagCount int64
	suite.db.Model(&models.Media{}).Count(&mediaCount)
	suite.db.Table("article_tags").Count(&joinCount)
	suite.db.Model(&models.Tag{}).Count(&tagCount)
	suite.Zero(mediaCount)
	suite.Zero(joinCount)
	suite.EqualValues(1, tagCount)

	suite.call(http.MethodDelete, fmt.Sprintf("/api/articles/%d", article.ID), nil, http.StatusNotFound, nil)
}

func (suite *IntegrationTestSuite) TestCategories() {
	var created models.CategoryItem
	env := suite.call(http.MethodPost, "/api/categories",
		map[string]interface{}{"name": "Electric Cars", "icon": "bolt"}, http.StatusCreated, &created)
	suite.Equal("category created", env.Message)
	suite.Equal("electric-cars", created.Slug)

	env = suite.call(http.MethodPost, "/api/categories",
		map[string]interface{}{"name": "Electric Cars"}, http.StatusBadRequest, nil)
	suite.Equal(http.StatusBadRequest, env.Code)

	suite.call(http.MethodPost, "/api/categories", map[string]interface{}{"name": "Trucks"}, http.StatusCreated, nil)

	var list struct {
		Items []models.CategoryItem `json:"items"`
	}
	suite.call(http.MethodGet, "/api/categories", nil, http.StatusOK, &list)
	suite.Require().Len(list.Items, 2)
	suite.Equal("Electric Cars", list.Items[0].Name)
	suite.Equal("Trucks", list.Items[1].Name)

	testutils.CreateTestArticle(suite.db, testutils.WithCategory(&models.Category{ID: created.ID}))
	testutils.CreateTestArticle(suite.db, testutils.WithCategory(&models.Category{ID: created.ID}), testutils.WithStatus(models.StatusDraft))

	var single models.CategoryItem
	suite.call(http.MethodGet, "/api/categories/electric-cars", nil, http.StatusOK, &single)
	suite.Require().NotNil(single.ArticleCount)
	suite.EqualValues(1, *single.ArticleCount)

	var updated models.CategoryItem
	suite.call(http.MethodPut, fmt.Sprintf("/api/categories/%d", created.ID),
		map[string]interface{}{"description": "Battery powered"}, http.StatusOK, &updated)
	suite.Equal("Battery powered", *updated.Description)
	suite.Equal("Electric Cars", updated.Name)

	suite.call(http.MethodPut, fmt.Sprintf("/api/categories/%d", created.ID),
		map[string]interface{}{"name": "Trucks"}, http.StatusBadRequest, nil)
	suite.call(http.MethodGet, "/api/categories/unknown", nil, http.StatusNotFound, nil)
}

func (suite *IntegrationTestSuite) TestDeleteCategory_DetachesArticles() {
	category := testutils.CreateTestCategory(suite.db)
	article := testutils.CreateTestArticle(suite.db, testutils.WithCategory(category))

	suite.call(http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil, http.StatusOK, nil)

	var detail models.ArticleDetail
	suite.call(http.MethodGet, fmt.Sprintf("/api/articles/%d", article.ID), nil, http.StatusOK, &detail)
	suite.Nil(detail.Category)

	suite.call(http.MethodDelete, fmt.Sprintf("/api/categories/%d", category.ID), nil, http.StatusNotFound, nil)
}

func (suite *IntegrationTestSuite) TestTags() {
	var created models.TagItem
	suite.call(http.MethodPost, "/api/tags", map[string]interface{}{"name": "Self Driving"}, http.StatusCreated, &created)
	suite.Equal("self-driving", created.Slug)

	env := suite.call(http.MethodPost, "/api/tags", map[string]interface{}{"name": "Self Driving"}, http.StatusBadRequest, nil)
	suite.Equal("tag 'Self Driving' already exists", env.Message)

	suite.createArticle(map[string]interface{}{"title": "a", "content": "a", "tags": []string{"Battery", "Self Driving"}})
	suite.createArticle(map[string]interface{}{"title": "b", "content": "b", "tags": []string{"Battery"}})

	var list struct {
		Items []models.TagItem `json:"items"`
	}
	suite.call(http.MethodGet, "/api/tags", nil, http.StatusOK, &list)
	suite.Require().Len(list.Items, 2)
	suite.Equal("Battery", list.Items[0].Name)

	var popular models.PopularTagList
	suite.call(http.MethodGet, "/api/tags/popular?limit=1", nil, http.StatusOK, &popular)
	suite.Require().Len(popular.Items, 1)
	suite.Equal("Battery", popular.Items[0].Name)
	suite.EqualValues(2, popular.Items[0].Count)

	suite.call(http.MethodGet, "/api/tags/popular?limit=101", nil, http.StatusBadRequest, nil)
}

func (suite *IntegrationTestSuite) TestSearch() {
	testutils.CreateTestArticle(suite.db, testutils.WithTitle("Tesla Model 3 review"))
	testutils.CreateTestArticle(suite.db, testutils.WithContent("The new tesla factory"))
	testutils.CreateTestArticle(suite.db, testutils.WithTitle("BYD Seal"))
	testutils.CreateTestArticle(suite.db, testutils.WithTitle("Tesla draft"), testutils.WithStatus(models.StatusDraft))

	var result models.SearchResult
	suite.call(http.MethodGet, "/api/search?q=TESLA", nil, http.StatusOK, &result)
	suite.Equal("TESLA", result.Keyword)
	suite.EqualValues(2, result.Total)
	suite.Len(result.Items, 2)

	var data validationData
	suite.call(http.MethodGet, "/api/search?q=a", nil, http.StatusBadRequest, &data)
	suite.Contains(data.Errors, "q")

	suite.call(http.MethodGet, "/api/search?q=100%25", nil, http.StatusOK, &result)
	suite.Zero(result.Total)
}

func (suite *IntegrationTestSuite) TestStats() {
	testutils.CreateTestCategory(suite.db)
	testutils.CreateTestTag(suite.db, "EV", "ev")
	for _, views := range []int64{10, 20, 30} {
		testutils.CreateTestArticle(suite.db, testutils.WithViews(views))
	}
	testutils.CreateTestArticle(suite.db, testutils.WithStatus(models.StatusDraft))

	var stats models.Stats
	suite.call(http.MethodGet, "/api/stats", nil, http.StatusOK, &stats)
	suite.EqualValues(3, stats.ArticleCount)
	suite.EqualValues(1, stats.CategoryCount)
	suite.EqualValues(1, stats.TagCount)
	suite.EqualValues(60, stats.TotalViews)
	suite.Len(stats.LatestArticles, 3)
}

func (suite *IntegrationTestSuite) TestUnknownRoute() {
	env := suite.call(http.MethodGet, "/api/nothing-here", nil, http.StatusNotFound, nil)
	suite.Equal(http.StatusNotFound, env.Code)
}
