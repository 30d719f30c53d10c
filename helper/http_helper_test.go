package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoinfo-cms/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper(false)

	assert.Equal(t, http.StatusOK, h.GetStatusCode(nil))
	assert.Equal(t, http.StatusNotFound, h.GetStatusCode(models.NewNotFound("article not found")))
	assert.Equal(t, http.StatusBadRequest, h.GetStatusCode(models.NewConflict("slug taken")))
	assert.Equal(t, http.StatusBadRequest, h.GetStatusCode(models.NewBadRequest("category not found")))
	assert.Equal(t, http.StatusBadRequest, h.GetStatusCode(models.ErrorValidation{}))
	assert.Equal(t, http.StatusNotFound, h.GetStatusCode(fmt.Errorf("wrapped: %w", models.NewNotFound("x"))))
	assert.Equal(t, http.StatusInternalServerError, h.GetStatusCode(errors.New("boom")))
}

func TestSendSuccess(t *testing.T) {
	h := NewHTTPHelper(false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SendSuccess(c, "", gin.H{"id": 1})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 0, body["code"])
	assert.Equal(t, "success", body["message"])
	assert.EqualValues(t, 1, body["data"].(map[string]interface{})["id"])
}

func TestSendErrorRedactsInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	NewHTTPHelper(false).SendError(c, errors.New("dial tcp: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 500, body["code"])
	assert.Equal(t, "internal server error", body["message"])
	assert.Nil(t, body["data"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	NewHTTPHelper(true).SendError(c, errors.New("dial tcp: connection refused"))
	assert.Equal(t, "dial tcp: connection refused", decode(t, w)["message"])
}

func TestSendErrorTyped(t *testing.T) {
	h := NewHTTPHelper(false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h.SendError(c, models.NewNotFound("article not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 404, body["code"])
	assert.Equal(t, "article not found", body["message"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	h.SendError(c, models.NewConflict("Slug '%s' already exists", "abc"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Slug 'abc' already exists", decode(t, w)["message"])
}

func TestValidateStruct(t *testing.T) {
	h := NewHTTPHelper(false)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	req := models.CreateArticleRequest{
		Tags:       []string{"ok", string(long)},
		Status:     "archived",
		MediaItems: []models.MediaItemRequest{{Type: "audio"}},
	}

	err := h.ValidateStruct(req)
	require.Error(t, err)

	var verr models.ErrorValidation
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "content")
	assert.Contains(t, verr.Fields, "status")
	assert.Contains(t, verr.Fields, "tags[1]")
	assert.Contains(t, verr.Fields, "media_items[0].url")
	assert.Contains(t, verr.Fields, "media_items[0].type")
	assert.NotContains(t, verr.Fields, "tags[0]")
	assert.Equal(t, []string{"title is a required field"}, verr.Fields["title"])

	ok := models.CreateArticleRequest{Title: "t", Content: "c"}
	assert.NoError(t, h.ValidateStruct(ok))
}

func TestSendValidationError(t *testing.T) {
	h := NewHTTPHelper(false)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h.SendError(c, models.ErrorValidation{Fields: map[string][]string{"q": {"q must be at least 2 characters"}}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 400, body["code"])
	assert.Equal(t, "validation failed", body["message"])
	errs := body["data"].(map[string]interface{})["errors"].(map[string]interface{})
	assert.Equal(t, []interface{}{"q must be at least 2 characters"}, errs["q"])
}
