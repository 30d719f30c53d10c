package helper

import (
	"errors"
	"net/http"

	"autoinfo-cms/models"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"gopkg.in/go-playground/validator.v9"
)

const (
	codeSuccess = 0

	textSuccess          = `success`
	textValidationFailed = `validation failed`
	textInternalError    = `internal server error`
)

// Response is the envelope every endpoint except the article list writes.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// HTTPHelper ...
type HTTPHelper struct {
	Validate   *validator.Validate
	Translator ut.Translator
	// Debug exposes the text of unclassified errors in 500 responses.
	Debug bool
}

// GetStatusCode ...
// Map a service error to the HTTP status it is reported with.
func (u *HTTPHelper) GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var (
		notFound   models.ErrorNotFound
		conflict   models.ErrorConflict
		badRequest models.ErrorBadRequest
		validation models.ErrorValidation
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &conflict), errors.As(err, &badRequest), errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// SendResponse ...
// Send an envelope with the given HTTP status.
func (u *HTTPHelper) SendResponse(c *gin.Context, status int, res Response) {
	if len(res.Message) == 0 {
		res.Message = textSuccess
	}
	c.JSON(status, res)
}

// SendSuccess ...
// Send success response to consumers.
func (u *HTTPHelper) SendSuccess(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusOK, Response{Code: codeSuccess, Message: message, Data: data})
}

// SendCreated ...
// Send created response to consumers.
func (u *HTTPHelper) SendCreated(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusCreated, Response{Code: codeSuccess, Message: message, Data: data})
}

// SendPage writes a paginated article list without the envelope.
func (u *HTTPHelper) SendPage(c *gin.Context, page models.PageResult) {
	c.JSON(http.StatusOK, page)
}

// SendBadRequest ...
// Send bad request response to consumers.
func (u *HTTPHelper) SendBadRequest(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message, Data: data})
}

// SendNotFoundError ...
// Send not found response to consumers.
func (u *HTTPHelper) SendNotFoundError(c *gin.Context, message string, data interface{}) {
	u.SendResponse(c, http.StatusNotFound, Response{Code: http.StatusNotFound, Message: message, Data: data})
}

// SendValidationError ...
// Send validation error response to consumers.
func (u *HTTPHelper) SendValidationError(c *gin.Context, verr models.ErrorValidation) {
	u.SendResponse(c, http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: textValidationFailed,
		Data:    gin.H{"errors": verr.Fields},
	})
}

// SendInternalError ...
// Send internal server error response to consumers. The error text is only
// exposed in debug mode.
func (u *HTTPHelper) SendInternalError(c *gin.Context, err error) {
	message := textInternalError
	if u.Debug && err != nil {
		message = err.Error()
	}
	u.SendResponse(c, http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: message})
}

// SendError ...
// Send the response matching the error type returned by a service.
func (u *HTTPHelper) SendError(c *gin.Context, err error) {
	var validation models.ErrorValidation
	if errors.As(err, &validation) {
		u.SendValidationError(c, validation)
		return
	}

	switch status := u.GetStatusCode(err); status {
	case http.StatusNotFound:
		u.SendNotFoundError(c, err.Error(), nil)
	case http.StatusBadRequest:
		u.SendBadRequest(c, err.Error(), nil)
	default:
		_ = c.Error(err)
		u.SendInternalError(c, err)
	}
}
