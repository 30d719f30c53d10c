package handlers

import (
	"strconv"

	"autoinfo-cms/helper"
	"autoinfo-cms/models"

	"github.com/gin-gonic/gin"
)

const textInvalidBody = `invalid request body`

// parseID reads a positive integer path parameter. On failure the 400
// response has already been written.
func parseID(c *gin.Context, h *helper.HTTPHelper, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		h.SendValidationError(c, models.ErrorValidation{Fields: map[string][]string{
			name: {name + " must be a positive integer"},
		}})
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body into req and runs its validate tags.
func bindJSON(c *gin.Context, h *helper.HTTPHelper, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.SendBadRequest(c, textInvalidBody, gin.H{"detail": err.Error()})
		return false
	}
	if err := h.ValidateStruct(req); err != nil {
		h.SendError(c, err)
		return false
	}
	return true
}

// bindQuery decodes the query string into params and runs its validate tags.
func bindQuery(c *gin.Context, h *helper.HTTPHelper, params interface{}) bool {
	if err := c.ShouldBindQuery(params); err != nil {
		h.SendBadRequest(c, "invalid query parameters", gin.H{"detail": err.Error()})
		return false
	}
	if err := h.ValidateStruct(params); err != nil {
		h.SendError(c, err)
		return false
	}
	return true
}
