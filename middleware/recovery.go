package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	"autoinfo-cms/helper"

	"github.com/gin-gonic/gin"
)

// Recovery turns a panic in a handler into the standard 500 envelope.
func Recovery(h *helper.HTTPHelper, log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		log.Error("panic recovered",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", RequestID(c),
			"stack", string(debug.Stack()),
		)
		_ = c.Error(err)
		h.SendInternalError(c, err)
		c.Abort()
	})
}
