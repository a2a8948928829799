package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/errors"
	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/utils/logger"
)

// Recovery turns a handler panic into a 500 with the standard error body.
// The request-scoped logger is preferred over log when Logging ran first.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.New(nil)
	}

	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			reqLog := log
			if l, ok := logger.LoggerFromContext(c.Request.Context()); ok {
				reqLog = l
			}
			reqLog.Error("Panic recovered",
				"error", fmt.Sprint(rec),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			appErr := apperrors.Internal("internal server error", fmt.Errorf("panic: %v", rec))
			c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToResponse())
		}()
		c.Next()
	}
}
