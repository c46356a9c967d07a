package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-gallery-service/infra"
	"github.com/tnqbao/gau-gallery-service/utils"
)

// RecoveryMiddleware turns handler panics into a 500 response. http.ErrAbortHandler
// is re-raised so the server closes the connection mid-response.
func RecoveryMiddleware(logger *infra.LoggerClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			ctx := c.Request.Context()
			logger.ErrorWithContextf(ctx, fmt.Errorf("%v", rec), "[HTTP] Panic serving %s %s", c.Request.Method, c.Request.URL.Path)
			if c.Writer.Written() {
				c.Abort()
				return
			}
			utils.JSON500(c, "Internal server error")
			c.Abort()
		}()
		c.Next()
	}
}
