package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// HTTPRecovery turns the last *api.Error attached to the context, or a panic, into a JSON error body
func HTTPRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Msgf("Panic occurred: %v\n%s", err, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v", err)})
				return
			}
			if len(c.Errors) > 0 && !c.Writer.Written() {
				if apiErr, ok := c.Errors.Last().Err.(*api.Error); ok {
					c.AbortWithStatusJSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
				}
			}
		}()
		c.Next()
	}
}
