package middleware

import (
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const unknownRoute = "unknown"

// HTTPLogger writes one access line per request and records request count and latency
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		// route template keeps metric cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = unknownRoute
		}
		statusCode := c.Writer.Status()
		method := c.Request.Method

		metricTags := metric.BuildTag(
			metric.NewTag(metric.TagPath, path),
			metric.NewTag(metric.TagMethod, method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(statusCode)),
		)
		metric.Incr(metric.ApiRequestCount, metricTags)
		metric.Timing(metric.ApiRequestLatency, latency, metricTags)
		log.Info().Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), method, path, statusCode, latency)
	}
}
