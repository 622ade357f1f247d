package router

import (
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/internal/metrics"
	"github.com/pocketledger/client/pkg/httputil"
)

// Route label for requests that did not match any route.
const unmatchedRoute = "unmatched"

// URLMiddleware stores the base URL of the local API in the context so
// that handlers can build links.
func URLMiddleware(base *url.URL) gin.HandlerFunc {
	link := base.String()

	return func(c *gin.Context) {
		c.Set(httputil.ContextURL, link)
		c.Next()
	}
}

// MetricsMiddleware counts requests and observes their duration.
//
// Requests are labelled with the route pattern, e.g. /v1/transactions/:id,
// so that transaction IDs do not end up as label values.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}

		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(status, c.Request.Method, route).Observe(time.Since(start).Seconds())
		metrics.RequestCount.WithLabelValues(status, c.Request.Method, route).Inc()
	}
}
