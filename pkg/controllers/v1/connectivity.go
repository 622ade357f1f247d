package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/httputil"
)

// RegisterConnectivityRoutes registers the routes for the connectivity state
// with the RouterGroup that is passed.
func (co Controller) RegisterConnectivityRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsConnectivity)
	r.GET("", co.GetConnectivity)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Connectivity
// @Success		204
// @Router			/v1/connectivity [options]
func OptionsConnectivity(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get connectivity
// @Description	Returns whether the finance server is reachable. With stream, every change is sent as a server-sent event.
// @Tags			Connectivity
// @Produce		json,text/event-stream
// @Success		200		{object}	ConnectivityResponse
// @Param			stream	query		bool	false	"Stream changes as server-sent events"
// @Router			/v1/connectivity [get]
func (co Controller) GetConnectivity(c *gin.Context) {
	var query ResourceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.ErrorHandler(c, fmt.Errorf("%w: %w", httputil.ErrInvalidQuery, err), co.tag())
		return
	}

	if co.Connectivity == nil {
		c.JSON(http.StatusOK, ConnectivityResponse{})
		return
	}

	if !query.Stream {
		online, known := co.Connectivity.Online()
		c.JSON(http.StatusOK, ConnectivityResponse{Data: Connectivity{Online: online, Known: known}})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	for online := range co.Connectivity.Subscribe(ctx) {
		c.SSEvent("connectivity", Connectivity{Online: online, Known: true})
		c.Writer.Flush()
	}
}
