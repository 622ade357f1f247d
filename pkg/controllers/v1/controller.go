// Package v1 is the local API the user interface reads resources from and
// writes local changes to.
package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/connectivity"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/syncer"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

// Controller holds the dependencies of all v1 handlers.
type Controller struct {
	Accounts     *repository.Accounts
	Categories   *repository.Categories
	Transactions *repository.Transactions
	Analysis     *repository.Analysis
	Pusher       *syncer.Pusher
	Connectivity *connectivity.Observer // Optional. Streams are not re-subscribed on reconnect without it.
	Preferences  *preferences.Preferences
}

// RegisterRoutes registers all v1 routes on r.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsRoot)
	r.GET("", GetRoot)

	co.RegisterAccountRoutes(r.Group("/account"))
	co.RegisterCategoryRoutes(r.Group("/categories"))
	co.RegisterTransactionRoutes(r.Group("/transactions"))
	co.RegisterSyncRoutes(r.Group("/sync"))
	co.RegisterConnectivityRoutes(r.Group("/connectivity"))
	co.RegisterSettingsRoutes(r.Group("/settings"))
}

type Links struct {
	Account      string `json:"account" example:"http://localhost:8080/v1/account"`           // The account
	Categories   string `json:"categories" example:"http://localhost:8080/v1/categories"`     // Categories, filterable by type
	Transactions string `json:"transactions" example:"http://localhost:8080/v1/transactions"` // Transactions, filterable by type and period
	Analysis     string `json:"analysis" example:"http://localhost:8080/v1/transactions/analysis"`
	Total        string `json:"total" example:"http://localhost:8080/v1/transactions/total"`
	Unsynced     string `json:"unsynced" example:"http://localhost:8080/v1/transactions/unsynced"` // Transactions not yet confirmed by the server
	Push         string `json:"push" example:"http://localhost:8080/v1/sync/push"`
	Pull         string `json:"pull" example:"http://localhost:8080/v1/sync/pull"`
	Connectivity string `json:"connectivity" example:"http://localhost:8080/v1/connectivity"`
	Settings     string `json:"settings" example:"http://localhost:8080/v1/settings"`
}

type RootResponse struct {
	Links Links `json:"links"` // Links for the v1 API
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			v1
// @Success		204
// @Router			/v1 [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			v1
// @Success		200	{object}	RootResponse
// @Router			/v1 [get]
func GetRoot(c *gin.Context) {
	url := c.GetString(httputil.ContextURL)

	c.JSON(http.StatusOK, RootResponse{
		Links: Links{
			Account:      url + "/v1/account",
			Categories:   url + "/v1/categories",
			Transactions: url + "/v1/transactions",
			Analysis:     url + "/v1/transactions/analysis",
			Total:        url + "/v1/transactions/total",
			Unsynced:     url + "/v1/transactions/unsynced",
			Push:         url + "/v1/sync/push",
			Pull:         url + "/v1/sync/pull",
			Connectivity: url + "/v1/connectivity",
			Settings:     url + "/v1/settings",
		},
	})
}

// tag returns the language failure messages are rendered in.
func (co Controller) tag() language.Tag {
	settings, err := co.Preferences.Settings.Load()
	if err != nil {
		log.Warn().Err(err).Msg("could not load settings, using English")
		return language.English
	}

	return settings.Tag()
}

// serve answers with the resource stream returned by build.
//
// With stream set, every state is sent as a server-sent event named after
// the state until the client disconnects. Otherwise, the first Success or
// Error is returned as JSON.
func serve[T any](co Controller, c *gin.Context, stream bool, build func(ctx context.Context) <-chan resource.Resource[T]) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	tag := co.tag()

	if !stream {
		for r := range build(ctx) {
			if !resource.Settled(r) {
				continue
			}

			status := http.StatusOK
			if e, ok := r.(resource.Error[T]); ok {
				status = httputil.Status(e.Err)
			}

			c.JSON(status, newResourceResponse(r, tag))
			return
		}

		// The stream only ends without settling when the client is gone
		return
	}

	var states <-chan resource.Resource[T]
	if co.Connectivity != nil {
		states = repository.RetryOnReconnect(ctx, co.Connectivity.Subscribe(ctx), build)
	} else {
		states = build(ctx)
	}

	c.Header("Cache-Control", "no-cache")
	for r := range states {
		c.SSEvent(resource.State(r), newResourceResponse(r, tag))
		c.Writer.Flush()
	}
}
