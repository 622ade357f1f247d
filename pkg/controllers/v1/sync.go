package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/repository"
)

// RegisterSyncRoutes registers the routes for manual synchronization with
// the RouterGroup that is passed.
func (co Controller) RegisterSyncRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/push", OptionsSync)
	r.POST("/push", co.Push)
	r.OPTIONS("/pull", OptionsSync)
	r.POST("/pull", co.Pull)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Sync
// @Success		204
// @Router			/v1/sync/push [options]
// @Router			/v1/sync/pull [options]
func OptionsSync(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Push unsynced transactions
// @Description	Sends all unsynced transactions to the server. A transaction that fails stays unsynced and does not stop the others.
// @Tags			Sync
// @Produce		json
// @Success		200	{object}	PushResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/sync/push [post]
func (co Controller) Push(c *gin.Context) {
	report, err := co.Pusher.Push(c.Request.Context())
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, PushResponse{Data: report})
}

// @Summary		Pull from the server
// @Description	Fetches the account, all categories and the transactions of the period once and caches them
// @Tags			Sync
// @Produce		json
// @Success		200		{object}	PullResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		502		{object}	httputil.HTTPError
// @Failure		503		{object}	httputil.HTTPError
// @Param			start	query		string	false	"First day of the period, e.g. 2024-03-01"
// @Param			end		query		string	false	"Last day of the period, inclusive"
// @Param			month	query		string	false	"Month of the period instead of start and end, e.g. 2024-03"
// @Router			/v1/sync/pull [post]
func (co Controller) Pull(c *gin.Context) {
	_, filter, ok := co.transactionFilter(c)
	if !ok {
		return
	}

	period := types.CurrentMonth()
	if filter.Period != nil {
		period = *filter.Period
	}

	report, err := repository.Pull(c.Request.Context(), co.Accounts, co.Categories, co.Transactions, period)
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, PullResponse{Data: report})
}
