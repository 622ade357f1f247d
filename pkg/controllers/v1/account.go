package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/resource"
)

// RegisterAccountRoutes registers the routes for the account with
// the RouterGroup that is passed.
func (co Controller) RegisterAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAccount)
		r.GET("", co.GetAccount)
		r.PATCH("", co.UpdateAccount)
	}

	{
		r.OPTIONS("/snapshot", OptionsAccountSnapshot)
		r.GET("/snapshot", co.GetAccountSnapshot)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Account
// @Success		204
// @Router			/v1/account [options]
func OptionsAccount(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Account
// @Success		204
// @Router			/v1/account/snapshot [options]
func OptionsAccountSnapshot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get account
// @Description	Returns the cached account and fetches it from the server. Data is null until the account has been cached.
// @Tags			Account
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[models.Account]
// @Failure		400		{object}	httputil.HTTPError
// @Failure		503		{object}	ResourceResponse[models.Account]
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/account [get]
func (co Controller) GetAccount(c *gin.Context) {
	var query ResourceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.ErrorHandler(c, fmt.Errorf("%w: %w", httputil.ErrInvalidQuery, err), co.tag())
		return
	}

	serve(co, c, query.Stream, func(ctx context.Context) <-chan resource.Resource[*models.Account] {
		return co.Accounts.Observe(ctx)
	})
}

// @Summary		Update account
// @Description	Updates the account on the server and caches the result. Fields that are not set keep the value of the last account snapshot.
// @Tags			Account
// @Accept			json
// @Produce		json
// @Success		200		{object}	AccountResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		502		{object}	httputil.HTTPError
// @Failure		503		{object}	httputil.HTTPError
// @Param			account	body		AccountEditable	true	"Account"
// @Router			/v1/account [patch]
func (co Controller) UpdateAccount(c *gin.Context) {
	snapshot, _, err := co.Accounts.Snapshot()
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	editable := AccountEditable{
		Name:     snapshot.Name,
		Balance:  snapshot.Balance,
		Currency: snapshot.Currency,
	}

	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	account, err := co.Accounts.Update(c.Request.Context(), remote.AccountUpdate{
		Name:     editable.Name,
		Balance:  editable.Balance,
		Currency: editable.Currency,
	})
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, AccountResponse{Data: account})
}

// @Summary		Get account snapshot
// @Description	Returns the account as last saved, without touching the cache or the server
// @Tags			Account
// @Produce		json
// @Success		200	{object}	SnapshotResponse
// @Failure		404	{object}	httputil.HTTPError
// @Router			/v1/account/snapshot [get]
func (co Controller) GetAccountSnapshot(c *gin.Context) {
	snapshot, ok, err := co.Accounts.Snapshot()
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	if !ok {
		httputil.ErrorHandler(c, fmt.Errorf("%w account snapshot", models.ErrResourceNotFound), co.tag())
		return
	}

	c.JSON(http.StatusOK, SnapshotResponse{Data: snapshot})
}
