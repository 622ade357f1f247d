package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/store"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// RegisterTransactionRoutes registers the routes for transactions with
// the RouterGroup that is passed.
func (co Controller) RegisterTransactionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", co.GetTransactions)
		r.POST("", co.CreateTransaction)
	}

	// Computed and ledger views
	{
		r.OPTIONS("/analysis", OptionsTransactionView)
		r.GET("/analysis", co.GetTransactionAnalysis)
		r.OPTIONS("/total", OptionsTransactionView)
		r.GET("/total", co.GetTransactionTotal)
		r.OPTIONS("/unsynced", OptionsTransactionView)
		r.GET("/unsynced", co.GetUnsyncedTransactions)
	}

	// Transaction with ID
	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", co.GetTransaction)
		r.PATCH("/:id", co.UpdateTransaction)
		r.DELETE("/:id", co.DeleteTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions/analysis [options]
// @Router			/v1/transactions/total [options]
// @Router			/v1/transactions/unsynced [options]
func OptionsTransactionView(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Param			id	path		string	true	"Local ID formatted as string"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	if _, err := httputil.UUIDFromString(c.Param("id")); err != nil {
		httputil.ErrorHandler(c, err, language.English)
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// transactionFilter binds the query. It writes the error response and
// returns false when the query is invalid.
func (co Controller) transactionFilter(c *gin.Context) (TransactionQuery, store.TransactionFilter, bool) {
	var query TransactionQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.ErrorHandler(c, fmt.Errorf("%w: %w", httputil.ErrInvalidQuery, err), co.tag())
		return query, store.TransactionFilter{}, false
	}

	filter, err := query.filter()
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return query, store.TransactionFilter{}, false
	}

	return query, filter, true
}

// @Summary		Get transactions
// @Description	Returns the cached transactions of the period, newest first, and fetches the period from the server
// @Tags			Transactions
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[[]models.Transaction]
// @Failure		400		{object}	httputil.HTTPError
// @Failure		503		{object}	ResourceResponse[[]models.Transaction]
// @Param			income	query		bool	false	"Only incomes (true) or expenses (false)"
// @Param			start	query		string	false	"First day of the period, e.g. 2024-03-01"
// @Param			end		query		string	false	"Last day of the period, inclusive"
// @Param			month	query		string	false	"Month of the period instead of start and end, e.g. 2024-03"
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/transactions [get]
func (co Controller) GetTransactions(c *gin.Context) {
	query, filter, ok := co.transactionFilter(c)
	if !ok {
		return
	}

	serve(co, c, query.Stream, func(ctx context.Context) <-chan resource.Resource[[]models.Transaction] {
		return co.Transactions.Observe(ctx, filter)
	})
}

// @Summary		Get transaction analysis
// @Description	Returns the sum and count of the cached transactions per category, largest sum first, and fetches the period from the server
// @Tags			Transactions
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[[]store.CategorySum]
// @Failure		400		{object}	httputil.HTTPError
// @Failure		503		{object}	ResourceResponse[[]store.CategorySum]
// @Param			income	query		bool	false	"Only incomes (true) or expenses (false)"
// @Param			start	query		string	false	"First day of the period, e.g. 2024-03-01"
// @Param			end		query		string	false	"Last day of the period, inclusive"
// @Param			month	query		string	false	"Month of the period instead of start and end, e.g. 2024-03"
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/transactions/analysis [get]
func (co Controller) GetTransactionAnalysis(c *gin.Context) {
	query, filter, ok := co.transactionFilter(c)
	if !ok {
		return
	}

	serve(co, c, query.Stream, func(ctx context.Context) <-chan resource.Resource[[]store.CategorySum] {
		return co.Analysis.ObserveCategories(ctx, filter)
	})
}

// @Summary		Get transaction total
// @Description	Returns the sum of the cached transactions and fetches the period from the server
// @Tags			Transactions
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[decimal.Decimal]
// @Failure		400		{object}	httputil.HTTPError
// @Failure		503		{object}	ResourceResponse[decimal.Decimal]
// @Param			income	query		bool	false	"Only incomes (true) or expenses (false)"
// @Param			start	query		string	false	"First day of the period, e.g. 2024-03-01"
// @Param			end		query		string	false	"Last day of the period, inclusive"
// @Param			month	query		string	false	"Month of the period instead of start and end, e.g. 2024-03"
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/transactions/total [get]
func (co Controller) GetTransactionTotal(c *gin.Context) {
	query, filter, ok := co.transactionFilter(c)
	if !ok {
		return
	}

	serve(co, c, query.Stream, func(ctx context.Context) <-chan resource.Resource[decimal.Decimal] {
		return co.Analysis.ObserveTotal(ctx, filter)
	})
}

// @Summary		Get unsynced transactions
// @Description	Returns the transactions that have not been confirmed by the server, oldest first. Never fetches.
// @Tags			Transactions
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[[]models.Transaction]
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/transactions/unsynced [get]
func (co Controller) GetUnsyncedTransactions(c *gin.Context) {
	var query ResourceQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.ErrorHandler(c, fmt.Errorf("%w: %w", httputil.ErrInvalidQuery, err), co.tag())
		return
	}

	serve(co, c, query.Stream, co.Transactions.Unsynced)
}

// @Summary		Create transaction
// @Description	Records a transaction on this device. It is unsynced until it has been pushed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		201			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions [post]
func (co Controller) CreateTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	if err := editable.validate(); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	transaction, err := co.Transactions.Create(c.Request.Context(), editable.model())
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusCreated, TransactionResponse{Data: transaction})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction from the cache
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path		string	true	"Local ID formatted as string"
// @Router			/v1/transactions/{id} [get]
func (co Controller) GetTransaction(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	transaction, err := co.Transactions.Get(c.Request.Context(), id)
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Update transaction
// @Description	Updates a specific transaction on this device. Only values to be changed need to be specified. The transaction is unsynced until it has been pushed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			id			path		string				true	"Local ID formatted as string"
// @Param			transaction	body		TransactionEditable	true	"Transaction"
// @Router			/v1/transactions/{id} [patch]
func (co Controller) UpdateTransaction(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	current, err := co.Transactions.Get(c.Request.Context(), id)
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	// Fields missing in the body keep their current value
	editable := transactionEditable(current)
	if err := httputil.BindData(c, &editable); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	if err := editable.validate(); err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	update := editable.model()
	update.LocalID = id

	transaction, err := co.Transactions.Update(c.Request.Context(), update)
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Delete transaction
// @Description	Deletes a transaction. Transactions known to the server are deleted there first and kept when that fails.
// @Tags			Transactions
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Failure		503	{object}	httputil.HTTPError
// @Param			id	path		string	true	"Local ID formatted as string"
// @Router			/v1/transactions/{id} [delete]
func (co Controller) DeleteTransaction(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	err = co.Transactions.Delete(c.Request.Context(), id)
	if err != nil {
		httputil.ErrorHandler(c, err, co.tag())
		return
	}

	c.Status(http.StatusNoContent)
}
