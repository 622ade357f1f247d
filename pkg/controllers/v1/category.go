package v1

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/resource"
)

// RegisterCategoryRoutes registers the routes for categories with
// the RouterGroup that is passed.
func (co Controller) RegisterCategoryRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsCategories)
	r.GET("", co.GetCategories)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Categories
// @Success		204
// @Router			/v1/categories [options]
func OptionsCategories(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get categories
// @Description	Returns the cached categories ordered by ID. They are fetched from the server when none are cached.
// @Tags			Categories
// @Produce		json,text/event-stream
// @Success		200		{object}	ResourceResponse[[]models.Category]
// @Failure		400		{object}	httputil.HTTPError
// @Failure		503		{object}	ResourceResponse[[]models.Category]
// @Param			income	query		bool	false	"Only income (true) or expense (false) categories"
// @Param			stream	query		bool	false	"Stream all states as server-sent events"
// @Router			/v1/categories [get]
func (co Controller) GetCategories(c *gin.Context) {
	var query CategoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.ErrorHandler(c, fmt.Errorf("%w: %w", httputil.ErrInvalidQuery, err), co.tag())
		return
	}

	serve(co, c, query.Stream, func(ctx context.Context) <-chan resource.Resource[[]models.Category] {
		return co.Categories.Observe(ctx, query.filter())
	})
}
