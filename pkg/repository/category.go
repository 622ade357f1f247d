package repository

import (
	"context"

	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/pocketledger/client/pkg/store"
	"github.com/rs/zerolog"
)

// Categories serves income and expense categories.
type Categories struct {
	store  *store.Store
	remote Remote
	opts   Options
	logger zerolog.Logger
}

func NewCategories(s *store.Store, r Remote, opts Options) *Categories {
	return &Categories{
		store:  s,
		remote: r,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "categories").Logger(),
	}
}

// Observe streams the cached categories matching the filter. Categories
// rarely change, they are only fetched while none are cached unless another
// fetch policy is configured.
func (c *Categories) Observe(ctx context.Context, filter store.CategoryFilter) <-chan resource.Resource[[]models.Category] {
	p := resource.Pipeline[[]models.Category, []remote.CategoryRepr]{
		Name:  "categories",
		Local: c.store.Categories(filter).Observe,
		Fetch: func(ctx context.Context) ([]remote.CategoryRepr, error) {
			return c.fetch(ctx, filter)
		},
		Save:        c.save,
		ShouldFetch: fetchPolicy[[]models.Category](c.opts, resource.PolicyEmpty),
		Logger:      c.logger,
	}

	return p.Observe(ctx)
}

// Pull fetches all categories once and saves them.
func (c *Categories) Pull(ctx context.Context) ([]models.Category, error) {
	reprs, err := c.fetch(ctx, store.CategoryFilter{})
	if err != nil {
		return nil, err
	}

	return remote.Categories(reprs), c.save(ctx, reprs)
}

func (c *Categories) fetch(ctx context.Context, filter store.CategoryFilter) ([]remote.CategoryRepr, error) {
	if filter.IsIncome == nil {
		return retry.Do(ctx, c.opts.Retry.Named("get_categories"), c.remote.GetAllCategories)
	}

	return retry.Do(ctx, c.opts.Retry.Named("get_categories_by_type"), func(ctx context.Context) ([]remote.CategoryRepr, error) {
		return c.remote.GetCategoriesByType(ctx, *filter.IsIncome)
	})
}

func (c *Categories) save(ctx context.Context, reprs []remote.CategoryRepr) error {
	return c.store.UpsertCategories(ctx, remote.Categories(reprs))
}
