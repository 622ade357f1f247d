package repository

import (
	"context"

	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/store"
	"github.com/shopspring/decimal"
)

// Analysis serves aggregates over transactions. It fetches the same way
// as Transactions.
type Analysis struct {
	transactions *Transactions
}

func NewAnalysis(t *Transactions) *Analysis {
	return &Analysis{transactions: t}
}

// ObserveCategories streams the per-category sums and counts of the
// transactions matching the filter.
func (a *Analysis) ObserveCategories(ctx context.Context, filter store.TransactionFilter) <-chan resource.Resource[[]store.CategorySum] {
	filter = withPeriod(filter)
	t := a.transactions

	return observePeriod(ctx, t, "analysis", t.store.CategoryAnalysis(filter).Observe, *filter.Period)
}

// ObserveTotal streams the sum of the transactions matching the filter.
func (a *Analysis) ObserveTotal(ctx context.Context, filter store.TransactionFilter) <-chan resource.Resource[decimal.Decimal] {
	filter = withPeriod(filter)
	t := a.transactions

	return observePeriod(ctx, t, "total", t.store.Total(filter).Observe, *filter.Period)
}
