package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/pocketledger/client/pkg/store"
	"github.com/rs/zerolog"
)

// Transactions serves transactions and records local edits.
type Transactions struct {
	store  *store.Store
	remote Remote
	opts   Options
	logger zerolog.Logger
}

func NewTransactions(s *store.Store, r Remote, opts Options) *Transactions {
	return &Transactions{
		store:  s,
		remote: r,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "transactions").Logger(),
	}
}

// Observe streams the cached transactions matching the filter. The
// transactions of the filter's period are fetched from the server, the
// current month when the filter has no period.
func (t *Transactions) Observe(ctx context.Context, filter store.TransactionFilter) <-chan resource.Resource[[]models.Transaction] {
	filter = withPeriod(filter)

	return observePeriod(ctx, t, "transactions", t.store.Transactions(filter).Observe, *filter.Period)
}

// ObservePeriods streams the transactions of the latest period received
// from periods. Each new period cancels the previous stream and fetches again.
func (t *Transactions) ObservePeriods(ctx context.Context, filter store.TransactionFilter, periods <-chan types.Period) <-chan resource.Resource[[]models.Transaction] {
	return resource.Latest(ctx, periods, func(ctx context.Context, period types.Period) <-chan resource.Resource[[]models.Transaction] {
		filter.Period = &period
		return t.Observe(ctx, filter)
	})
}

// Pull fetches the transactions of the period once and saves them.
func (t *Transactions) Pull(ctx context.Context, period types.Period) (int, error) {
	reprs, err := t.fetch(ctx, period)
	if err != nil {
		return 0, err
	}

	return len(reprs), t.save(ctx, reprs)
}

// Get returns the transaction with the given local ID.
func (t *Transactions) Get(ctx context.Context, localID uuid.UUID) (models.Transaction, error) {
	transaction, err := t.store.Transaction(localID).Get(ctx)
	if err != nil {
		return models.Transaction{}, err
	}

	if transaction == nil {
		return models.Transaction{}, fmt.Errorf("%w transaction with local ID %s", models.ErrResourceNotFound, localID)
	}

	return *transaction, nil
}

// Create records a new transaction on this device. It stays unsynced until
// it has been pushed.
func (t *Transactions) Create(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	created, err := t.store.CreateTransaction(ctx, transaction)
	if err != nil {
		return created, err
	}

	t.logger.Debug().Str("local_id", created.LocalID.String()).Msg("created unsynced transaction")
	return t.Get(ctx, created.LocalID)
}

// Update records a change made on this device. The transaction becomes
// unsynced until it has been pushed.
func (t *Transactions) Update(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	updated, err := t.store.UpdateTransaction(ctx, transaction)
	if err != nil {
		return updated, err
	}

	return t.Get(ctx, updated.LocalID)
}

// Delete deletes the transaction. If the server knows it, it is deleted on
// the server first and kept locally when that fails.
func (t *Transactions) Delete(ctx context.Context, localID uuid.UUID) error {
	transaction, err := t.Get(ctx, localID)
	if err != nil {
		return err
	}

	if transaction.ServerID != nil {
		id := *transaction.ServerID
		_, err := retry.Do(ctx, t.opts.Retry.Named("delete_transaction"), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, t.remote.DeleteTransaction(ctx, id)
		})

		var f *failure.Error
		if errors.As(err, &f) && f.Status == http.StatusNotFound {
			t.logger.Info().Int64("server_id", id).Msg("transaction was already deleted on the server")
		} else if err != nil {
			return err
		}
	}

	return t.store.DeleteTransaction(ctx, localID)
}

// Unsynced streams the transactions not yet confirmed by the server. It
// never fetches.
func (t *Transactions) Unsynced(ctx context.Context) <-chan resource.Resource[[]models.Transaction] {
	p := resource.Pipeline[[]models.Transaction, struct{}]{
		Name:        "unsynced",
		Local:       t.store.Unsynced().Observe,
		ShouldFetch: resource.Never[[]models.Transaction],
		Logger:      t.logger,
	}

	return p.Observe(ctx)
}

func (t *Transactions) fetch(ctx context.Context, period types.Period) ([]remote.TransactionRepr, error) {
	return retry.Do(ctx, t.opts.Retry.Named("get_transactions"), func(ctx context.Context) ([]remote.TransactionRepr, error) {
		return t.remote.GetTransactionsByPeriod(ctx, t.opts.AccountID, period)
	})
}

func (t *Transactions) save(ctx context.Context, reprs []remote.TransactionRepr) error {
	return t.store.SaveRemoteTransactions(ctx, remote.Transactions(reprs))
}

// observePeriod streams a local read of transactions after fetching the
// transactions of the period.
func observePeriod[L any](ctx context.Context, t *Transactions, name string, local func(context.Context) <-chan store.Snapshot[L], period types.Period) <-chan resource.Resource[L] {
	p := resource.Pipeline[L, []remote.TransactionRepr]{
		Name:  name,
		Local: local,
		Fetch: func(ctx context.Context) ([]remote.TransactionRepr, error) {
			return t.fetch(ctx, period)
		},
		Save:        t.save,
		ShouldFetch: fetchPolicy[L](t.opts, resource.PolicyAlways),
		Logger:      t.logger,
	}

	return p.Observe(ctx)
}

func withPeriod(filter store.TransactionFilter) store.TransactionFilter {
	if filter.Period == nil {
		period := types.CurrentMonth()
		filter.Period = &period
	}
	return filter
}
