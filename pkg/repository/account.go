package repository

import (
	"context"

	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/pocketledger/client/pkg/store"
	"github.com/rs/zerolog"
)

// Accounts serves the account.
type Accounts struct {
	store  *store.Store
	remote Remote
	prefs  *preferences.Preferences
	opts   Options
	logger zerolog.Logger
}

func NewAccounts(s *store.Store, r Remote, prefs *preferences.Preferences, opts Options) *Accounts {
	return &Accounts{
		store:  s,
		remote: r,
		prefs:  prefs,
		opts:   opts,
		logger: opts.Logger.With().Str("component", "accounts").Logger(),
	}
}

// Observe streams the cached account, fetching it from the server
// according to the fetch policy. Data is nil while no account is cached.
func (a *Accounts) Observe(ctx context.Context) <-chan resource.Resource[*models.Account] {
	p := resource.Pipeline[*models.Account, remote.AccountRepr]{
		Name:        "account",
		Local:       a.store.Account().Observe,
		Fetch:       a.fetch,
		Save:        a.save,
		ShouldFetch: fetchPolicy[*models.Account](a.opts, resource.PolicyAlways),
		Logger:      a.logger,
	}

	return p.Observe(ctx)
}

// Pull fetches the account once and saves it.
func (a *Accounts) Pull(ctx context.Context) (models.Account, error) {
	repr, err := a.fetch(ctx)
	if err != nil {
		return models.Account{}, err
	}

	return repr.Model(), a.save(ctx, repr)
}

// Update changes the account on the server and caches the result.
func (a *Accounts) Update(ctx context.Context, update remote.AccountUpdate) (models.Account, error) {
	repr, err := retry.Do(ctx, a.opts.Retry.Named("update_account"), func(ctx context.Context) (remote.AccountRepr, error) {
		return a.remote.UpdateAccount(ctx, a.opts.AccountID, update)
	})
	if err != nil {
		return models.Account{}, err
	}

	return repr.Model(), a.save(ctx, repr)
}

// Snapshot returns the last account that was saved, for rendering before
// the cache or the server have answered. ok is false if there is none.
func (a *Accounts) Snapshot() (snapshot preferences.AccountSnapshot, ok bool, err error) {
	snapshot, err = a.prefs.Account.Load()
	if err != nil {
		return snapshot, false, err
	}

	return snapshot, !snapshot.IsZero(), nil
}

func (a *Accounts) fetch(ctx context.Context) (remote.AccountRepr, error) {
	return retry.Do(ctx, a.opts.Retry.Named("get_account"), func(ctx context.Context) (remote.AccountRepr, error) {
		return a.remote.GetAccount(ctx, a.opts.AccountID)
	})
}

func (a *Accounts) save(ctx context.Context, repr remote.AccountRepr) error {
	account := repr.Model()
	if err := a.store.UpsertAccount(ctx, account); err != nil {
		return err
	}

	// A failed snapshot write does not fail the save
	err := a.prefs.Account.Save(preferences.AccountSnapshot{
		ID:       account.ID,
		Name:     account.Name,
		Balance:  account.Balance,
		Currency: account.Currency,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("saving the account snapshot failed")
	}

	return nil
}
