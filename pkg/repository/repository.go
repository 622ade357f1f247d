// Package repository assembles the resource pipelines for accounts,
// categories, transactions and their analysis.
package repository

import (
	"context"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/rs/zerolog"
)

// Remote is the part of the finance server API used by the repositories.
// *remote.Client implements it.
type Remote interface {
	GetAccount(ctx context.Context, id int64) (remote.AccountRepr, error)
	UpdateAccount(ctx context.Context, id int64, update remote.AccountUpdate) (remote.AccountRepr, error)
	GetAllCategories(ctx context.Context) ([]remote.CategoryRepr, error)
	GetCategoriesByType(ctx context.Context, isIncome bool) ([]remote.CategoryRepr, error)
	GetTransactionsByPeriod(ctx context.Context, accountID int64, period types.Period) ([]remote.TransactionRepr, error)
	CreateTransaction(ctx context.Context, request remote.TransactionRequest) (remote.TransactionResult, error)
	UpdateTransaction(ctx context.Context, id int64, request remote.TransactionRequest) (remote.TransactionResult, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Options are shared by all repositories.
type Options struct {
	AccountID int64        // ID of the account on the server
	Retry     retry.Policy // Policy for all remote calls

	// Name of the fetch policy, see resource.PolicyByName. Empty uses the
	// default of each repository.
	FetchPolicy string

	Logger zerolog.Logger
}

// fetchPolicy returns the configured fetch policy, or the fallback if none
// or an unknown one is configured.
func fetchPolicy[L any](o Options, fallback string) resource.Policy[L] {
	if o.FetchPolicy == "" {
		return mustPolicy[L](fallback)
	}

	policy, err := resource.PolicyByName[L](o.FetchPolicy)
	if err != nil {
		o.Logger.Warn().Err(err).Str("fallback", fallback).Msg("ignoring fetch policy")
		return mustPolicy[L](fallback)
	}
	return policy
}

func mustPolicy[L any](name string) resource.Policy[L] {
	policy, err := resource.PolicyByName[L](name)
	if err != nil {
		panic(err)
	}
	return policy
}
