package repository_test

import (
	"context"
	"net/http"
	"time"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/store"
	"github.com/pocketledger/client/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestTransactionsOfCurrentMonth() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)

	success, ok := last(suite, transactions.Observe(ctx, store.TransactionFilter{IsIncome: ptr(false)})).(resource.Success[[]models.Transaction])
	suite.Require().True(ok)
	suite.Require().Len(success.Data, 3)

	for _, t := range success.Data {
		suite.Assert().True(t.IsSynced)
		suite.Assert().NotNil(t.ServerID)
		suite.Assert().False(t.Category.IsIncome)
	}

	// All types of the period have been saved
	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)
	suite.Assert().Len(all, 4)
}

func (suite *TestSuiteStandard) TestTransactionsRefetchDoesNotDuplicate() {
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)

	for range 2 {
		n, err := transactions.Pull(context.Background(), types.CurrentMonth())
		suite.Require().Nil(err)
		suite.Assert().Equal(4, n)
	}

	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Len(all, 4)
}

func (suite *TestSuiteStandard) TestTransactionsFailureKeepsCache() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	_, err := transactions.Pull(ctx, types.CurrentMonth())
	suite.Require().Nil(err)

	suite.server.Fail("GET /transactions/account/:accountId/period", http.StatusUnauthorized)

	e, ok := last(suite, transactions.Observe(ctx, store.TransactionFilter{})).(resource.Error[[]models.Transaction])
	suite.Require().True(ok)
	suite.Assert().Equal(failure.ClientError, failure.KindOf(e.Err))
	suite.Assert().Len(e.Data, 4, "the cached transactions are still served")
}

func (suite *TestSuiteStandard) TestObservePeriods() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	periods := make(chan types.Period, 1)
	states := transactions.ObservePeriods(ctx, store.TransactionFilter{}, periods)

	periods <- types.CurrentMonth()
	success, ok := last(suite, states).(resource.Success[[]models.Transaction])
	suite.Require().True(ok)
	suite.Assert().Len(success.Data, 4)

	periods <- types.MonthOf(time.Now()).AddDate(-1, 0).Period()
	success, ok = last(suite, states).(resource.Success[[]models.Transaction])
	suite.Require().True(ok)
	suite.Assert().Empty(success.Data)
	suite.Assert().Equal(2, suite.server.Calls("GET /transactions/account/:accountId/period"))
}

func (suite *TestSuiteStandard) TestCreateIsUnsyncedUntilPushed() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := repository.NewCategories(suite.store, suite.remote, suite.opts).Pull(ctx)
	suite.Require().Nil(err)

	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	unsynced := transactions.Unsynced(ctx)

	success, ok := last(suite, unsynced).(resource.Success[[]models.Transaction])
	suite.Require().True(ok)
	suite.Assert().Empty(success.Data)

	created, err := transactions.Create(ctx, models.Transaction{
		CategoryID: 2,
		Amount:     decimal.RequireFromString("3.50"),
		Comment:    ptr("Coffee"),
	})
	suite.Require().Nil(err)
	suite.Assert().False(created.IsSynced)
	suite.Assert().Nil(created.ServerID)
	suite.Assert().Equal("Food", created.Category.Name)

	select {
	case r := <-unsynced:
		suite.Require().Len(r.Value(), 1)
		suite.Assert().Equal(created.LocalID, r.Value()[0].LocalID)
	case <-time.After(2 * time.Second):
		suite.FailNow("unsynced transactions were not re-emitted")
	}
}

func (suite *TestSuiteStandard) TestCreateUnknownCategory() {
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)

	_, err := transactions.Create(context.Background(), models.Transaction{CategoryID: 99, Amount: decimal.NewFromInt(1)})
	suite.Assert().ErrorIs(err, models.ErrCategoryUnknown)
}

func (suite *TestSuiteStandard) TestDeleteRemovesOnServer() {
	ctx := context.Background()
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	_, err := transactions.Pull(ctx, types.CurrentMonth())
	suite.Require().Nil(err)

	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)
	target := all[0]

	suite.Require().Nil(transactions.Delete(ctx, target.LocalID))
	suite.Assert().Equal(1, suite.server.Calls("DELETE /transactions/:id"))

	_, err = transactions.Get(ctx, target.LocalID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)

	suite.server.Set(func(s *test.Server) {
		for _, t := range s.Transactions {
			suite.Assert().NotEqual(*target.ServerID, t.ID)
		}
	})
}

func (suite *TestSuiteStandard) TestDeleteAlreadyDeletedOnServer() {
	ctx := context.Background()
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	_, err := transactions.Pull(ctx, types.CurrentMonth())
	suite.Require().Nil(err)

	suite.server.Set(func(s *test.Server) { s.Transactions = nil })

	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)

	suite.Require().Nil(transactions.Delete(ctx, all[0].LocalID))
	_, err = transactions.Get(ctx, all[0].LocalID)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestDeleteKeepsLocalRowOnServerError() {
	ctx := context.Background()
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	_, err := transactions.Pull(ctx, types.CurrentMonth())
	suite.Require().Nil(err)

	suite.server.FailAlways("DELETE /transactions/:id", http.StatusServiceUnavailable)

	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)

	err = transactions.Delete(ctx, all[0].LocalID)
	suite.Assert().Equal(failure.ServerError, failure.KindOf(err))
	suite.Assert().Equal(4, suite.server.Calls("DELETE /transactions/:id"))

	_, err = transactions.Get(ctx, all[0].LocalID)
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestDeleteLocalOnlyTransaction() {
	ctx := context.Background()
	suite.Require().Nil(suite.store.UpsertCategory(ctx, models.Category{ID: 2, Name: "Food"}))

	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	created, err := transactions.Create(ctx, models.Transaction{CategoryID: 2, Amount: decimal.NewFromInt(4)})
	suite.Require().Nil(err)

	suite.Require().Nil(transactions.Delete(ctx, created.LocalID))
	suite.Assert().Equal(0, suite.server.Calls("DELETE /transactions/:id"))
}

func (suite *TestSuiteStandard) TestUpdateResetsSyncFlag() {
	ctx := context.Background()
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)
	_, err := transactions.Pull(ctx, types.CurrentMonth())
	suite.Require().Nil(err)

	all, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)

	edit := all[0]
	edit.Amount = decimal.RequireFromString("99.99")
	updated, err := transactions.Update(ctx, edit)
	suite.Require().Nil(err)
	suite.Assert().False(updated.IsSynced)
	suite.Assert().Equal(edit.ServerID, updated.ServerID)
	suite.Assert().Equal("99.99", updated.Amount.String())
}

func (suite *TestSuiteStandard) TestAnalysis() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	analysis := repository.NewAnalysis(repository.NewTransactions(suite.store, suite.remote, suite.opts))

	sums, ok := last(suite, analysis.ObserveCategories(ctx, store.TransactionFilter{IsIncome: ptr(false)})).(resource.Success[[]store.CategorySum])
	suite.Require().True(ok)
	suite.Require().Len(sums.Data, 2)
	suite.Assert().Equal("Rent", sums.Data[0].Category.Name)
	suite.Assert().Equal("Food", sums.Data[1].Category.Name)
	suite.Assert().Equal("20", sums.Data[1].Sum.String())
	suite.Assert().Equal(2, sums.Data[1].Count)

	total, ok := last(suite, analysis.ObserveTotal(ctx, store.TransactionFilter{IsIncome: ptr(false)})).(resource.Success[decimal.Decimal])
	suite.Require().True(ok)
	suite.Assert().Equal("820", total.Data.String())
}

func (suite *TestSuiteStandard) TestRetryOnReconnect() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts := repository.NewAccounts(suite.store, suite.remote, suite.prefs, suite.opts)
	suite.server.FailAlways("GET /accounts/:id", http.StatusBadGateway)

	online := make(chan bool)
	states := repository.RetryOnReconnect(ctx, online, accounts.Observe)

	_, ok := last(suite, states).(resource.Error[*models.Account])
	suite.Require().True(ok)

	suite.server.FailAlways("GET /accounts/:id", 0)
	online <- false
	online <- true

	success, ok := last(suite, states).(resource.Success[*models.Account])
	suite.Require().True(ok)
	suite.Require().NotNil(success.Data)
	suite.Assert().Equal("Main", success.Data.Name)
}

func (suite *TestSuiteStandard) TestRetryOnReconnectIgnoresSuccess() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	accounts := repository.NewAccounts(suite.store, suite.remote, suite.prefs, suite.opts)

	online := make(chan bool)
	states := repository.RetryOnReconnect(ctx, online, accounts.Observe)

	_, ok := last(suite, states).(resource.Success[*models.Account])
	suite.Require().True(ok)

	online <- false
	online <- true

	select {
	case r := <-states:
		suite.Failf("unexpected state", "%#v", r)
	case <-time.After(100 * time.Millisecond):
	}
	suite.Assert().Equal(1, suite.server.Calls("GET /accounts/:id"))
}

var _ repository.Remote = (*remote.Client)(nil)
