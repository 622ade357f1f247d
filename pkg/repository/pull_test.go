package repository_test

import (
	"context"
	"net/http"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/pocketledger/client/pkg/store"
)

func (suite *TestSuiteStandard) TestPull() {
	ctx := context.Background()
	accounts := repository.NewAccounts(suite.store, suite.remote, suite.prefs, suite.opts)
	categories := repository.NewCategories(suite.store, suite.remote, suite.opts)
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)

	report, err := repository.Pull(ctx, accounts, categories, transactions, types.CurrentMonth())
	suite.Require().Nil(err)
	suite.Assert().Equal(int64(1), report.Account.ID)
	suite.Assert().Equal(3, report.Categories)
	suite.Assert().Equal(4, report.Transactions)

	cached, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)
	suite.Assert().Len(cached, 4)
}

func (suite *TestSuiteStandard) TestPullStopsAtFirstFailure() {
	ctx := context.Background()
	accounts := repository.NewAccounts(suite.store, suite.remote, suite.prefs, suite.opts)
	categories := repository.NewCategories(suite.store, suite.remote, suite.opts)
	transactions := repository.NewTransactions(suite.store, suite.remote, suite.opts)

	suite.server.FailAlways("GET /categories", http.StatusBadRequest)

	report, err := repository.Pull(ctx, accounts, categories, transactions, types.CurrentMonth())
	suite.Assert().Equal(failure.ClientError, failure.KindOf(err))
	suite.Assert().Equal(int64(1), report.Account.ID, "the account was pulled before the failure")
	suite.Assert().Equal(0, suite.server.Calls("GET /transactions/account/:accountId/period"))
}
