package store_test

import (
	"context"

	"github.com/pocketledger/client/pkg/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAccountEmpty() {
	account, err := suite.store.Account().Get(context.Background())
	suite.Nil(err)
	suite.Nil(account)
}

func (suite *TestSuiteStandard) TestUpsertAccountIdempotent() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	live := suite.store.Account().Observe(ctx)
	suite.Nil(receive(suite, live).Data)

	account := models.Account{ID: 1, Name: "Main", Balance: decimal.RequireFromString("100.50"), Currency: "RUB"}
	suite.Require().Nil(suite.store.UpsertAccount(ctx, account))

	s := receive(suite, live)
	suite.Require().Nil(s.Err)
	suite.Require().NotNil(s.Data)
	suite.Equal("Main", s.Data.Name)
	suite.Equal("100.5", s.Data.Balance.String())

	// Upserting the same data again does not change anything observable
	suite.Require().Nil(suite.store.UpsertAccount(ctx, account))
	silent(suite, live)

	var count int64
	suite.Nil(suite.db.Model(&models.Account{}).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *TestSuiteStandard) TestUpsertAccountKeepsSingleAccount() {
	ctx := context.Background()

	suite.Require().Nil(suite.store.UpsertAccount(ctx, models.Account{ID: 1, Name: "Old", Balance: decimal.Zero, Currency: "rub"}))
	suite.Require().Nil(suite.store.UpsertAccount(ctx, models.Account{ID: 2, Name: " New ", Balance: decimal.NewFromInt(5), Currency: "usd"}))

	var accounts []models.Account
	suite.Nil(suite.db.Find(&accounts).Error)
	suite.Require().Len(accounts, 1)
	suite.Equal(int64(2), accounts[0].ID)
	suite.Equal("New", accounts[0].Name)
	suite.Equal("USD", accounts[0].Currency)

	account, err := suite.store.AccountByID(1).Get(ctx)
	suite.Nil(err)
	suite.Nil(account)
}

func (suite *TestSuiteStandard) TestUpsertAccountUpdatesBalance() {
	ctx := context.Background()

	suite.Require().Nil(suite.store.UpsertAccount(ctx, models.Account{ID: 1, Name: "Main", Balance: decimal.RequireFromString("10.00"), Currency: "RUB"}))
	suite.Require().Nil(suite.store.UpsertAccount(ctx, models.Account{ID: 1, Name: "Main", Balance: decimal.RequireFromString("7.25"), Currency: "RUB"}))

	account, err := suite.store.AccountByID(1).Get(ctx)
	suite.Require().Nil(err)
	suite.True(decimal.RequireFromString("7.25").Equal(account.Balance))
}
