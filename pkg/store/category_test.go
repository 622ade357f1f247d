package store_test

import (
	"context"

	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/store"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategoriesFilterByType() {
	ctx := context.Background()
	suite.Require().Nil(suite.store.UpsertCategories(ctx, []models.Category{
		{ID: 3, Name: "Salary", Emoji: "💵", IsIncome: true},
		{ID: 1, Name: "Groceries", Emoji: "🛒"},
		{ID: 2, Name: "Rent", Emoji: "🏠"},
	}))

	all, err := suite.store.Categories(store.CategoryFilter{}).Get(ctx)
	suite.Require().Nil(err)
	suite.Require().Len(all, 3)
	suite.Equal([]int64{1, 2, 3}, []int64{all[0].ID, all[1].ID, all[2].ID})

	income := true
	incomes, err := suite.store.Categories(store.CategoryFilter{IsIncome: &income}).Get(ctx)
	suite.Require().Nil(err)
	suite.Require().Len(incomes, 1)
	suite.Equal("Salary", incomes[0].Name)

	expense := false
	expenses, err := suite.store.Categories(store.CategoryFilter{IsIncome: &expense}).Get(ctx)
	suite.Require().Nil(err)
	suite.Len(expenses, 2)
}

func (suite *TestSuiteStandard) TestUpsertCategoriesReplacesByID() {
	ctx := context.Background()
	suite.createCategory(1, "Food", false)
	suite.Require().Nil(suite.store.UpsertCategories(ctx, []models.Category{{ID: 1, Name: "Groceries", Emoji: "🛒"}}))

	category, err := suite.store.Category(1).Get(ctx)
	suite.Require().Nil(err)
	suite.Equal("Groceries", category.Name)
	suite.Equal("🛒", category.Emoji)
}

// A failing row aborts the whole bulk upsert.
func (suite *TestSuiteStandard) TestUpsertCategoriesAtomic() {
	ctx := context.Background()
	suite.Require().Nil(suite.db.Exec(`CREATE TRIGGER reject_boom BEFORE INSERT ON categories
		WHEN NEW.name = 'boom' BEGIN SELECT RAISE(ABORT, 'boom'); END`).Error)

	err := suite.store.UpsertCategories(ctx, []models.Category{
		{ID: 1, Name: "Groceries"},
		{ID: 2, Name: "Rent"},
		{ID: 3, Name: "boom"},
	})
	suite.NotNil(err)

	categories, err := suite.store.Categories(store.CategoryFilter{}).Get(ctx)
	suite.Require().Nil(err)
	suite.Empty(categories)
}

func (suite *TestSuiteStandard) TestDeleteCategoryCascades() {
	ctx := context.Background()
	suite.createCategory(1, "Groceries", false)
	suite.createCategory(2, "Rent", false)

	_, err := suite.store.CreateTransaction(ctx, models.Transaction{CategoryID: 1, Amount: decimal.NewFromInt(10)})
	suite.Require().Nil(err)
	kept, err := suite.store.CreateTransaction(ctx, models.Transaction{CategoryID: 2, Amount: decimal.NewFromInt(20)})
	suite.Require().Nil(err)

	suite.Require().Nil(suite.store.DeleteCategory(ctx, 1))

	transactions, err := suite.store.Transactions(store.TransactionFilter{}).Get(ctx)
	suite.Require().Nil(err)
	suite.Require().Len(transactions, 1)
	suite.Equal(kept.LocalID, transactions[0].LocalID)
}
