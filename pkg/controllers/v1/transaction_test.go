package v1_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/pocketledger/client/pkg/controllers/v1"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/store"
	"github.com/pocketledger/client/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGetTransactionsOfCurrentMonth() {
	w := suite.request(http.MethodGet, "/v1/transactions", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("success", response.State)
	suite.Assert().Len(response.Data, 4)
}

func (suite *TestSuiteStandard) TestGetTransactionsByType() {
	w := suite.request(http.MethodGet, "/v1/transactions?income=false", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Require().Len(response.Data, 3)
	for _, t := range response.Data {
		suite.Assert().False(t.Category.IsIncome)
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsOfOtherPeriod() {
	w := suite.request(http.MethodGet, "/v1/transactions?start=2020-03-01&end=2020-03-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("success", response.State)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestGetTransactionsInvalidQuery() {
	tests := []struct {
		name  string
		query string
	}{
		{"Start without end", "start=2024-03-01"},
		{"End without start", "end=2024-03-01"},
		{"Reversed period", "start=2024-03-02&end=2024-03-01"},
		{"Unparseable date", "start=March&end=April"},
		{"Unparseable type", "income=maybe"},
		{"Unparseable month", "month=March"},
		{"Month with period", "month=2024-03&start=2024-03-01&end=2024-03-31"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			w := suite.request(http.MethodGet, "/v1/transactions?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	suite.Assert().Equal(0, suite.server.Calls("GET /transactions/account/:accountId/period"))
}

func (suite *TestSuiteStandard) TestGetTransactionAnalysis() {
	w := suite.request(http.MethodGet, "/v1/transactions/analysis?income=false", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]store.CategorySum]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Require().Len(response.Data, 2)
	suite.Assert().Equal("Rent", response.Data[0].Category.Name)
	suite.Assert().True(decimal.RequireFromString("800").Equal(response.Data[0].Sum))
	suite.Assert().Equal("Food", response.Data[1].Category.Name)
	suite.Assert().True(decimal.RequireFromString("20").Equal(response.Data[1].Sum))
	suite.Assert().Equal(2, response.Data[1].Count)
}

func (suite *TestSuiteStandard) TestGetTransactionTotal() {
	w := suite.request(http.MethodGet, "/v1/transactions/total?income=false", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[decimal.Decimal]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().True(decimal.RequireFromString("820").Equal(response.Data), response.Data.String())
}

func (suite *TestSuiteStandard) TestCreateTransaction() {
	suite.cacheCategories()

	transaction := suite.createTransaction(`{ "categoryId": 2, "amount": "15.50", "comment": " Lunch " }`)
	suite.Assert().NotEqual(uuid.Nil, transaction.LocalID)
	suite.Assert().Nil(transaction.ServerID)
	suite.Assert().False(transaction.IsSynced)
	suite.Assert().Equal("Food", transaction.Category.Name)
	suite.Require().NotNil(transaction.Comment)
	suite.Assert().Equal("Lunch", *transaction.Comment)
	suite.Assert().False(transaction.TransactionDate.IsZero(), "the date defaults to now")

	w := suite.request(http.MethodGet, "/v1/transactions/unsynced", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal(transaction.LocalID, response.Data[0].LocalID)
	suite.Assert().Equal(0, suite.server.Calls("POST /transactions"), "creating only records locally")
}

func (suite *TestSuiteStandard) TestCreateTransactionInvalid() {
	suite.cacheCategories()

	tests := []struct {
		name string
		body string
	}{
		{"Empty body", ""},
		{"Broken JSON", `{ "categoryId": 2, `},
		{"Zero amount", `{ "categoryId": 2, "amount": "0" }`},
		{"Negative amount", `{ "categoryId": 2, "amount": "-4" }`},
		{"Unknown category", `{ "categoryId": 99, "amount": "4" }`},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			w := suite.request(http.MethodPost, "/v1/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func (suite *TestSuiteStandard) TestGetTransaction() {
	suite.cacheCategories()
	created := suite.createTransaction(`{ "categoryId": 3, "amount": "900" }`)

	w := suite.request(http.MethodGet, "/v1/transactions/"+created.LocalID.String(), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(created.LocalID, response.Data.LocalID)

	w = suite.request(http.MethodGet, "/v1/transactions/"+uuid.NewString(), nil)
	suite.Assert().Equal(http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/v1/transactions/not-a-uuid", nil)
	suite.Assert().Equal(http.StatusBadRequest, w.Code)
}

func (suite *TestSuiteStandard) TestUpdateTransactionKeepsUnsetFields() {
	w := suite.request(http.MethodGet, "/v1/transactions", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var list v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &list)
	suite.Require().NotEmpty(list.Data)
	synced := list.Data[0]
	suite.Require().True(synced.IsSynced)

	w = suite.request(http.MethodPatch, "/v1/transactions/"+synced.LocalID.String(), `{ "comment": "Edited" }`)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.TransactionResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().False(response.Data.IsSynced, "local edits are unsynced")
	suite.Assert().Equal(synced.ServerID, response.Data.ServerID)
	suite.Assert().True(synced.Amount.Equal(response.Data.Amount))
	suite.Assert().Equal(synced.CategoryID, response.Data.CategoryID)
	suite.Require().NotNil(response.Data.Comment)
	suite.Assert().Equal("Edited", *response.Data.Comment)
}

func (suite *TestSuiteStandard) TestUpdateTransactionInvalid() {
	suite.cacheCategories()
	created := suite.createTransaction(`{ "categoryId": 3, "amount": "900" }`)

	w := suite.request(http.MethodPatch, "/v1/transactions/"+created.LocalID.String(), `{ "amount": "0" }`)
	suite.Assert().Equal(http.StatusBadRequest, w.Code, w.Body.String())

	w = suite.request(http.MethodPatch, "/v1/transactions/"+uuid.NewString(), `{ "amount": "3" }`)
	suite.Assert().Equal(http.StatusNotFound, w.Code, w.Body.String())
}

func (suite *TestSuiteStandard) TestDeleteLocalTransaction() {
	suite.cacheCategories()
	created := suite.createTransaction(`{ "categoryId": 3, "amount": "900" }`)

	w := suite.request(http.MethodDelete, "/v1/transactions/"+created.LocalID.String(), nil)
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
	suite.Assert().Equal(0, suite.server.Calls("DELETE /transactions/:id"), "the server does not know the transaction")

	w = suite.request(http.MethodGet, "/v1/transactions/"+created.LocalID.String(), nil)
	suite.Assert().Equal(http.StatusNotFound, w.Code)
}

func (suite *TestSuiteStandard) TestDeleteSyncedTransactionOffline() {
	w := suite.request(http.MethodGet, "/v1/transactions", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var list v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &list)
	suite.Require().NotEmpty(list.Data)
	localID := list.Data[0].LocalID

	suite.server.FailAlways("DELETE /transactions/:id", http.StatusServiceUnavailable)

	w = suite.request(http.MethodDelete, "/v1/transactions/"+localID.String(), nil)
	suite.Assert().Equal(http.StatusBadGateway, w.Code, w.Body.String())

	// The transaction is kept until the server has deleted it
	w = suite.request(http.MethodGet, "/v1/transactions/"+localID.String(), nil)
	suite.Assert().Equal(http.StatusOK, w.Code)
}

func (suite *TestSuiteStandard) TestStreamTransactions() {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	w := suite.requestContext(ctx, http.MethodGet, "/v1/transactions?stream=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Assert().Contains(w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	loading := strings.Index(body, "event:loading")
	success := strings.Index(body, "event:success")
	suite.Require().NotEqual(-1, loading, body)
	suite.Require().NotEqual(-1, success, body)
	suite.Assert().Less(loading, success, "loading is sent before success")
}

func (suite *TestSuiteStandard) TestOptionsTransactions() {
	tests := []struct {
		path   string
		status int
		allow  string
	}{
		{"/v1/transactions", http.StatusNoContent, "OPTIONS, GET, POST"},
		{"/v1/transactions/unsynced", http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/transactions/analysis", http.StatusNoContent, "OPTIONS, GET"},
		{fmt.Sprintf("/v1/transactions/%s", uuid.New()), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"/v1/transactions/not-a-uuid", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		w := suite.request(http.MethodOptions, tt.path, nil)
		suite.Assert().Equal(tt.status, w.Code, tt.path)
		suite.Assert().Equal(tt.allow, w.Header().Get("allow"), tt.path)
	}
}
