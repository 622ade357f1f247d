package v1_test

import (
	"net/http"

	v1 "github.com/pocketledger/client/pkg/controllers/v1"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/test"
)

func (suite *TestSuiteStandard) TestPush() {
	suite.cacheCategories()
	created := suite.createTransaction(`{ "categoryId": 2, "amount": "3.20" }`)

	w := suite.request(http.MethodPost, "/v1/sync/push", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.PushResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(1, response.Data.Pushed)
	suite.Assert().Equal(0, response.Data.Failed)

	w = suite.request(http.MethodGet, "/v1/transactions/"+created.LocalID.String(), nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var transaction v1.TransactionResponse
	test.DecodeResponse(suite.T(), w, &transaction)
	suite.Assert().True(transaction.Data.IsSynced)
	suite.Assert().NotNil(transaction.Data.ServerID)
}

func (suite *TestSuiteStandard) TestPushReportsFailures() {
	suite.cacheCategories()
	suite.createTransaction(`{ "categoryId": 2, "amount": "3.20" }`)
	suite.server.FailAlways("POST /transactions", http.StatusInternalServerError)

	w := suite.request(http.MethodPost, "/v1/sync/push", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.PushResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(0, response.Data.Pushed)
	suite.Assert().Equal(1, response.Data.Failed)
	suite.Assert().Len(response.Data.Errors, 1)

	w = suite.request(http.MethodGet, "/v1/transactions/unsynced", nil)
	var unsynced v1.ResourceResponse[[]models.Transaction]
	test.DecodeResponse(suite.T(), w, &unsynced)
	suite.Assert().Len(unsynced.Data, 1, "the transaction stays unsynced")
}

func (suite *TestSuiteStandard) TestPull() {
	w := suite.request(http.MethodPost, "/v1/sync/pull", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.PullResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("Main", response.Data.Account.Name)
	suite.Assert().Equal(3, response.Data.Categories)
	suite.Assert().Equal(4, response.Data.Transactions)
}

func (suite *TestSuiteStandard) TestPullOfPeriod() {
	w := suite.request(http.MethodPost, "/v1/sync/pull?start=2020-01-01&end=2020-01-31", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.PullResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(0, response.Data.Transactions)
	suite.Assert().Equal("2020-01-01", response.Data.Period.Start.String())
}

func (suite *TestSuiteStandard) TestPullFailure() {
	suite.server.FailAlways("GET /accounts/:id", http.StatusNotFound)

	w := suite.request(http.MethodPost, "/v1/sync/pull", nil)
	suite.Assert().Equal(http.StatusNotFound, w.Code, w.Body.String())
}

func (suite *TestSuiteStandard) TestGetSettingsDefaults() {
	w := suite.request(http.MethodGet, "/v1/settings", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(preferences.DefaultSettings, response.Data)
}

func (suite *TestSuiteStandard) TestUpdateSettings() {
	w := suite.request(http.MethodPatch, "/v1/settings", `{ "theme": "dark" }`)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("dark", response.Data.Theme)
	suite.Assert().Equal("en", response.Data.Language, "unset fields are kept")

	settings, err := suite.prefs.Settings.Load()
	suite.Require().Nil(err)
	suite.Assert().Equal("dark", settings.Theme)
}

func (suite *TestSuiteStandard) TestUpdateSettingsInvalid() {
	tests := []string{
		`{ "theme": "sepia" }`,
		`{ "language": "not a language tag" }`,
		`{ "theme": 4 }`,
	}

	for _, body := range tests {
		w := suite.request(http.MethodPatch, "/v1/settings", body)
		suite.Assert().Equal(http.StatusBadRequest, w.Code, body)
	}

	settings, err := suite.prefs.Settings.Load()
	suite.Require().Nil(err)
	suite.Assert().Equal(preferences.DefaultSettings, settings, "invalid settings are not saved")
}

func (suite *TestSuiteStandard) TestGetConnectivityWithoutObserver() {
	w := suite.request(http.MethodGet, "/v1/connectivity", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ConnectivityResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().False(response.Data.Known)
}

func (suite *TestSuiteStandard) TestPullOfMonth() {
	w := suite.request(http.MethodPost, "/v1/sync/pull?month=2020-02", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.PullResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(0, response.Data.Transactions)
	suite.Assert().Equal("2020-02-01", response.Data.Period.Start.String())
	suite.Assert().Equal("2020-02-29", response.Data.Period.End.String())
}
