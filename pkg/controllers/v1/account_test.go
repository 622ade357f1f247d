package v1_test

import (
	"net/http"

	v1 "github.com/pocketledger/client/pkg/controllers/v1"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/test"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestGetRoot() {
	w := suite.request(http.MethodGet, "/v1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response v1.RootResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("http://example.com/v1/transactions/unsynced", response.Links.Unsynced)
	suite.Assert().Equal("http://example.com/v1/settings", response.Links.Settings)
}

func (suite *TestSuiteStandard) TestGetAccount() {
	w := suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[*models.Account]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("success", response.State)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Main", response.Data.Name)
	suite.Assert().True(decimal.RequireFromString("100.50").Equal(response.Data.Balance))
	suite.Assert().Nil(response.Error)
}

func (suite *TestSuiteStandard) TestGetAccountServerError() {
	suite.server.FailAlways("GET /accounts/:id", http.StatusInternalServerError)

	w := suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusBadGateway, w.Code, w.Body.String())

	var response v1.ResourceResponse[*models.Account]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("error", response.State)
	suite.Assert().Nil(response.Data, "nothing has been cached")
	suite.Require().NotNil(response.Kind)
	suite.Assert().Equal("server_error", *response.Kind)
	suite.Require().NotNil(response.Error)
	suite.Assert().Equal("The server failed, please try again later", *response.Error)
	suite.Assert().Equal(4, suite.server.Calls("GET /accounts/:id"), "one attempt and three retries")
}

func (suite *TestSuiteStandard) TestGetAccountErrorKeepsCachedData() {
	w := suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	suite.server.FailAlways("GET /accounts/:id", http.StatusInternalServerError)

	w = suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusBadGateway, w.Code, w.Body.String())

	var response v1.ResourceResponse[*models.Account]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("error", response.State)
	suite.Require().NotNil(response.Data)
	suite.Assert().Equal("Main", response.Data.Name)
}

func (suite *TestSuiteStandard) TestGetAccountLocalizedError() {
	_, err := suite.prefs.UpdateSettings(func(s *preferences.Settings) { s.Language = "ru" })
	suite.Require().Nil(err)

	suite.server.FailAlways("GET /accounts/:id", http.StatusInternalServerError)

	w := suite.request(http.MethodGet, "/v1/account", nil)

	var response v1.ResourceResponse[*models.Account]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Require().NotNil(response.Error)
	suite.Assert().Equal("Ошибка сервера, попробуйте позже", *response.Error)
}

func (suite *TestSuiteStandard) TestAccountSnapshot() {
	w := suite.request(http.MethodGet, "/v1/account/snapshot", nil)
	suite.Assert().Equal(http.StatusNotFound, w.Code, "no snapshot before the first fetch")

	w = suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/v1/account/snapshot", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.SnapshotResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal(int64(1), response.Data.ID)
	suite.Assert().Equal("RUB", response.Data.Currency)
}

func (suite *TestSuiteStandard) TestUpdateAccountKeepsUnsetFields() {
	w := suite.request(http.MethodGet, "/v1/account", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request(http.MethodPatch, "/v1/account", `{ "name": "Savings" }`)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.AccountResponse
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("Savings", response.Data.Name)
	suite.Assert().Equal("RUB", response.Data.Currency)
	suite.Assert().True(decimal.RequireFromString("100.50").Equal(response.Data.Balance))

	snapshot, ok, err := suite.controller.Accounts.Snapshot()
	suite.Require().Nil(err)
	suite.Require().True(ok)
	suite.Assert().Equal("Savings", snapshot.Name)
}

func (suite *TestSuiteStandard) TestUpdateAccountBadBody() {
	w := suite.request(http.MethodPatch, "/v1/account", `{ "name": 3 }`)
	suite.Assert().Equal(http.StatusBadRequest, w.Code, w.Body.String())
}

func (suite *TestSuiteStandard) TestOptionsAccount() {
	w := suite.request(http.MethodOptions, "/v1/account", nil)
	suite.Assert().Equal(http.StatusNoContent, w.Code)
	suite.Assert().Equal("OPTIONS, GET, PATCH", w.Header().Get("allow"))
}
