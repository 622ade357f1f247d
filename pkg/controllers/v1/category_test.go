package v1_test

import (
	"context"
	"net/http"
	"strings"
	"time"

	v1 "github.com/pocketledger/client/pkg/controllers/v1"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/test"
)

func (suite *TestSuiteStandard) TestGetCategories() {
	w := suite.request(http.MethodGet, "/v1/categories", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Category]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Assert().Equal("success", response.State)
	suite.Require().Len(response.Data, 3)
	suite.Assert().Equal("Salary", response.Data[0].Name)
}

func (suite *TestSuiteStandard) TestGetCategoriesByType() {
	w := suite.request(http.MethodGet, "/v1/categories?income=true", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var response v1.ResourceResponse[[]models.Category]
	test.DecodeResponse(suite.T(), w, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().True(response.Data[0].IsIncome)
}

func (suite *TestSuiteStandard) TestGetCategoriesOnlyFetchesWhenEmpty() {
	for range 2 {
		w := suite.request(http.MethodGet, "/v1/categories", nil)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	}

	suite.Assert().Equal(1, suite.server.Calls("GET /categories"))
}

func (suite *TestSuiteStandard) TestGetCategoriesInvalidQuery() {
	w := suite.request(http.MethodGet, "/v1/categories?income=sometimes", nil)
	suite.Assert().Equal(http.StatusBadRequest, w.Code, w.Body.String())
}

func (suite *TestSuiteStandard) TestStreamCategoriesError() {
	suite.server.FailAlways("GET /categories", http.StatusBadRequest)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	w := suite.requestContext(ctx, http.MethodGet, "/v1/categories?stream=true", nil)
	body := w.Body.String()
	suite.Assert().Contains(body, "event:loading", body)
	suite.Assert().Contains(body, "event:error", body)
	suite.Assert().Contains(body, `"kind":"client_error"`, body)
	suite.Assert().False(strings.Contains(body, "event:success"), body)
}
