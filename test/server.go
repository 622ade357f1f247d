package test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pocketledger/client/pkg/remote"
)

// Token is the bearer token the fake server accepts.
const Token = "test-token"

// Server is an in-memory fake of the finance server.
//
// Routes are identified as "METHOD /path/:param", e.g. "GET /accounts/:id".
type Server struct {
	server *httptest.Server

	mu           sync.Mutex
	Account      remote.AccountRepr
	Categories   []remote.CategoryRepr
	Transactions []remote.TransactionRepr
	nextID       int64
	calls        map[string]int
	failures     map[string][]int
	always       map[string]int
}

// NewServer starts a fake server that is closed when the test ends.
func NewServer(t *testing.T) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		nextID:   1000,
		calls:    make(map[string]int),
		failures: make(map[string][]int),
		always:   make(map[string]int),
	}

	r := gin.New()
	r.Use(s.middleware)

	r.GET("/accounts/:id", s.getAccount)
	r.PUT("/accounts/:id", s.updateAccount)
	r.GET("/categories", s.getCategories)
	r.GET("/categories/type/:isIncome", s.getCategoriesByType)
	r.GET("/transactions/account/:accountId/period", s.getTransactions)
	r.POST("/transactions", s.createTransaction)
	r.PUT("/transactions/:id", s.updateTransaction)
	r.DELETE("/transactions/:id", s.deleteTransaction)

	s.server = httptest.NewServer(r)
	t.Cleanup(s.server.Close)

	return s
}

// BaseURL returns the URL of the server.
func (s *Server) BaseURL() *url.URL {
	u, _ := url.Parse(s.server.URL)
	return u
}

// Fail makes the next calls of the route fail with the given status codes, in order.
func (s *Server) Fail(route string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], statuses...)
}

// FailAlways makes every call of the route fail with status. 0 stops failing.
func (s *Server) FailAlways(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.always[route] = status
}

// Calls returns how often the route has been called.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// Set replaces the server state under the lock.
func (s *Server) Set(f func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s)
}

func (s *Server) middleware(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	s.calls[route]++
	status := s.always[route]
	if status == 0 && len(s.failures[route]) > 0 {
		status = s.failures[route][0]
		s.failures[route] = s.failures[route][1:]
	}
	s.mu.Unlock()

	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
		return
	}

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}

	c.Next()
}

func (s *Server) getAccount(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.Param("id") != strconv.FormatInt(s.Account.ID, 10) {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, s.Account)
}

func (s *Server) updateAccount(c *gin.Context) {
	var update remote.AccountUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Account.Name = update.Name
	s.Account.Balance = update.Balance
	s.Account.Currency = update.Currency
	s.Account.UpdatedAt = time.Now().UTC()
	c.JSON(http.StatusOK, s.Account)
}

func (s *Server) getCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.Categories)
}

func (s *Server) getCategoriesByType(c *gin.Context) {
	income, err := strconv.ParseBool(c.Param("isIncome"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]remote.CategoryRepr, 0)
	for _, category := range s.Categories {
		if category.IsIncome == income {
			categories = append(categories, category)
		}
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) getTransactions(c *gin.Context) {
	start, errStart := time.Parse(time.DateOnly, c.Query("startDate"))
	end, errEnd := time.Parse(time.DateOnly, c.Query("endDate"))
	if errStart != nil || errEnd != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate and endDate must be YYYY-MM-DD"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]remote.TransactionRepr, 0)
	for _, t := range s.Transactions {
		if strconv.FormatInt(t.Account.ID, 10) != c.Param("accountId") {
			continue
		}
		if t.TransactionDate.Before(start) || !t.TransactionDate.Before(end.AddDate(0, 0, 1)) {
			continue
		}
		transactions = append(transactions, t)
	}
	c.JSON(http.StatusOK, transactions)
}

func (s *Server) createTransaction(c *gin.Context) {
	var request remote.TransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	repr, ok := s.transaction(s.nextID, request)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}

	s.Transactions = append(s.Transactions, repr)
	c.JSON(http.StatusCreated, result(repr))
}

func (s *Server) updateTransaction(c *gin.Context) {
	var request remote.TransactionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.Transactions, func(t remote.TransactionRepr) bool { return t.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	repr, ok := s.transaction(id, request)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	repr.CreatedAt = s.Transactions[i].CreatedAt
	s.Transactions[i] = repr
	c.JSON(http.StatusOK, result(repr))
}

func (s *Server) deleteTransaction(c *gin.Context) {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.Transactions, func(t remote.TransactionRepr) bool { return t.ID == id })
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	s.Transactions = slices.Delete(s.Transactions, i, i+1)
	c.Status(http.StatusNoContent)
}

// transaction builds the representation for a request. It must be called with the lock held.
func (s *Server) transaction(id int64, request remote.TransactionRequest) (remote.TransactionRepr, bool) {
	i := slices.IndexFunc(s.Categories, func(c remote.CategoryRepr) bool { return c.ID == request.CategoryID })
	if i < 0 {
		return remote.TransactionRepr{}, false
	}

	now := time.Now().UTC()
	return remote.TransactionRepr{
		ID: id,
		Account: remote.AccountBrief{
			ID:       request.AccountID,
			Name:     s.Account.Name,
			Balance:  s.Account.Balance,
			Currency: s.Account.Currency,
		},
		Category:        s.Categories[i],
		Amount:          request.Amount,
		TransactionDate: request.TransactionDate,
		Comment:         request.Comment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, true
}

func result(t remote.TransactionRepr) remote.TransactionResult {
	return remote.TransactionResult{
		ID:              t.ID,
		AccountID:       t.Account.ID,
		CategoryID:      t.Category.ID,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Comment:         t.Comment,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
