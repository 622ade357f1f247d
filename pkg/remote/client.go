// Package remote is the HTTP client for the finance server.
//
// Every call returns either the decoded representation or a *failure.Error.
// Calls are never retried here, see package retry.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/rs/zerolog"
)

const maxErrorBody = 4 << 10

// Config configures the Client.
type Config struct {
	BaseURL *url.URL
	Token   string        // Bearer token sent with every request
	Timeout time.Duration // Timeout of a single HTTP request. 0 disables it.
}

// Client calls the REST API of the finance server.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
	logger  zerolog.Logger
}

// New returns a Client for the server at cfg.BaseURL.
func New(cfg Config, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger.With().Str("component", "remote").Logger(),
	}
}

// GetAccount returns the account with the given ID.
func (c *Client) GetAccount(ctx context.Context, id int64) (AccountRepr, error) {
	var account AccountRepr
	err := c.do(ctx, http.MethodGet, c.url(nil, "accounts", strconv.FormatInt(id, 10)), nil, &account)
	return account, err
}

// UpdateAccount replaces name, balance and currency of the account.
func (c *Client) UpdateAccount(ctx context.Context, id int64, update AccountUpdate) (AccountRepr, error) {
	var account AccountRepr
	err := c.do(ctx, http.MethodPut, c.url(nil, "accounts", strconv.FormatInt(id, 10)), update, &account)
	return account, err
}

// GetAllCategories returns all income and expense categories.
func (c *Client) GetAllCategories(ctx context.Context) ([]CategoryRepr, error) {
	var categories []CategoryRepr
	err := c.do(ctx, http.MethodGet, c.url(nil, "categories"), nil, &categories)
	return categories, err
}

// GetCategoriesByType returns either the income or the expense categories.
func (c *Client) GetCategoriesByType(ctx context.Context, isIncome bool) ([]CategoryRepr, error) {
	var categories []CategoryRepr
	err := c.do(ctx, http.MethodGet, c.url(nil, "categories", "type", strconv.FormatBool(isIncome)), nil, &categories)
	return categories, err
}

// GetTransactionsByPeriod returns the transactions of the account within
// the inclusive period.
func (c *Client) GetTransactionsByPeriod(ctx context.Context, accountID int64, period types.Period) ([]TransactionRepr, error) {
	query := url.Values{}
	query.Set("startDate", period.Start.String())
	query.Set("endDate", period.End.String())

	var transactions []TransactionRepr
	err := c.do(ctx, http.MethodGet, c.url(query, "transactions", "account", strconv.FormatInt(accountID, 10), "period"), nil, &transactions)
	return transactions, err
}

// CreateTransaction creates a transaction on the server.
func (c *Client) CreateTransaction(ctx context.Context, request TransactionRequest) (TransactionResult, error) {
	var result TransactionResult
	err := c.do(ctx, http.MethodPost, c.url(nil, "transactions"), request, &result)
	return result, err
}

// UpdateTransaction replaces the transaction with the given server ID.
func (c *Client) UpdateTransaction(ctx context.Context, id int64, request TransactionRequest) (TransactionResult, error) {
	var result TransactionResult
	err := c.do(ctx, http.MethodPut, c.url(nil, "transactions", strconv.FormatInt(id, 10)), request, &result)
	return result, err
}

// DeleteTransaction deletes the transaction with the given server ID.
func (c *Client) DeleteTransaction(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.url(nil, "transactions", strconv.FormatInt(id, 10)), nil, nil)
}

func (c *Client) url(query url.Values, elem ...string) *url.URL {
	u := c.baseURL.JoinPath(elem...)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return u
}

// do executes the request and decodes the JSON response into target.
// A nil target discards the response body.
func (c *Client) do(ctx context.Context, method string, u *url.URL, body, target any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return failure.New(failure.Unknown, fmt.Errorf("encoding request body: %w", err))
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return failure.New(failure.Unknown, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		f := failure.Classify(err)
		c.logger.Debug().Str("method", method).Str("url", u.Redacted()).Err(f).Msg("request failed")
		return f
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("url", u.Redacted()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure.FromStatus(resp.StatusCode, errorMessage(resp.Body))
	}

	if target == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		// A cancelled context surfaces while reading the body
		if ctx.Err() != nil {
			return failure.Classify(ctx.Err())
		}
		return failure.New(failure.DecodeError, err)
	}

	return nil
}

// errorMessage extracts a message from an error response. JSON bodies of
// the form {"error": "..."} or {"message": "..."} yield their message.
func errorMessage(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))

	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if e.Message != "" {
			return e.Message
		}
	}

	return strings.TrimSpace(string(b))
}
