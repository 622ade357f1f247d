package v1

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/httputil"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/preferences"
	"github.com/pocketledger/client/pkg/repository"
	"github.com/pocketledger/client/pkg/resource"
	"github.com/pocketledger/client/pkg/store"
	"github.com/pocketledger/client/pkg/syncer"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ResourceResponse is one state of a resource.
type ResourceResponse[T any] struct {
	State string  `json:"state" example:"success"`                // One of loading, success and error
	Data  T       `json:"data"`                                   // Cached data, present in all states once it has been read
	Error *string `json:"error" example:"No internet connection"` // Message for the user, only in the error state
	Kind  *string `json:"kind" example:"no_connectivity"`         // Failure kind, only in the error state
}

func newResourceResponse[T any](r resource.Resource[T], tag language.Tag) ResourceResponse[T] {
	return resource.Match(r,
		func(l resource.Loading[T]) ResourceResponse[T] {
			return ResourceResponse[T]{State: resource.StateLoading, Data: l.Data}
		},
		func(s resource.Success[T]) ResourceResponse[T] {
			return ResourceResponse[T]{State: resource.StateSuccess, Data: s.Data}
		},
		func(e resource.Error[T]) ResourceResponse[T] {
			msg := failure.Message(e.Err, tag)
			kind := failure.KindOf(e.Err).String()
			return ResourceResponse[T]{State: resource.StateError, Data: e.Data, Error: &msg, Kind: &kind}
		},
	)
}

type ResourceQuery struct {
	Stream bool `form:"stream"` // Stream all states as server-sent events
}

type CategoryQuery struct {
	ResourceQuery
	Income *bool `form:"income"` // Only income (true) or expense (false) categories
}

func (q CategoryQuery) filter() store.CategoryFilter {
	return store.CategoryFilter{IsIncome: q.Income}
}

type TransactionQuery struct {
	ResourceQuery
	Income *bool       `form:"income"`                     // Only incomes (true) or expenses (false)
	Start  types.Date  `form:"start" example:"2024-03-01"` // First day of the period. Defaults to the first day of the current month.
	End    types.Date  `form:"end" example:"2024-03-31"`   // Last day of the period, inclusive. Defaults to the last day of the current month.
	Month  types.Month `form:"month" example:"2024-03"`    // Shorthand for the period covering a whole month
}

// filter returns the store filter for the query. Start and end must either
// both be set or both be omitted, and cannot be combined with month.
func (q TransactionQuery) filter() (store.TransactionFilter, error) {
	filter := store.TransactionFilter{IsIncome: q.Income}

	if !q.Month.IsZero() {
		if !q.Start.IsZero() || !q.End.IsZero() {
			return filter, fmt.Errorf("%w: month cannot be combined with start and end", httputil.ErrInvalidQuery)
		}

		period := q.Month.Period()
		filter.Period = &period
		return filter, nil
	}

	if q.Start.IsZero() && q.End.IsZero() {
		return filter, nil
	}

	if q.Start.IsZero() || q.End.IsZero() {
		return filter, fmt.Errorf("%w: start and end must be set together", httputil.ErrInvalidQuery)
	}

	period, err := types.NewPeriod(q.Start, q.End)
	if err != nil {
		return filter, err
	}
	filter.Period = &period

	return filter, nil
}

type TransactionEditable struct {
	CategoryID      int64           `json:"categoryId" example:"3"`                         // ID of the category
	Amount          decimal.Decimal `json:"amount" example:"14.03"`                         // Amount of the transaction, always positive
	TransactionDate time.Time       `json:"transactionDate" example:"2024-05-12T09:30:00Z"` // Defaults to now
	Comment         *string         `json:"comment" example:"Lunch"`                        // Optional comment
}

var ErrAmountNotPositive = errors.New("the amount must be greater than zero")

func (editable TransactionEditable) validate() error {
	if !editable.Amount.IsPositive() {
		return fmt.Errorf("%w: %w", httputil.ErrInvalidBody, ErrAmountNotPositive)
	}
	return nil
}

// model returns the database resource for the editable fields
func (editable TransactionEditable) model() models.Transaction {
	return models.Transaction{
		CategoryID:      editable.CategoryID,
		Amount:          editable.Amount,
		TransactionDate: editable.TransactionDate,
		Comment:         editable.Comment,
	}
}

func transactionEditable(model models.Transaction) TransactionEditable {
	return TransactionEditable{
		CategoryID:      model.CategoryID,
		Amount:          model.Amount,
		TransactionDate: model.TransactionDate,
		Comment:         model.Comment,
	}
}

type TransactionResponse struct {
	Data models.Transaction `json:"data"` // Data for the transaction
}

type AccountEditable struct {
	Name     string          `json:"name" example:"Main"`
	Balance  decimal.Decimal `json:"balance" example:"100.50"`
	Currency string          `json:"currency" example:"RUB"` // ISO 4217 currency code
}

type AccountResponse struct {
	Data models.Account `json:"data"` // Data for the account
}

type SnapshotResponse struct {
	Data preferences.AccountSnapshot `json:"data"` // The account as last saved
}

type SettingsEditable struct {
	Language    *string `json:"language" example:"ru"`
	Theme       *string `json:"theme" example:"dark"`
	ColorScheme *string `json:"colorScheme" example:"green"`
}

type SettingsResponse struct {
	Data preferences.Settings `json:"data"`
}

type Connectivity struct {
	Online bool `json:"online" example:"true"` // Is the finance server reachable?
	Known  bool `json:"known" example:"true"`  // false until the first probe has completed
}

type ConnectivityResponse struct {
	Data Connectivity `json:"data"`
}

type PushResponse struct {
	Data syncer.Report `json:"data"`
}

type PullResponse struct {
	Data repository.PullReport `json:"data"`
}
