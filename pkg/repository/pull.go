package repository

import (
	"context"
	"fmt"

	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/models"
)

// PullReport is the outcome of a pull.
type PullReport struct {
	Account      models.Account `json:"account"`
	Categories   int            `json:"categories" example:"12"`    // Number of categories saved
	Transactions int            `json:"transactions" example:"184"` // Number of transactions saved for the period
	Period       types.Period   `json:"period"`
}

// Pull fetches the account, all categories and the transactions of the
// period once and saves them. It stops at the first failure, data saved
// before stays in the cache.
//
// Categories are pulled before transactions so that the transactions
// reference cached categories.
func Pull(ctx context.Context, a *Accounts, c *Categories, t *Transactions, period types.Period) (PullReport, error) {
	report := PullReport{Period: period}

	account, err := a.Pull(ctx)
	if err != nil {
		return report, fmt.Errorf("pulling account: %w", err)
	}
	report.Account = account

	categories, err := c.Pull(ctx)
	if err != nil {
		return report, fmt.Errorf("pulling categories: %w", err)
	}
	report.Categories = len(categories)

	report.Transactions, err = t.Pull(ctx, period)
	if err != nil {
		return report, fmt.Errorf("pulling transactions: %w", err)
	}

	return report, nil
}
