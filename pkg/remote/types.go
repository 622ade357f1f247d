package remote

import (
	"time"

	"github.com/pocketledger/client/pkg/models"
	"github.com/shopspring/decimal"
)

// AccountRepr is the server representation of an account.
type AccountRepr struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AccountBrief is the account as embedded in other resources.
type AccountBrief struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// AccountUpdate is the body of an account update.
type AccountUpdate struct {
	Name     string          `json:"name"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

// CategoryRepr is the server representation of a category.
type CategoryRepr struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji"`
	IsIncome bool   `json:"isIncome"`
}

// TransactionRepr is the server representation of a transaction.
type TransactionRepr struct {
	ID              int64           `json:"id"`
	Account         AccountBrief    `json:"account"`
	Category        CategoryRepr    `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Comment         *string         `json:"comment"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// TransactionRequest is the body for creating or updating a transaction.
type TransactionRequest struct {
	AccountID       int64           `json:"accountId"`
	CategoryID      int64           `json:"categoryId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Comment         *string         `json:"comment"`
}

// TransactionResult is the server response to a transaction write.
type TransactionResult struct {
	ID              int64           `json:"id"`
	AccountID       int64           `json:"accountId"`
	CategoryID      int64           `json:"categoryId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	Comment         *string         `json:"comment"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Model returns the cache representation of the account.
func (a AccountRepr) Model() models.Account {
	return models.Account{
		ID:       a.ID,
		Name:     a.Name,
		Balance:  a.Balance,
		Currency: a.Currency,
	}
}

// Model returns the cache representation of the category.
func (c CategoryRepr) Model() models.Category {
	return models.Category{
		ID:       c.ID,
		Name:     c.Name,
		Emoji:    c.Emoji,
		IsIncome: c.IsIncome,
	}
}

// Model returns the cache representation of the transaction. It is synced
// by definition.
func (t TransactionRepr) Model() models.Transaction {
	id := t.ID
	return models.Transaction{
		ServerID:        &id,
		CategoryID:      t.Category.ID,
		Category:        t.Category.Model(),
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate,
		Comment:         t.Comment,
		Timestamps: models.Timestamps{
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		},
		IsSynced: true,
	}
}

// NewTransactionRequest returns the request body for the local transaction.
func NewTransactionRequest(accountID int64, t models.Transaction) TransactionRequest {
	return TransactionRequest{
		AccountID:       accountID,
		CategoryID:      t.CategoryID,
		Amount:          t.Amount,
		TransactionDate: t.TransactionDate.In(time.UTC),
		Comment:         t.Comment,
	}
}

// Categories converts category representations to cache models.
func Categories(reprs []CategoryRepr) []models.Category {
	categories := make([]models.Category, 0, len(reprs))
	for _, r := range reprs {
		categories = append(categories, r.Model())
	}
	return categories
}

// Transactions converts transaction representations to cache models.
func Transactions(reprs []TransactionRepr) []models.Transaction {
	transactions := make([]models.Transaction, 0, len(reprs))
	for _, r := range reprs {
		transactions = append(transactions, r.Model())
	}
	return transactions
}
