package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is the single account of the user as last confirmed by the server.
type Account struct {
	ID       int64           `json:"id" gorm:"primaryKey;autoIncrement:false" example:"1"`
	Name     string          `json:"name" example:"Main"`
	Balance  decimal.Decimal `json:"balance" gorm:"type:TEXT" example:"100.50"`
	Currency string          `json:"currency" example:"RUB"` // ISO 4217 currency code
}

// BeforeSave trims whitespace and normalizes the currency code.
func (a *Account) BeforeSave(_ *gorm.DB) (err error) {
	a.Name = strings.TrimSpace(a.Name)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	return nil
}
