package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is an income or expense.
//
// LocalID is assigned on the device and never changes. ServerID is set once
// the server has confirmed the transaction. IsSynced is false as long as the
// local state has not been confirmed by the server.
type Transaction struct {
	LocalID         uuid.UUID       `json:"localId" gorm:"primaryKey" example:"65392deb-5e92-4268-b114-297faad6cdce"`
	ServerID        *int64          `json:"serverId" gorm:"uniqueIndex" example:"1843"`
	CategoryID      int64           `json:"categoryId" gorm:"index" example:"3"`
	Category        Category        `json:"category" gorm:"constraint:OnDelete:CASCADE"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:TEXT" example:"1500.00"`
	TransactionDate time.Time       `json:"transactionDate" gorm:"index" example:"2024-05-12T09:30:00Z"`
	Comment         *string         `json:"comment" example:"Lunch"`
	Timestamps
	IsSynced bool `json:"isSynced" gorm:"index" example:"true"`
}

// BeforeCreate generates the local ID for new transactions.
func (t *Transaction) BeforeCreate(_ *gorm.DB) (err error) {
	if t.LocalID == uuid.Nil {
		t.LocalID = uuid.New()
	}
	return nil
}

// BeforeSave
//   - sets the timezone of the TransactionDate to UTC
//   - trims whitespace from the comment and clears empty comments
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	if t.TransactionDate.IsZero() {
		t.TransactionDate = time.Now().In(time.UTC)
	} else {
		t.TransactionDate = t.TransactionDate.In(time.UTC)
	}

	if t.Comment != nil {
		trimmed := strings.TrimSpace(*t.Comment)
		if trimmed == "" {
			t.Comment = nil
		} else {
			t.Comment = &trimmed
		}
	}

	return nil
}

// AfterFind enforces UTC for all times.
func (t *Transaction) AfterFind(_ *gorm.DB) (err error) {
	t.Timestamps.utc()
	t.TransactionDate = t.TransactionDate.In(time.UTC)
	return nil
}
