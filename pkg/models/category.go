package models

import (
	"strings"

	"gorm.io/gorm"
)

// Category is an income or expense category. IDs are assigned by the
// server and unique across both kinds.
type Category struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement:false" example:"3"`
	Name     string `json:"name" example:"Groceries"`
	Emoji    string `json:"emoji" example:"🛒"`
	IsIncome bool   `json:"isIncome" gorm:"index" example:"false"`
}

func (c *Category) BeforeSave(_ *gorm.DB) (err error) {
	c.Name = strings.TrimSpace(c.Name)
	return nil
}
