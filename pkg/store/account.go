package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/pocketledger/client/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertAccount stores the account, replacing any other cached account.
func (s *Store) UpsertAccount(ctx context.Context, account models.Account) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id <> ?", account.ID).Delete(&models.Account{}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&account).Error
	})
	if err != nil {
		return fmt.Errorf("saving account %d: %w", account.ID, err)
	}

	s.hub.publish(TableAccounts)
	return nil
}

// Account returns the cached account, nil when there is none.
func (s *Store) Account() Query[*models.Account] {
	return newQuery(s, func(db *gorm.DB) (*models.Account, error) {
		return first[models.Account](db.Order("id"))
	}, TableAccounts)
}

// AccountByID returns the cached account if it has the given ID.
func (s *Store) AccountByID(id int64) Query[*models.Account] {
	return newQuery(s, func(db *gorm.DB) (*models.Account, error) {
		return first[models.Account](db.Where("id = ?", id))
	}, TableAccounts)
}

// first returns the first row of the query, nil when there is none.
func first[T any](db *gorm.DB) (*T, error) {
	var row T
	err := db.First(&row).Error
	if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &row, nil
}
