package store

import (
	"context"
	"fmt"

	"github.com/pocketledger/client/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryFilter restricts category queries.
type CategoryFilter struct {
	IsIncome *bool // Only income or only expense categories. nil for both.
}

// UpsertCategories stores all categories in one transaction: either all of
// them are written or none.
func (s *Store) UpsertCategories(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertCategories(tx, categories)
	})
	if err != nil {
		return fmt.Errorf("saving %d categories: %w", len(categories), err)
	}

	s.hub.publish(TableCategories, TableTransactions)
	return nil
}

// UpsertCategory stores a single category.
func (s *Store) UpsertCategory(ctx context.Context, category models.Category) error {
	return s.UpsertCategories(ctx, []models.Category{category})
}

// DeleteCategory removes a category and, by cascade, its transactions.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Delete(&models.Category{}, id).Error
	if err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}

	s.hub.publish(TableCategories, TableTransactions)
	return nil
}

// Categories returns the cached categories ordered by ID.
func (s *Store) Categories(filter CategoryFilter) Query[[]models.Category] {
	return newQuery(s, func(db *gorm.DB) ([]models.Category, error) {
		q := db.Order("id")
		if filter.IsIncome != nil {
			q = q.Where("is_income = ?", *filter.IsIncome)
		}

		categories := make([]models.Category, 0)
		err := q.Find(&categories).Error
		return categories, err
	}, TableCategories)
}

// Category returns a single cached category, nil when it is unknown.
func (s *Store) Category(id int64) Query[*models.Category] {
	return newQuery(s, func(db *gorm.DB) (*models.Category, error) {
		return first[models.Category](db.Where("id = ?", id))
	}, TableCategories)
}

func upsertCategories(tx *gorm.DB, categories []models.Category) error {
	return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&categories).Error
}
