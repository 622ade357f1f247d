package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pocketledger/client/internal/types"
	"github.com/pocketledger/client/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionFilter restricts transaction queries.
type TransactionFilter struct {
	IsIncome *bool        // Only incomes or only expenses, decided by the category. nil for both.
	Period   *types.Period // Inclusive range of transaction dates. nil for all.
}

func (f TransactionFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Joins("Category")

	if f.IsIncome != nil {
		q = q.Where("Category.is_income = ?", *f.IsIncome)
	}

	if f.Period != nil {
		from, to := f.Period.Bounds()
		q = q.Where("transactions.transaction_date >= ? AND transactions.transaction_date < ?", from, to)
	}

	return q
}

// Transactions returns the cached transactions with their categories, newest first.
func (s *Store) Transactions(filter TransactionFilter) Query[[]models.Transaction] {
	return newQuery(s, func(db *gorm.DB) ([]models.Transaction, error) {
		return findTransactions(filter.apply(db))
	}, TableTransactions, TableCategories)
}

// Transaction returns a single transaction by its local ID, nil when it does not exist.
func (s *Store) Transaction(localID uuid.UUID) Query[*models.Transaction] {
	return newQuery(s, func(db *gorm.DB) (*models.Transaction, error) {
		return first[models.Transaction](db.Joins("Category").Where("transactions.local_id = ?", localID))
	}, TableTransactions, TableCategories)
}

// UpsertTransactions inserts or replaces the transactions by local ID in one
// database transaction. The sync flag is stored as given.
func (s *Store) UpsertTransactions(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return upsertTransactions(tx, transactions)
	})
	if err != nil {
		return fmt.Errorf("saving %d transactions: %w", len(transactions), err)
	}

	s.hub.publish(TableTransactions)
	return nil
}

// UpsertTransaction inserts or replaces a single transaction.
func (s *Store) UpsertTransaction(ctx context.Context, transaction models.Transaction) error {
	return s.UpsertTransactions(ctx, []models.Transaction{transaction})
}

// SaveRemoteTransactions stores transactions fetched from the server together
// with their categories.
//
// Rows are matched on the server ID so that a fetched transaction keeps its
// local ID. All stored rows are marked as synced. Local rows with pending,
// unsynced changes are left untouched until they have been pushed.
func (s *Store) SaveRemoteTransactions(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := make([]models.Category, 0)
		seen := make(map[int64]bool)
		serverIDs := make([]int64, 0, len(transactions))

		for _, t := range transactions {
			if t.Category.ID != 0 && !seen[t.Category.ID] {
				seen[t.Category.ID] = true
				categories = append(categories, t.Category)
			}
			if t.ServerID != nil {
				serverIDs = append(serverIDs, *t.ServerID)
			}
		}

		if len(categories) > 0 {
			if err := upsertCategories(tx, categories); err != nil {
				return err
			}
		}

		var existing []models.Transaction
		if len(serverIDs) > 0 {
			err := tx.Select("local_id", "server_id", "is_synced").Where("server_id IN ?", serverIDs).Find(&existing).Error
			if err != nil {
				return err
			}
		}

		known := make(map[int64]models.Transaction, len(existing))
		for _, e := range existing {
			known[*e.ServerID] = e
		}

		rows := make([]models.Transaction, 0, len(transactions))
		for _, t := range transactions {
			if t.ServerID != nil {
				if e, ok := known[*t.ServerID]; ok {
					if !e.IsSynced {
						continue
					}
					t.LocalID = e.LocalID
				}
			}

			t.IsSynced = true
			rows = append(rows, t)
		}

		if len(rows) == 0 {
			return nil
		}
		return upsertTransactions(tx, rows)
	})
	if err != nil {
		return fmt.Errorf("saving %d fetched transactions: %w", len(transactions), err)
	}

	s.hub.publish(TableCategories, TableTransactions)
	return nil
}

// CreateTransaction stores a transaction created on this device. It is
// unsynced until the server has confirmed it.
func (s *Store) CreateTransaction(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	transaction.LocalID = uuid.Nil
	transaction.ServerID = nil
	transaction.IsSynced = false

	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(&transaction).Error
	if err != nil {
		return models.Transaction{}, fmt.Errorf("creating transaction: %w", err)
	}

	s.hub.publish(TableTransactions)
	return transaction, nil
}

// UpdateTransaction stores an edit made on this device. The transaction
// becomes unsynced, its server ID is kept.
func (s *Store) UpdateTransaction(ctx context.Context, transaction models.Transaction) (models.Transaction, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		err := tx.Where("local_id = ?", transaction.LocalID).First(&current).Error
		if err != nil {
			return err
		}

		transaction.ServerID = current.ServerID
		transaction.CreatedAt = current.CreatedAt
		transaction.IsSynced = false

		return tx.Omit(clause.Associations).Save(&transaction).Error
	})
	if err != nil {
		return models.Transaction{}, fmt.Errorf("updating transaction %s: %w", transaction.LocalID, err)
	}

	s.hub.publish(TableTransactions)
	return transaction, nil
}

// DeleteTransaction removes the local row only. Deleting a transaction the
// server knows about must also request its deletion on the server.
func (s *Store) DeleteTransaction(ctx context.Context, localID uuid.UUID) error {
	err := s.db.WithContext(ctx).Where("local_id = ?", localID).Delete(&models.Transaction{}).Error
	if err != nil {
		return fmt.Errorf("deleting transaction %s: %w", localID, err)
	}

	s.hub.publish(TableTransactions)
	return nil
}

func upsertTransactions(tx *gorm.DB, transactions []models.Transaction) error {
	return tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "local_id"}},
			UpdateAll: true,
		}).
		Create(&transactions).Error
}

func findTransactions(q *gorm.DB) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0)
	err := q.Order("transactions.transaction_date DESC, transactions.created_at DESC").Find(&transactions).Error
	return transactions, err
}
