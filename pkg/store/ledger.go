package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pocketledger/client/pkg/models"
	"gorm.io/gorm"
)

// MarkSynced records that the server has confirmed the transaction. A
// non-nil serverID is stored as the transaction's server ID.
func (s *Store) MarkSynced(ctx context.Context, localID uuid.UUID, serverID *int64) error {
	updates := map[string]any{"is_synced": true}
	if serverID != nil {
		updates["server_id"] = *serverID
	}

	return s.setSyncFlag(ctx, localID, updates)
}

// MarkUnsynced flags the transaction as having local changes the server
// does not know about.
func (s *Store) MarkUnsynced(ctx context.Context, localID uuid.UUID) error {
	return s.setSyncFlag(ctx, localID, map[string]any{"is_synced": false})
}

// ConfirmPush records the server's confirmation of a pushed transaction.
// The server ID is always stored. The transaction only becomes synced when
// it still matches the pushed state, so an edit made while the push was in
// flight stays unsynced. It reports whether the transaction became synced.
//
// If the transaction was deleted in the meantime, ErrResourceNotFound is
// returned.
func (s *Store) ConfirmPush(ctx context.Context, pushed models.Transaction, serverID int64) (bool, error) {
	var synced bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Transaction
		err := tx.Where("local_id = ?", pushed.LocalID).First(&current).Error
		if err != nil {
			return err
		}

		synced = samePushedState(current, pushed)
		return tx.Model(&models.Transaction{}).
			Where("local_id = ?", pushed.LocalID).
			UpdateColumns(map[string]any{"server_id": serverID, "is_synced": synced}).
			Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("%w transaction with local ID %s", models.ErrResourceNotFound, pushed.LocalID)
		}
		return false, fmt.Errorf("confirming push of %s: %w", pushed.LocalID, err)
	}

	s.hub.publish(TableTransactions)
	return synced, nil
}

func samePushedState(current, pushed models.Transaction) bool {
	return current.UpdatedAt.Equal(pushed.UpdatedAt) &&
		current.CategoryID == pushed.CategoryID &&
		current.Amount.Equal(pushed.Amount) &&
		current.TransactionDate.Equal(pushed.TransactionDate) &&
		sameComment(current.Comment, pushed.Comment)
}

func sameComment(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *Store) setSyncFlag(ctx context.Context, localID uuid.UUID, updates map[string]any) error {
	result := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("local_id = ?", localID).
		UpdateColumns(updates)
	if result.Error != nil {
		return fmt.Errorf("updating sync flag of %s: %w", localID, result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("%w transaction with local ID %s", models.ErrResourceNotFound, localID)
	}

	s.hub.publish(TableTransactions)
	return nil
}

// Unsynced returns all transactions that have not been confirmed by the
// server, oldest first.
func (s *Store) Unsynced() Query[[]models.Transaction] {
	return newQuery(s, func(db *gorm.DB) ([]models.Transaction, error) {
		transactions := make([]models.Transaction, 0)
		err := db.Joins("Category").
			Where("transactions.is_synced = ?", false).
			Order("transactions.created_at ASC").
			Find(&transactions).Error
		return transactions, err
	}, TableTransactions, TableCategories)
}

// SelectUnsynced returns the current unsynced transactions.
func (s *Store) SelectUnsynced(ctx context.Context) ([]models.Transaction, error) {
	return s.Unsynced().Get(ctx)
}
