// Package syncer pushes transactions recorded on this device to the server.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/pocketledger/client/internal/metrics"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/models"
	"github.com/pocketledger/client/pkg/remote"
	"github.com/pocketledger/client/pkg/retry"
	"github.com/pocketledger/client/pkg/store"
	"github.com/rs/zerolog"
)

// Remote creates, updates and deletes transactions on the server.
type Remote interface {
	CreateTransaction(ctx context.Context, request remote.TransactionRequest) (remote.TransactionResult, error)
	UpdateTransaction(ctx context.Context, id int64, request remote.TransactionRequest) (remote.TransactionResult, error)
	DeleteTransaction(ctx context.Context, id int64) error
}

// Report is the outcome of a push.
type Report struct {
	Pushed    int      `json:"pushed" example:"3"`    // Transactions accepted by the server
	Discarded int      `json:"discarded" example:"0"` // Transactions deleted on this device while they were pushed
	Failed    int      `json:"failed" example:"1"`    // Transactions that could not be pushed
	Errors    []string `json:"errors"`                // One message per failed transaction
}

// errDeletedDuringPush marks a transaction that was deleted locally while
// the server was creating or updating it.
var errDeletedDuringPush = errors.New("deleted during push")

// Pusher sends unsynced transactions to the server.
type Pusher struct {
	store     *store.Store
	remote    Remote
	accountID int64
	policy    retry.Policy
	logger    zerolog.Logger
}

func New(s *store.Store, r Remote, accountID int64, policy retry.Policy, logger zerolog.Logger) *Pusher {
	return &Pusher{
		store:     s,
		remote:    r,
		accountID: accountID,
		policy:    policy,
		logger:    logger.With().Str("component", "syncer").Logger(),
	}
}

// Push sends every unsynced transaction, oldest first. Transactions without
// a server ID are created, all others updated. Each transaction the server
// confirms is marked as synced with its server ID, unless it was edited while
// the request was in flight. Edited transactions keep the server ID but stay
// unsynced so that the edit is pushed next time.
//
// Creating is never retried since the server cannot tell a repeated request
// apart from a new transaction. A failed create is pushed again on the next
// run.
//
// A failing transaction does not stop the push, it is counted in the report.
// Only a failure to read the unsynced transactions is returned as error.
func (p *Pusher) Push(ctx context.Context) (Report, error) {
	report := Report{Errors: make([]string, 0)}

	transactions, err := p.store.SelectUnsynced(ctx)
	if err != nil {
		return report, fmt.Errorf("selecting unsynced transactions: %w", err)
	}

	for _, t := range transactions {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		err := p.push(ctx, t)
		switch {
		case errors.Is(err, errDeletedDuringPush):
			report.Discarded++
			metrics.PushedTransactions.WithLabelValues("discarded").Inc()
			p.logger.Info().Str("local_id", t.LocalID.String()).Msg("transaction was deleted during the push")
		case err != nil:
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", t.LocalID, err))
			metrics.PushedTransactions.WithLabelValues("failed").Inc()
			p.logger.Warn().Str("local_id", t.LocalID.String()).Err(err).Msg("pushing transaction failed")
		default:
			report.Pushed++
			metrics.PushedTransactions.WithLabelValues("pushed").Inc()
		}
	}

	p.logger.Info().
		Int("pushed", report.Pushed).
		Int("discarded", report.Discarded).
		Int("failed", report.Failed).
		Msg("push finished")
	return report, nil
}

func (p *Pusher) push(ctx context.Context, t models.Transaction) error {
	request := remote.NewTransactionRequest(p.accountID, t)

	var result remote.TransactionResult
	var err error
	if t.ServerID == nil {
		create := p.policy.Named("create_transaction")
		create.MaxRetries = 0

		result, err = retry.Do(ctx, create, func(ctx context.Context) (remote.TransactionResult, error) {
			return p.remote.CreateTransaction(ctx, request)
		})
	} else {
		id := *t.ServerID
		result, err = retry.Do(ctx, p.policy.Named("update_transaction"), func(ctx context.Context) (remote.TransactionResult, error) {
			return p.remote.UpdateTransaction(ctx, id, request)
		})
	}
	if err != nil {
		return err
	}

	synced, err := p.store.ConfirmPush(ctx, t, result.ID)
	if errors.Is(err, models.ErrResourceNotFound) {
		return p.discard(ctx, result.ID)
	}
	if err != nil {
		return err
	}

	if !synced {
		p.logger.Info().Str("local_id", t.LocalID.String()).Msg("transaction was edited during the push, it stays unsynced")
	}
	return nil
}

// discard deletes the server copy of a transaction that no longer exists on
// this device.
func (p *Pusher) discard(ctx context.Context, serverID int64) error {
	_, err := retry.Do(ctx, p.policy.Named("delete_transaction"), func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.remote.DeleteTransaction(ctx, serverID)
	})

	var f *failure.Error
	if errors.As(err, &f) && f.Status == http.StatusNotFound {
		p.logger.Info().Int64("server_id", serverID).Msg("transaction was already deleted on the server")
	} else if err != nil {
		return fmt.Errorf("deleting server transaction %d of a transaction deleted during the push: %w", serverID, err)
	}

	return errDeletedDuringPush
}
