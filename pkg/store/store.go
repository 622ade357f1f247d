// Package store is the local cache of accounts, categories and transactions.
//
// All writes are upserts keyed by primary key. Every committed write notifies
// the live queries that depend on the written tables, see Query.Observe.
package store

import (
	"sync"

	"gorm.io/gorm"
)

// Table names used for change notifications.
const (
	TableAccounts     = "accounts"
	TableCategories   = "categories"
	TableTransactions = "transactions"
)

// Store is the local cache.
type Store struct {
	db  *gorm.DB
	hub *hub
}

// New returns a Store writing to db. db must be migrated with models.Migrate.
func New(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		hub: newHub(),
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// hub fans out change notifications to live queries.
//
// Notifications are coalesced: a subscriber that has not yet consumed a
// notification gets no second one, it re-reads the latest state anyway.
type hub struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]subscription
}

type subscription struct {
	tables []string
	ch     chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[uint64]subscription)}
}

func (h *hub) subscribe(tables []string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++

	ch := make(chan struct{}, 1)
	h.subs[id] = subscription{tables: tables, ch: ch}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

func (h *hub) publish(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !intersects(sub.tables, tables) {
			continue
		}

		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
