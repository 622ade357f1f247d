package store

import (
	"context"
	"reflect"

	"gorm.io/gorm"
)

// Snapshot is one result of a live query.
type Snapshot[T any] struct {
	Data T
	Err  error
}

// Query is a read against the store that can be run once or observed.
type Query[T any] struct {
	store  *Store
	tables []string
	run    func(db *gorm.DB) (T, error)
}

func newQuery[T any](s *Store, run func(db *gorm.DB) (T, error), tables ...string) Query[T] {
	return Query[T]{
		store:  s,
		tables: tables,
		run:    run,
	}
}

// Get runs the query once.
func (q Query[T]) Get(ctx context.Context) (T, error) {
	return q.run(q.store.db.WithContext(ctx))
}

// Observe runs the query and runs it again whenever one of the tables it
// reads from has been written to. A result is only sent when it differs from
// the previous one. The channel is closed when ctx is done.
func (q Query[T]) Observe(ctx context.Context) <-chan Snapshot[T] {
	out := make(chan Snapshot[T])

	// Subscribe before the first read so that no write
	// between the read and the subscription is missed
	changes, unsubscribe := q.store.hub.subscribe(q.tables)

	go func() {
		defer close(out)
		defer unsubscribe()

		var last Snapshot[T]
		sent := false

		for {
			data, err := q.Get(ctx)
			if ctx.Err() != nil {
				return
			}

			current := Snapshot[T]{Data: data, Err: err}
			if !sent || err != nil || last.Err != nil || !reflect.DeepEqual(last.Data, data) {
				select {
				case out <- current:
				case <-ctx.Done():
					return
				}
				last = current
				sent = true
			}

			select {
			case <-changes:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
