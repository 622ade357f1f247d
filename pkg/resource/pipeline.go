package resource

import (
	"context"

	"github.com/pocketledger/client/internal/metrics"
	"github.com/pocketledger/client/pkg/failure"
	"github.com/pocketledger/client/pkg/store"
	"github.com/rs/zerolog"
)

// Pipeline reconciles a local live read with a remote fetch of R.
type Pipeline[L, R any] struct {
	Name string // Used in logs and metrics

	// Local opens a live read of the cache. It must emit the current state
	// first and close its channel when ctx is done.
	Local func(ctx context.Context) <-chan store.Snapshot[L]

	// Fetch loads the resource from the server, usually through retry.Do.
	Fetch func(ctx context.Context) (R, error)

	// Save persists a fetch result into the cache.
	Save func(ctx context.Context, result R) error

	// ShouldFetch decides from the first local value whether to fetch.
	// nil fetches always.
	ShouldFetch Policy[L]

	// OnFetchFailed is called once with the classified failure if Fetch or
	// Save failed. Optional.
	OnFetchFailed func(err error)

	Logger zerolog.Logger
}

// Observe starts the pipeline. The stream emits Loading with no data, then
// Loading with the first local value. If the fetch is skipped or succeeds, it
// continues with Success for every change of the local data, otherwise with
// Error carrying the failure and the local data.
//
// At most one fetch is made. The result is saved before the local data is
// read again, so no state carries older data than a preceding one.
//
// The channel is closed when ctx is done, which also aborts a running fetch.
func (p Pipeline[L, R]) Observe(ctx context.Context) <-chan Resource[L] {
	out := make(chan Resource[L])
	go p.run(ctx, out)
	return out
}

func (p Pipeline[L, R]) run(ctx context.Context, out chan<- Resource[L]) {
	defer close(out)

	var absent L
	if !p.emit(ctx, out, Loading[L]{Data: absent}) {
		return
	}

	first, ok := p.first(ctx)
	if !ok {
		return
	}

	if first.Err != nil {
		err := failure.New(failure.Unknown, first.Err)
		p.Logger.Error().Str("resource", p.Name).Err(first.Err).Msg("reading from the cache failed")
		p.forward(ctx, out, err)
		return
	}

	if !p.emit(ctx, out, Loading[L]{Data: first.Data}) {
		return
	}

	if p.ShouldFetch != nil && !p.ShouldFetch(first.Data) {
		p.forward(ctx, out, nil)
		return
	}

	err := p.fetch(ctx)
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		f := failure.Classify(err)
		p.Logger.Warn().Str("resource", p.Name).Str("kind", f.Kind.String()).Err(f).Msg("fetch failed")
		if p.OnFetchFailed != nil {
			p.OnFetchFailed(f)
		}
		p.forward(ctx, out, f)
		return
	}

	p.forward(ctx, out, nil)
}

// first returns the first value of a short-lived local read.
func (p Pipeline[L, R]) first(ctx context.Context) (store.Snapshot[L], bool) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, ok := <-p.Local(ctx)
	return s, ok
}

func (p Pipeline[L, R]) fetch(ctx context.Context) error {
	result, err := p.Fetch(ctx)
	if err != nil {
		return err
	}

	return p.Save(ctx, result)
}

// forward maps a new local read to Success, or to Error if cause is set.
// Reads that fail become Error with the last data that was read.
func (p Pipeline[L, R]) forward(ctx context.Context, out chan<- Resource[L], cause error) {
	var last L

	for snapshot := range p.Local(ctx) {
		var r Resource[L]

		switch {
		case snapshot.Err != nil:
			p.Logger.Error().Str("resource", p.Name).Err(snapshot.Err).Msg("reading from the cache failed")
			r = Error[L]{Err: failure.New(failure.Unknown, snapshot.Err), Data: last}
		case cause != nil:
			last = snapshot.Data
			r = Error[L]{Err: cause, Data: snapshot.Data}
		default:
			last = snapshot.Data
			r = Success[L]{Data: snapshot.Data}
		}

		if !p.emit(ctx, out, r) {
			return
		}
	}
}

func (p Pipeline[L, R]) emit(ctx context.Context, out chan<- Resource[L], r Resource[L]) bool {
	select {
	case out <- r:
		metrics.ResourceStates.WithLabelValues(p.Name, r.state()).Inc()
		return true
	case <-ctx.Done():
		return false
	}
}
