// Package connectivity observes whether the finance server is reachable.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Prober checks reachability once.
type Prober interface {
	Probe(ctx context.Context) bool
}

// DialProber considers the network available when a TCP connection to
// Address can be opened.
type DialProber struct {
	Address string
	Timeout time.Duration
}

func (p DialProber) Probe(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.Timeout}
	conn, err := d.DialContext(ctx, "tcp", p.Address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Address returns host:port of u, with the default port of its scheme.
func Address(u *url.URL) string {
	if port := u.Port(); port != "" {
		return net.JoinHostPort(u.Hostname(), port)
	}

	if u.Scheme == "https" {
		return net.JoinHostPort(u.Hostname(), "443")
	}
	return net.JoinHostPort(u.Hostname(), "80")
}

// Observer holds the current reachability and notifies subscribers of
// every change.
type Observer struct {
	prober   Prober
	interval time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	online bool
	known  bool
	next   uint64
	subs   map[uint64]chan bool
}

// New returns an Observer that probes every interval once Run is called.
func New(prober Prober, interval time.Duration, logger zerolog.Logger) *Observer {
	return &Observer{
		prober:   prober,
		interval: interval,
		logger:   logger.With().Str("component", "connectivity").Logger(),
		subs:     make(map[uint64]chan bool),
	}
}

// Online returns the last known reachability. ok is false before the
// first probe.
func (o *Observer) Online() (online, ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online, o.known
}

// Set records the reachability and notifies subscribers if it changed.
func (o *Observer) Set(online bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.known && o.online == online {
		return
	}

	o.online = online
	o.known = true
	o.logger.Info().Bool("online", online).Msg("connectivity changed")

	for _, ch := range o.subs {
		// A subscriber that is behind only gets the latest value
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

// Subscribe emits the current reachability, once known, and every change
// after it. The channel is closed when ctx is done.
func (o *Observer) Subscribe(ctx context.Context) <-chan bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.next
	o.next++

	ch := make(chan bool, 1)
	if o.known {
		ch <- o.online
	}
	o.subs[id] = ch

	go func() {
		<-ctx.Done()

		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.subs, id)
		close(ch)
	}()

	return ch
}

// Run probes immediately and then every interval until ctx is done.
func (o *Observer) Run(ctx context.Context) {
	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		online := o.prober.Probe(ctx)
		if ctx.Err() != nil {
			return
		}
		o.Set(online)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
