package resolver

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultWarmConcurrency caps how many lookups Warm runs at once.
const DefaultWarmConcurrency = 8

// Resolver is the single entry point for logo resolution. It layers the
// cache fast path and in-flight coalescing over the Client: for any symbol
// at most one network request is ever outstanding, and every concurrent
// caller observes the same record. Safe for concurrent use.
type Resolver struct {
	store  *Store
	client *Client
	group  singleflight.Group
	log    zerolog.Logger

	warmConcurrency int

	// mu guards pending and epoch. pending tracks which keys have a
	// flight registered in group so Invalidate can forget them; epoch
	// fences cache writes from flights that predate an Invalidate.
	mu      sync.Mutex
	pending map[string]struct{}
	epoch   uint64
}

// New creates a Resolver over the given store and client.
func New(store *Store, client *Client, warmConcurrency int, log zerolog.Logger) *Resolver {
	if warmConcurrency <= 0 {
		warmConcurrency = DefaultWarmConcurrency
	}
	return &Resolver{
		store:           store,
		client:          client,
		log:             log,
		warmConcurrency: warmConcurrency,
		pending:         make(map[string]struct{}),
	}
}

// Resolve returns the resolution record for symbol. A live cached record is
// returned synchronously; otherwise the caller joins the single in-flight
// lookup for the symbol, starting one if none exists. The returned error is
// only ever a normalization failure or the caller's context error: provider
// failures surface as degraded records, never as errors.
//
// Cancelling ctx abandons the wait but not the lookup itself; other callers
// of the same symbol may still need it, so it runs to completion and writes
// its result to the cache.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (Record, error) {
	key, err := NormalizeKey(symbol)
	if err != nil {
		return Record{}, err
	}

	if rec, ok := r.store.Get(key); ok {
		return rec, nil
	}

	ch := r.group.DoChan(key, func() (any, error) {
		return r.fetchAndStore(key), nil
	})

	select {
	case res := <-ch:
		rec, ok := res.Val.(Record)
		if !ok {
			// Unreachable: the flight function only returns Record.
			return Record{}, ErrNotResolved
		}
		if res.Shared {
			r.log.Debug().
				Str("component", "resolver").
				Str("symbol", key).
				Msg("joined in-flight lookup")
		}
		return rec, nil
	case <-ctx.Done():
		return Record{}, ctx.Err()
	}
}

// fetchAndStore runs as the single flight for key: it re-checks the cache
// (a writer may have landed between the caller's miss and the flight
// starting), fetches, and publishes the result unless an Invalidate fenced
// it off in the meantime.
func (r *Resolver) fetchAndStore(key string) Record {
	if rec, ok := r.store.Get(key); ok {
		return rec
	}

	r.mu.Lock()
	epoch := r.epoch
	r.pending[key] = struct{}{}
	r.mu.Unlock()

	// Deliberately not the caller's context: the flight outlives callers
	// that gave up waiting, so its result can serve future lookups.
	rec := r.client.Fetch(context.Background(), key)

	r.mu.Lock()
	if r.epoch == epoch {
		r.store.Set(key, rec)
	}
	delete(r.pending, key)
	r.mu.Unlock()

	return rec
}

// Warm proactively resolves a batch of symbols with bounded concurrency,
// useful before rendering a list. The first normalization or context error
// aborts the batch; provider failures do not, they just leave degraded
// records behind.
func (r *Resolver) Warm(ctx context.Context, symbols []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.warmConcurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			_, err := r.Resolve(ctx, symbol)
			return err
		})
	}

	return g.Wait()
}

// Invalidate clears all cached records and in-flight bookkeeping. The next
// Resolve for any symbol performs a fresh network attempt: forgotten
// flights no longer coalesce new callers, and their late results are
// fenced off from the cache by the epoch bump.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.epoch++
	for key := range r.pending {
		r.group.Forget(key)
	}
	r.store.Clear()

	r.log.Debug().
		Str("component", "resolver").
		Msg("cache invalidated")
}

// Walk resolves symbol and returns a Walker bound to the result, ready for
// the presentation layer to drive.
func (r *Resolver) Walk(ctx context.Context, symbol string) (*Walker, error) {
	rec, err := r.Resolve(ctx, symbol)
	if err != nil {
		return nil, err
	}
	w := NewWalker()
	w.Bind(rec)
	return w, nil
}
