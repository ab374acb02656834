package dedupe

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Outcome reports how Group.Do obtained its value.
type Outcome string

const (
	// Fetched means this call ran the fetch.
	Fetched Outcome = "fetched"
	// Coalesced means one fetch served several concurrent callers.
	Coalesced Outcome = "coalesced"
	// Cached means the value came from the trailing window.
	Cached Outcome = "cached"
)

// FetchFunc loads the value for a key.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Group de-duplicates fetches by key. Concurrent callers share one fetch;
// callers arriving within the store's TTL after completion get the stored
// value. Failed fetches are never stored.
type Group struct {
	store  Store
	logger *zap.Logger
	flight singleflight.Group
}

// NewGroup returns a Group backed by store. A nil store selects a
// MemoryStore with DefaultTTL.
func NewGroup(store Store, logger *zap.Logger) *Group {
	if store == nil {
		store = NewMemoryStore(1024, DefaultTTL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Group{store: store, logger: logger}
}

// Do returns the value for key, running fetch at most once across
// concurrent callers. The shared fetch runs detached from the cancellation
// of any single caller, so fetch must bound its own duration. A caller whose
// ctx ends first returns ctx.Err() while the fetch carries on for the rest.
func (g *Group) Do(ctx context.Context, key string, fetch FetchFunc) ([]byte, Outcome, error) {
	if v, ok := g.lookup(ctx, key); ok {
		return v, Cached, nil
	}

	detached := context.WithoutCancel(ctx)
	ch := g.flight.DoChan(key, func() (any, error) {
		data, err := fetch(detached)
		if err != nil {
			return nil, err
		}

		if err := g.store.Set(detached, key, data); err != nil {
			g.logger.Warn("dedupe store write failed", zap.String("key", key), zap.Error(err))
		}

		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, Fetched, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, Fetched, res.Err
		}

		outcome := Fetched
		if res.Shared {
			outcome = Coalesced
		}

		return res.Val.([]byte), outcome, nil
	}
}

func (g *Group) lookup(ctx context.Context, key string) ([]byte, bool) {
	v, ok, err := g.store.Get(ctx, key)
	if err != nil {
		g.logger.Warn("dedupe store read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return v, ok
}
