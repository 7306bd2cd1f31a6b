// Package directory resolves opaque platform ids to display names.
package directory

import (
	"context"
	"log/slog"
	"sync"
)

// Kind selects which directory a lookup goes against.
type Kind string

const (
	KindUser    Kind = "user"
	KindChannel Kind = "channel"
)

// Lookup is the external directory service boundary.
type Lookup interface {
	DisplayName(ctx context.Context, id string, kind Kind) (string, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, id string, kind Kind) (string, error)

func (f LookupFunc) DisplayName(ctx context.Context, id string, kind Kind) (string, error) {
	return f(ctx, id, kind)
}

// Resolver memoizes directory lookups for the process lifetime.
// Successful lookups are cached forever; failures are never cached, so
// a later call retries and can recover from a transient outage.
type Resolver struct {
	lookup Lookup

	mu       sync.Mutex
	users    map[string]string
	channels map[string]string
}

// NewResolver creates a Resolver backed by lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{
		lookup:   lookup,
		users:    make(map[string]string),
		channels: make(map[string]string),
	}
}

// Resolve returns the display name for id, fetching on cache miss.
// On lookup failure the raw id is returned as the display name.
func (r *Resolver) Resolve(ctx context.Context, id string, kind Kind) string {
	r.mu.Lock()
	if name, ok := r.cache(kind)[id]; ok {
		r.mu.Unlock()
		return name
	}
	r.mu.Unlock()

	name, err := r.lookup.DisplayName(ctx, id, kind)
	if err != nil {
		slog.Warn("directory lookup failed", "kind", kind, "id", id, "error", err)
		return id
	}

	r.mu.Lock()
	r.cache(kind)[id] = name
	r.mu.Unlock()
	return name
}

func (r *Resolver) cache(kind Kind) map[string]string {
	if kind == KindChannel {
		return r.channels
	}
	return r.users
}
