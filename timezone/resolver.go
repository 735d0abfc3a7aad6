// Package timezone resolves IANA timezone identifiers to concrete location
// rules for tagging and interpreting iCalendar date-time values.
package timezone

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// Resolver maps IANA timezone identifiers to *time.Location values behind a
// read-through cache. It is safe for concurrent use; lookups after the first
// for a given identifier are lock-cheap reads.
type Resolver struct {
	mu       sync.RWMutex
	cache    map[string]*time.Location
	fallback *time.Location
	logger   *slog.Logger
}

// Option represents a configuration option for the Resolver
type Option func(*Resolver)

// WithFallback sets the location returned for empty or unresolvable
// identifiers. Defaults to the process-local timezone.
func WithFallback(loc *time.Location) Option {
	return func(r *Resolver) {
		if loc != nil {
			r.fallback = loc
		}
	}
}

// WithLogger sets the logger for the resolver
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver with the given options applied.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		cache:    make(map[string]*time.Location),
		fallback: time.Local,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Resolve returns the location for an IANA timezone identifier. An empty or
// unresolvable identifier yields the fallback location; Resolve never fails.
func (r *Resolver) Resolve(ianaID string) *time.Location {
	if ianaID == "" {
		return r.fallback
	}

	r.mu.RLock()
	loc, ok := r.cache[ianaID]
	r.mu.RUnlock()
	if ok {
		return loc
	}

	loc, err := time.LoadLocation(ianaID)
	if err != nil {
		r.logger.Warn("unresolvable timezone identifier, using fallback",
			"tzid", ianaID,
			"fallback", r.fallback.String())
		loc = r.fallback
	}

	r.mu.Lock()
	r.cache[ianaID] = loc
	r.mu.Unlock()

	return loc
}

// Fallback returns the location used for empty or unresolvable identifiers.
func (r *Resolver) Fallback() *time.Location {
	return r.fallback
}
