package api

import (
	"context"
	"errors"
	"sync"
)

// ErrStale reports that a newer load finished first and the result was
// discarded.
var ErrStale = errors.New("superseded by a newer load")

// Loader serializes the "which response wins" question for a list view.
// Every Load takes the next sequence number; a result is applied only while
// it is still the newest one issued, so a slow early response can never
// overwrite a fast later one.
type Loader[T any] struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	value   T
	valid   bool
}

// NewLoader creates an empty loader.
func NewLoader[T any]() *Loader[T] {
	return &Loader[T]{}
}

// Load runs fetch and, if no newer load has been issued meanwhile, applies
// and returns its result. A superseded result is dropped with ErrStale.
func (l *Loader[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	l.issued++
	seq := l.issued
	l.mu.Unlock()

	value, err := fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if seq != l.issued {
		var zero T
		return zero, ErrStale
	}
	if err != nil {
		var zero T
		return zero, err
	}

	l.applied = seq
	l.value = value
	l.valid = true
	return value, nil
}

// Latest returns the last applied value, if any.
func (l *Loader[T]) Latest() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.valid
}
