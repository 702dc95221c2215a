// Package mock provides an in-memory test double for the grammar archive
// store.
//
// The mock keeps saved archives in a map so cache hit/miss flows can be
// exercised without a database, records every method call for assertion,
// and exposes exported error fields that force failures. It is safe for
// concurrent use.
//
// Typical usage:
//
//	store := &mock.Store{}
//
//	// inject store into the system under test …
//
//	if got := store.CallCount("Load"); got != 1 {
//	    t.Errorf("expected 1 Load call, got %d", got)
//	}
package mock

import (
	"context"
	"sync"

	"github.com/sicoreai/NeMo-text-processing/pkg/farstore"
	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// Call records the name and key of a single method invocation.
type Call struct {
	// Method is the name of the interface method that was called.
	Method string

	// Key is the archive key the method was called with, if any.
	Key farstore.Key
}

// Store is a configurable in-memory test double for [farstore.Store].
// The zero value is ready to use.
type Store struct {
	mu       sync.Mutex
	calls    []Call
	archives map[farstore.Key]*grammar.Compiled

	// LoadErr is returned by [Store.Load] when non-nil, taking precedence
	// over stored archives.
	LoadErr error

	// SaveErr is returned by [Store.Save] when non-nil; the archive is not
	// stored.
	SaveErr error

	// CloseErr is returned by [Store.Close] when non-nil.
	CloseErr error
}

var _ farstore.Store = (*Store)(nil)

// Load returns the archive saved under key, farstore.ErrNotFound when none
// was saved, or LoadErr when set.
func (m *Store) Load(_ context.Context, key farstore.Key) (*grammar.Compiled, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Load", Key: key})
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	c, ok := m.archives[key]
	if !ok {
		return nil, farstore.ErrNotFound
	}
	return c, nil
}

// Save stores c under key, or returns SaveErr when set.
func (m *Store) Save(_ context.Context, key farstore.Key, c *grammar.Compiled) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Save", Key: key})
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.archives == nil {
		m.archives = make(map[farstore.Key]*grammar.Compiled)
	}
	m.archives[key] = c
	return nil
}

// Close returns CloseErr.
func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: "Close"})
	return m.CloseErr
}

// Calls returns a copy of all recorded method invocations.
func (m *Store) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times the named method was invoked.
func (m *Store) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}
