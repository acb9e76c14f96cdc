// Package stale provides a cooperative cancellation flag shared between an
// operation and the background work it starts.
package stale

import (
	"errors"
	"sync/atomic"
)

// ErrStale is returned by work that noticed its token was marked stale.
// Callers discard such results without reporting them.
var ErrStale = errors.New("stale result")

// Token is a shared stale flag. The zero value is fresh and ready to use;
// copies must be made by pointer.
type Token struct {
	stale atomic.Bool
}

// New returns a fresh token.
func New() *Token {
	return &Token{}
}

// MarkStale flags every holder of the token. It is idempotent.
func (t *Token) MarkStale() {
	if t == nil {
		return
	}
	t.stale.Store(true)
}

// IsStale reports whether the token has been marked. A nil token never goes stale.
func (t *Token) IsStale() bool {
	if t == nil {
		return false
	}
	return t.stale.Load()
}

// Check returns ErrStale once the token is marked.
func (t *Token) Check() error {
	if t.IsStale() {
		return ErrStale
	}
	return nil
}
