package sdk

import "errors"

// State is the key/value view a single call reads and writes through.
// Implementations never return errors inline; the first storage failure is remembered
// and handed back by the Store when the unit of work ends, which rolls it back.
type State interface {
	Set(key, value string)
	Get(key string) *string
	Delete(key string)
}

// Store hands out States scoped to one atomic unit of work.
type Store interface {
	// Update runs fn in a write transaction. Nothing is persisted if fn (or the state) failed.
	Update(fn func(State) error) error
	// View runs fn against a read-only snapshot.
	View(fn func(State) error) error
	Close() error
}

// ErrReadOnly is recorded when a View callback tries to write.
var ErrReadOnly = errors.New("state is read-only")
