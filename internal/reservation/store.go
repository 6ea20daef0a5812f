package reservation

import (
	"context"
	"errors"
	"strconv"
)

var (
	ErrStoreUnavailable = errors.New("reservation store unavailable")
	ErrBadValue         = errors.New("reservation value is not an integer")
	ErrNotAtomic        = errors.New("store does not support atomic decrement")
)

const keyPrefix = "item."

// Key is the store key holding the remaining stock of itemID.
func Key(itemID int) string {
	return keyPrefix + strconv.Itoa(itemID)
}

// Store is the key-value backend. Values are decimal integer strings.
// Get reports ok=false when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// AtomicStore can decrement a counter in a single step. When key is absent
// the counter starts at initial. ok=false means the counter was already <= 0
// and nothing was written.
type AtomicStore interface {
	Store
	DecrementIfPositive(ctx context.Context, key string, initial int) (remaining int, ok bool, err error)
}
