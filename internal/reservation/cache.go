package reservation

import (
	"context"
	"fmt"
	"strconv"
)

type Mode string

const (
	// ModeReadWrite reads the counter and writes counter-1 in two round trips.
	// Concurrent reservations of the same item can both read the same value
	// and oversell.
	ModeReadWrite Mode = "read-write"
	// ModeAtomic decrements in one round trip and never oversells.
	ModeAtomic Mode = "atomic"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReadWrite, ModeAtomic:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown reservation mode %q", s)
}

type Decision int

const (
	Confirmed Decision = iota + 1
	Insufficient
)

func (d Decision) String() string {
	switch d {
	case Confirmed:
		return "confirmed"
	case Insufficient:
		return "insufficient"
	}
	return "unknown"
}

// Cache tracks remaining reservable stock per item on top of a Store. Items
// without a record fall back to their catalog stock.
type Cache struct {
	store Store
	mode  Mode
}

func NewCache(store Store, mode Mode) (*Cache, error) {
	switch mode {
	case ModeReadWrite:
	case ModeAtomic:
		if _, ok := store.(AtomicStore); !ok {
			return nil, ErrNotAtomic
		}
	default:
		return nil, fmt.Errorf("unknown reservation mode %q", mode)
	}
	return &Cache{store: store, mode: mode}, nil
}

func (c *Cache) Mode() Mode { return c.mode }

func (c *Cache) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// CurrentQuantity returns the recorded remaining stock. ok is false when no
// reservation was ever recorded; a recorded 0 is returned as (0, true).
func (c *Cache) CurrentQuantity(ctx context.Context, itemID int) (int, bool, error) {
	key := Key(itemID)

	v, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q", ErrBadValue, key, v)
	}
	return n, true, nil
}

// ReserveOne overwrites the record with current-1.
func (c *Cache) ReserveOne(ctx context.Context, itemID, current int) error {
	return c.store.Set(ctx, Key(itemID), strconv.Itoa(current-1))
}

func (c *Cache) EffectiveQuantity(ctx context.Context, itemID, initialStock int) (int, error) {
	n, ok, err := c.CurrentQuantity(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return initialStock, nil
	}
	return n, nil
}

// Reserve takes one unit of itemID. remaining is only meaningful when the
// decision is Confirmed.
func (c *Cache) Reserve(ctx context.Context, itemID, initialStock int) (d Decision, remaining int, err error) {
	if c.mode == ModeAtomic {
		return c.reserveAtomic(ctx, itemID, initialStock)
	}

	n, err := c.EffectiveQuantity(ctx, itemID, initialStock)
	if err != nil {
		return 0, 0, err
	}
	if n <= 0 {
		return Insufficient, n, nil
	}
	if err := c.ReserveOne(ctx, itemID, n); err != nil {
		return 0, 0, err
	}
	return Confirmed, n - 1, nil
}

func (c *Cache) reserveAtomic(ctx context.Context, itemID, initialStock int) (Decision, int, error) {
	left, ok, err := c.store.(AtomicStore).DecrementIfPositive(ctx, Key(itemID), initialStock)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return Insufficient, 0, nil
	}
	return Confirmed, left, nil
}
