package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrDuplicateID  = errors.New("duplicate item id")
	ErrInvalidItem  = errors.New("invalid item")
	ErrEmptyCatalog = errors.New("empty catalog")
)

type Product struct {
	ItemID       int
	ItemName     string
	Price        decimal.Decimal
	InitialStock int
}

// Catalog is read-only once built. Lookups never touch the network.
type Catalog struct {
	products []Product
	byID     map[int]int
}

func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
	}

	for _, p := range products {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ItemID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ItemID)
		}
		c.byID[p.ItemID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

func validate(p Product) error {
	switch {
	case p.ItemID <= 0:
		return fmt.Errorf("%w: item id %d must be positive", ErrInvalidItem, p.ItemID)
	case p.Price.IsNegative():
		return fmt.Errorf("%w: item %d has negative price", ErrInvalidItem, p.ItemID)
	case p.InitialStock < 0:
		return fmt.Errorf("%w: item %d has negative stock", ErrInvalidItem, p.ItemID)
	}
	return nil
}

func (c *Catalog) Find(itemID int) (Product, bool) {
	i, ok := c.byID[itemID]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// List returns the products in insertion order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Len() int { return len(c.products) }
