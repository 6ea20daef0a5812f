package catalog

import "github.com/shopspring/decimal"

// Default is the built-in suitcase catalog.
func Default() *Catalog {
	c, err := New([]Product{
		{ItemID: 1, ItemName: "Suitcase 250", Price: decimal.NewFromInt(50), InitialStock: 4},
		{ItemID: 2, ItemName: "Suitcase 450", Price: decimal.NewFromInt(100), InitialStock: 10},
		{ItemID: 3, ItemName: "Suitcase 650", Price: decimal.NewFromInt(350), InitialStock: 2},
		{ItemID: 4, ItemName: "Suitcase 1050", Price: decimal.NewFromInt(550), InitialStock: 5},
	})
	if err != nil {
		panic(err)
	}
	return c
}
