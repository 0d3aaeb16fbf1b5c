package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID        string
	UserID    string
	Status    Status
	Total     decimal.Decimal
	OrderDate time.Time
	Items     []Item
}

// Item is immutable once written. Price is the snapshot
// book price x quantity taken at checkout; later catalog price changes
// never touch it.
type Item struct {
	ID       string
	OrderID  string
	BookID   string
	Quantity int
	Price    decimal.Decimal
}
