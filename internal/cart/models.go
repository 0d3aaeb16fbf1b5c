package cart

import "github.com/shopspring/decimal"

type Cart struct {
	ID     string
	UserID string
	Items  []Item
}

// Item is a cart line. BookTitle and BookPrice are joined from the catalog
// at load time; the price here is the current one, not a snapshot.
type Item struct {
	ID        string
	CartID    string
	BookID    string
	BookTitle string
	BookPrice decimal.Decimal
	Quantity  int
}
