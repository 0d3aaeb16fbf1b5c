package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	Price       decimal.Decimal
	Description string
	CoverImage  string
	CategoryIDs []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID          string
	Name        string
	Description string
}
