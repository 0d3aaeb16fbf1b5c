package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pagecart/bookstore-api/internal/cart"
	"github.com/pagecart/bookstore-api/internal/catalog"
	"github.com/pagecart/bookstore-api/internal/orders"
	"github.com/pagecart/bookstore-api/internal/users"
)

type BookDTO struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CoverImage  string          `json:"coverImage"`
	CategoryIDs []string        `json:"categoryIds,omitempty"`
}

type CategoryDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CartItemDTO struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	BookTitle string `json:"bookTitle"`
	Quantity  int    `json:"quantity"`
}

type CartDTO struct {
	ID        string        `json:"id"`
	UserID    string        `json:"userId"`
	CartItems []CartItemDTO `json:"cartItems"`
}

type OrderItemDTO struct {
	ID       string          `json:"id"`
	BookID   string          `json:"bookId"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type OrderDTO struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	OrderItems []OrderItemDTO  `json:"orderItems"`
	OrderDate  time.Time       `json:"orderDate"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
}

type UserDTO struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ShippingAddress string `json:"shippingAddress"`
}

func toBookDTO(b catalog.Book) BookDTO {
	return BookDTO{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Price:       b.Price,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		CategoryIDs: b.CategoryIDs,
	}
}

// toBookDTOBare maps a book without its category ids, the shape the
// by-category listing returns.
func toBookDTOBare(b catalog.Book) BookDTO {
	dto := toBookDTO(b)
	dto.CategoryIDs = nil
	return dto
}

func toBookDTOs(bs []catalog.Book, mapper func(catalog.Book) BookDTO) []BookDTO {
	out := make([]BookDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, mapper(b))
	}
	return out
}

func toCategoryDTO(c catalog.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name, Description: c.Description}
}

func toCartDTO(c cart.Cart) CartDTO {
	items := make([]CartItemDTO, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, CartItemDTO{
			ID:        it.ID,
			BookID:    it.BookID,
			BookTitle: it.BookTitle,
			Quantity:  it.Quantity,
		})
	}
	return CartDTO{ID: c.ID, UserID: c.UserID, CartItems: items}
}

func toOrderItemDTO(it orders.Item) OrderItemDTO {
	return OrderItemDTO{ID: it.ID, BookID: it.BookID, Quantity: it.Quantity, Price: it.Price}
}

func toOrderDTO(o orders.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, toOrderItemDTO(it))
	}
	return OrderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		OrderItems: items,
		OrderDate:  o.OrderDate,
		Total:      o.Total,
		Status:     string(o.Status),
	}
}

func toUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		ShippingAddress: u.ShippingAddress,
	}
}
