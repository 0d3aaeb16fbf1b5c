package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/pagination"
)

// Request shapes with their validation functions. Validation runs before any
// business logic and returns every field problem at once.

type CreateBookRequest struct {
	Title       string          `json:"title"`
	Author      string          `json:"author"`
	ISBN        string          `json:"isbn"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CoverImage  string          `json:"coverImage"`
	CategoryIDs []string        `json:"categoryIds"`
}

func (r CreateBookRequest) validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if strings.TrimSpace(r.Title) == "" {
		errs = append(errs, apperr.FieldError{Field: "title", Message: "must not be blank"})
	}
	if strings.TrimSpace(r.Author) == "" {
		errs = append(errs, apperr.FieldError{Field: "author", Message: "must not be blank"})
	}
	if strings.TrimSpace(r.ISBN) == "" {
		errs = append(errs, apperr.FieldError{Field: "isbn", Message: "must not be blank"})
	}
	if r.Price.IsNegative() {
		errs = append(errs, apperr.FieldError{Field: "price", Message: "must not be negative"})
	}
	return errs
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r CategoryRequest) validate(partial bool) []apperr.FieldError {
	var errs []apperr.FieldError
	if r.Name == "" && !partial {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "must not be blank"})
	}
	if r.Name != "" && (len(r.Name) < 3 || len(r.Name) > 65) {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "length must be between 3 and 65"})
	}
	return errs
}

type AddToCartRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (r AddToCartRequest) validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if r.BookID == "" {
		errs = append(errs, apperr.FieldError{Field: "bookId", Message: "must not be blank"})
	}
	if r.Quantity <= 0 {
		errs = append(errs, apperr.FieldError{Field: "quantity", Message: "must be positive"})
	}
	return errs
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (r UpdateCartItemRequest) validate() []apperr.FieldError {
	if r.Quantity <= 0 {
		return []apperr.FieldError{{Field: "quantity", Message: "must be positive"}}
	}
	return nil
}

type UpdateOrderRequest struct {
	Status string `json:"status"`
}

type RegistrationRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	RepeatPassword  string `json:"repeatPassword"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ShippingAddress string `json:"shippingAddress"`
}

func (r RegistrationRequest) validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if !strings.Contains(r.Email, "@") || strings.TrimSpace(r.Email) == "" {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "must be a valid email"})
	}
	if r.Password == "" {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "must not be blank"})
	} else if len(r.Password) > 20 {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "length must be at most 20"})
	}
	if r.Password != r.RepeatPassword {
		errs = append(errs, apperr.FieldError{Field: "repeatPassword", Message: "passwords don't match"})
	}
	if strings.TrimSpace(r.FirstName) == "" {
		errs = append(errs, apperr.FieldError{Field: "firstName", Message: "must not be blank"})
	}
	if strings.TrimSpace(r.LastName) == "" {
		errs = append(errs, apperr.FieldError{Field: "lastName", Message: "must not be blank"})
	}
	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) validate() []apperr.FieldError {
	var errs []apperr.FieldError
	if r.Email == "" {
		errs = append(errs, apperr.FieldError{Field: "email", Message: "must not be blank"})
	}
	if r.Password == "" {
		errs = append(errs, apperr.FieldError{Field: "password", Message: "must not be blank"})
	}
	return errs
}

// pageParams reads the standard offset pagination query parameters.
func pageParams(r *http.Request) pagination.Page {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	return pagination.New(page, size)
}
