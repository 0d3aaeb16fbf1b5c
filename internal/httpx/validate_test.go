package httpx

import (
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/pagecart/bookstore-api/internal/apperr"
)

func fields(errs []apperr.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestCreateBookRequestValidate(t *testing.T) {
	ok := CreateBookRequest{Title: "t", Author: "a", ISBN: "1", Price: decimal.NewFromInt(5)}
	assert.Empty(t, ok.validate())

	bad := CreateBookRequest{Title: "  ", Price: decimal.NewFromInt(-1)}
	assert.ElementsMatch(t, []string{"title", "author", "isbn", "price"}, fields(bad.validate()))

	free := CreateBookRequest{Title: "t", Author: "a", ISBN: "1"} // zero price is allowed
	assert.Empty(t, free.validate())
}

func TestCategoryRequestValidate(t *testing.T) {
	assert.Empty(t, CategoryRequest{Name: "fiction"}.validate(false))
	assert.Equal(t, []string{"name"}, fields(CategoryRequest{}.validate(false)))
	assert.Equal(t, []string{"name"}, fields(CategoryRequest{Name: "ab"}.validate(false)))

	// partial update may omit the name but not shorten it
	assert.Empty(t, CategoryRequest{}.validate(true))
	assert.Equal(t, []string{"name"}, fields(CategoryRequest{Name: "ab"}.validate(true)))
}

func TestAddToCartRequestValidate(t *testing.T) {
	assert.Empty(t, AddToCartRequest{BookID: "b", Quantity: 1}.validate())
	assert.ElementsMatch(t, []string{"bookId", "quantity"}, fields(AddToCartRequest{Quantity: 0}.validate()))
	assert.Equal(t, []string{"quantity"}, fields(AddToCartRequest{BookID: "b", Quantity: -2}.validate()))
}

func TestRegistrationRequestValidate(t *testing.T) {
	ok := RegistrationRequest{
		Email: "jo@example.com", Password: "pw123456", RepeatPassword: "pw123456",
		FirstName: "Jo", LastName: "Doe",
	}
	assert.Empty(t, ok.validate())

	mismatch := ok
	mismatch.RepeatPassword = "other"
	assert.Equal(t, []string{"repeatPassword"}, fields(mismatch.validate()))

	assert.Contains(t, fields(RegistrationRequest{}.validate()), "email")
}

func TestPageParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/books?page=3&size=10", nil)
	p := pageParams(r)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 10, p.Size)
	assert.Equal(t, 30, p.Offset())

	r = httptest.NewRequest("GET", "/books?page=-2&size=junk", nil)
	p = pageParams(r)
	assert.Equal(t, 0, p.Number)
	assert.NotZero(t, p.Size)
}
