package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/cart"
	"github.com/pagecart/bookstore-api/internal/catalog"
	"github.com/pagecart/bookstore-api/internal/orders"
	"github.com/pagecart/bookstore-api/internal/pagination"
	"github.com/pagecart/bookstore-api/internal/users"
)

type stubCatalog struct {
	books map[string]catalog.Book
}

func (s *stubCatalog) ListBooks(_ context.Context, _ pagination.Page) ([]catalog.Book, int, error) {
	var out []catalog.Book
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (s *stubCatalog) GetBook(_ context.Context, id string) (catalog.Book, error) {
	b, ok := s.books[id]
	if !ok {
		return catalog.Book{}, apperr.NotFound("can't find book with id: %s", id)
	}
	return b, nil
}

func (s *stubCatalog) CreateBook(_ context.Context, b catalog.Book) (catalog.Book, error) {
	b.ID = "new-book"
	s.books[b.ID] = b
	return b, nil
}

func (s *stubCatalog) UpdateBook(_ context.Context, b catalog.Book) (catalog.Book, error) {
	if _, ok := s.books[b.ID]; !ok {
		return catalog.Book{}, apperr.NotFound("can't find book with id: %s", b.ID)
	}
	s.books[b.ID] = b
	return b, nil
}

func (s *stubCatalog) DeleteBook(_ context.Context, id string) error {
	if _, ok := s.books[id]; !ok {
		return apperr.NotFound("can't find book with id: %s", id)
	}
	delete(s.books, id)
	return nil
}

func (s *stubCatalog) SearchBooksByISBN(_ context.Context, isbns []string) ([]catalog.Book, error) {
	var out []catalog.Book
	for _, b := range s.books {
		for _, i := range isbns {
			if b.ISBN == i {
				out = append(out, b)
			}
		}
	}
	return out, nil
}

type stubOrders struct {
	placeErr error
}

func (s *stubOrders) Place(_ context.Context, userID, _ string) (orders.Order, error) {
	if s.placeErr != nil {
		return orders.Order{}, s.placeErr
	}
	return orders.Order{ID: "o1", UserID: userID, Status: orders.StatusPending}, nil
}

func (s *stubOrders) ListForUser(_ context.Context, _ string, _ pagination.Page) ([]orders.Order, int, error) {
	return nil, 0, nil
}

func (s *stubOrders) ListItems(_ context.Context, _, _ string, _ pagination.Page) ([]orders.Item, int, error) {
	return nil, 0, nil
}

func (s *stubOrders) GetItem(_ context.Context, _, _, _ string) (orders.Item, error) {
	return orders.Item{}, apperr.NotFound("no such item")
}

func (s *stubOrders) Status(_ context.Context, orderID string) (orders.Status, error) {
	if orderID == "ghost" {
		return "", apperr.NotFound("can't find order with id: %s", orderID)
	}
	return orders.StatusPending, nil
}

func (s *stubOrders) UpdateStatus(_ context.Context, orderID string, status orders.Status, _ string) (orders.Order, error) {
	return orders.Order{ID: orderID, Status: status}, nil
}

type stubCart struct{}

func (stubCart) GetForUser(_ context.Context, userID string) (cart.Cart, error) {
	return cart.Cart{ID: "c1", UserID: userID}, nil
}
func (stubCart) AddBook(_ context.Context, userID, bookID string, q int) (cart.Cart, error) {
	return cart.Cart{ID: "c1", UserID: userID, Items: []cart.Item{{ID: "i1", BookID: bookID, Quantity: q}}}, nil
}
func (stubCart) UpdateItemQuantity(_ context.Context, userID, _ string, _ int) (cart.Cart, error) {
	return cart.Cart{ID: "c1", UserID: userID}, nil
}
func (stubCart) RemoveItem(_ context.Context, userID, _ string) (cart.Cart, error) {
	return cart.Cart{ID: "c1", UserID: userID}, nil
}

type testEnv struct {
	router     *chi.Mux
	userToken  string
	adminToken string
	catalog    *stubCatalog
	orders     *stubOrders
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mgr := &auth.Manager{Secret: []byte("test"), TTL: time.Hour}
	cat := &stubCatalog{books: map[string]catalog.Book{
		"b1": {ID: "b1", Title: "Known", Author: "a", ISBN: "111", Price: decimal.NewFromInt(10)},
	}}
	ord := &stubOrders{}

	r := chi.NewRouter()
	h := Handlers{
		Books:  &BooksHandler{Catalog: cat},
		Cart:   &CartHandler{Cart: stubCart{}},
		Orders: &OrdersHandler{Orders: ord},
	}
	r.Group(func(g chi.Router) {
		g.Use(auth.Authenticator(mgr))
		h.Books.Register(g)
		h.Cart.Register(g)
		h.Orders.Register(g)
	})

	user, err := mgr.Issue(auth.Identity{UserID: "u1", Roles: []string{users.RoleUser}}, time.Now())
	require.NoError(t, err)
	admin, err := mgr.Issue(auth.Identity{UserID: "a1", Roles: []string{users.RoleUser, users.RoleAdmin}}, time.Now())
	require.NoError(t, err)

	return &testEnv{router: r, userToken: user, adminToken: admin, catalog: cat, orders: ord}
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestRoutesRequireToken(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do("GET", "/books", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, e.do("GET", "/cart", "garbage", nil).Code)
}

func TestGetBookNotFound(t *testing.T) {
	e := newTestEnv(t)
	w := e.do("GET", "/books/ghost", e.userToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestBookWritesAreAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	payload := map[string]any{"title": "t", "author": "a", "isbn": "9", "price": 3}

	assert.Equal(t, http.StatusForbidden, e.do("POST", "/books", e.userToken, payload).Code)
	assert.Equal(t, http.StatusForbidden, e.do("DELETE", "/books/b1", e.userToken, nil).Code)

	w := e.do("POST", "/books", e.adminToken, payload)
	require.Equal(t, http.StatusOK, w.Code)
	var dto BookDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "new-book", dto.ID)

	assert.Equal(t, http.StatusNoContent, e.do("DELETE", "/books/b1", e.adminToken, nil).Code)
}

func TestCreateBookValidation(t *testing.T) {
	e := newTestEnv(t)
	w := e.do("POST", "/books", e.adminToken, map[string]any{"title": " ", "price": -4})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"title", "author", "isbn", "price"}, fields(body.Fields))
}

func TestAddToCartValidation(t *testing.T) {
	e := newTestEnv(t)
	w := e.do("POST", "/cart", e.userToken, map[string]any{"bookId": "b1", "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do("POST", "/cart", e.userToken, map[string]any{"bookId": "b1", "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	var dto CartDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	require.Len(t, dto.CartItems, 1)
	assert.Equal(t, 2, dto.CartItems[0].Quantity)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	e := newTestEnv(t)
	e.orders.placeErr = apperr.OrderProcessing("can't process an empty order")

	w := e.do("POST", "/orders", e.userToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderStatusIsAdminOnly(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, http.StatusForbidden, e.do("GET", "/orders/o1/status", e.userToken, nil).Code)

	w := e.do("GET", "/orders/o1/status", e.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "PENDING", body["status"])

	assert.Equal(t, http.StatusNotFound, e.do("GET", "/orders/ghost/status", e.adminToken, nil).Code)
}

func TestUpdateOrderStatusIsAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	payload := map[string]string{"status": "PROCESSING"}

	assert.Equal(t, http.StatusForbidden, e.do("PATCH", "/orders/o1", e.userToken, payload).Code)

	w := e.do("PATCH", "/orders/o1", e.adminToken, payload)
	require.Equal(t, http.StatusOK, w.Code)
	var dto OrderDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "PROCESSING", dto.Status)

	w = e.do("PATCH", "/orders/o1", e.adminToken, map[string]string{"status": "NONSENSE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
