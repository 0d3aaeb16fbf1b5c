package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/catalog"
)

// fakeStore mirrors the repo contract, including the additive merge on the
// (cart, book) unique constraint.
type fakeStore struct {
	carts map[string]*Cart // by user id
}

func newFakeStore() *fakeStore { return &fakeStore{carts: map[string]*Cart{}} }

func (f *fakeStore) GetByUser(_ context.Context, userID string) (Cart, error) {
	c, ok := f.carts[userID]
	if !ok {
		return Cart{}, apperr.NotFound("can't find shopping cart for user: %s", userID)
	}
	return *c, nil
}

func (f *fakeStore) CreateForUser(_ context.Context, userID string) error {
	if _, ok := f.carts[userID]; ok {
		return nil
	}
	f.carts[userID] = &Cart{ID: uuid.NewString(), UserID: userID}
	return nil
}

func (f *fakeStore) byCartID(cartID string) *Cart {
	for _, c := range f.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (f *fakeStore) AddItem(_ context.Context, cartID, bookID string, quantity int) error {
	c := f.byCartID(cartID)
	for i := range c.Items {
		if c.Items[i].BookID == bookID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, Item{ID: uuid.NewString(), CartID: cartID, BookID: bookID, Quantity: quantity})
	return nil
}

func (f *fakeStore) UpdateItemQuantity(_ context.Context, cartID, itemID string, quantity int) error {
	c := f.byCartID(cartID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items[i].Quantity = quantity
			return nil
		}
	}
	return apperr.NotFound("can't find cart item with id: %s", itemID)
}

func (f *fakeStore) DeleteItem(_ context.Context, cartID, itemID string) error {
	c := f.byCartID(cartID)
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return apperr.NotFound("can't find cart item with id: %s", itemID)
}

type fakeBooks struct {
	books map[string]catalog.Book
}

func (f *fakeBooks) GetBook(_ context.Context, id string) (catalog.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return catalog.Book{}, apperr.NotFound("can't find book with id: %s", id)
	}
	return b, nil
}

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	books := &fakeBooks{books: map[string]catalog.Book{
		"bookA": {ID: "bookA", Title: "A", Price: decimal.NewFromInt(10)},
		"bookB": {ID: "bookB", Title: "B", Price: decimal.NewFromInt(5)},
	}}
	return &Service{Store: store, Books: books}, store
}

func TestCreateForUserIsIdempotent(t *testing.T) {
	svc, store := newTestService()

	require.NoError(t, svc.CreateForUser(context.Background(), "u1"))
	first := store.carts["u1"].ID
	require.NoError(t, svc.CreateForUser(context.Background(), "u1"))
	assert.Equal(t, first, store.carts["u1"].ID, "repeat creation must not replace the cart")

	c, err := svc.GetForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestGetForUserWithoutCart(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetForUser(context.Background(), "nobody")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddBookMergesQuantities(t *testing.T) {
	svc, _ := newTestService()
	require.NoError(t, svc.CreateForUser(context.Background(), "u1"))

	_, err := svc.AddBook(context.Background(), "u1", "bookA", 2)
	require.NoError(t, err)
	c, err := svc.AddBook(context.Background(), "u1", "bookA", 3)
	require.NoError(t, err)

	require.Len(t, c.Items, 1, "same book twice must merge, not duplicate")
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddUnknownBook(t *testing.T) {
	svc, _ := newTestService()
	require.NoError(t, svc.CreateForUser(context.Background(), "u1"))

	_, err := svc.AddBook(context.Background(), "u1", "missing", 1)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateAndRemoveAreOwnershipScoped(t *testing.T) {
	svc, store := newTestService()
	require.NoError(t, svc.CreateForUser(context.Background(), "owner"))
	require.NoError(t, svc.CreateForUser(context.Background(), "intruder"))

	c, err := svc.AddBook(context.Background(), "owner", "bookA", 1)
	require.NoError(t, err)
	itemID := c.Items[0].ID

	// another user cannot see, change or delete the item
	_, err = svc.UpdateItemQuantity(context.Background(), "intruder", itemID, 9)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	_, err = svc.RemoveItem(context.Background(), "intruder", itemID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Equal(t, 1, store.carts["owner"].Items[0].Quantity)

	c, err = svc.UpdateItemQuantity(context.Background(), "owner", itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Items[0].Quantity)

	c, err = svc.RemoveItem(context.Background(), "owner", itemID)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}
