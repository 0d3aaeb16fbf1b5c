package cart

import (
	"context"

	"github.com/pagecart/bookstore-api/internal/catalog"
)

type Store interface {
	GetByUser(ctx context.Context, userID string) (Cart, error)
	CreateForUser(ctx context.Context, userID string) error
	AddItem(ctx context.Context, cartID, bookID string, quantity int) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, quantity int) error
	DeleteItem(ctx context.Context, cartID, itemID string) error
}

// BookGetter resolves a book before it goes into a cart. catalog.Service
// satisfies it.
type BookGetter interface {
	GetBook(ctx context.Context, id string) (catalog.Book, error)
}

type Service struct {
	Store Store
	Books BookGetter
}

// GetForUser loads the caller's cart. Every registered user has one; a miss
// here means the registration invariant was broken and surfaces as NotFound.
func (s *Service) GetForUser(ctx context.Context, userID string) (Cart, error) {
	return s.Store.GetByUser(ctx, userID)
}

func (s *Service) CreateForUser(ctx context.Context, userID string) error {
	return s.Store.CreateForUser(ctx, userID)
}

func (s *Service) AddBook(ctx context.Context, userID, bookID string, quantity int) (Cart, error) {
	c, err := s.Store.GetByUser(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if _, err := s.Books.GetBook(ctx, bookID); err != nil {
		return Cart{}, err
	}
	if err := s.Store.AddItem(ctx, c.ID, bookID, quantity); err != nil {
		return Cart{}, err
	}
	return s.Store.GetByUser(ctx, userID)
}

func (s *Service) UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (Cart, error) {
	c, err := s.Store.GetByUser(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if err := s.Store.UpdateItemQuantity(ctx, c.ID, itemID, quantity); err != nil {
		return Cart{}, err
	}
	return s.Store.GetByUser(ctx, userID)
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (Cart, error) {
	c, err := s.Store.GetByUser(ctx, userID)
	if err != nil {
		return Cart{}, err
	}
	if err := s.Store.DeleteItem(ctx, c.ID, itemID); err != nil {
		return Cart{}, err
	}
	return s.Store.GetByUser(ctx, userID)
}
