package catalog

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pagecart/bookstore-api/internal/pagination"
)

// Store is the persistence boundary the service drives. *Repo satisfies it.
type Store interface {
	ListBooks(ctx context.Context, p pagination.Page) ([]Book, int, error)
	GetBook(ctx context.Context, id string) (Book, error)
	CreateBook(ctx context.Context, b Book) error
	UpdateBook(ctx context.Context, b Book) error
	DeleteBook(ctx context.Context, id string) error
	SearchBooksByISBN(ctx context.Context, isbns []string) ([]Book, error)
	ListBooksByCategory(ctx context.Context, categoryID string, p pagination.Page) ([]Book, int, error)
	ResolveCategoryIDs(ctx context.Context, ids []string) ([]string, error)

	ListCategories(ctx context.Context, p pagination.Page) ([]Category, int, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	CreateCategory(ctx context.Context, c Category) error
	UpdateCategory(ctx context.Context, c Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// Cache is an optional read-through cache for book lookups.
type Cache interface {
	GetBook(ctx context.Context, id string) (Book, bool)
	SetBook(ctx context.Context, b Book)
	DeleteBook(ctx context.Context, id string)
}

type Service struct {
	Store Store
	Cache Cache // nil disables caching
}

func (s *Service) ListBooks(ctx context.Context, p pagination.Page) ([]Book, int, error) {
	return s.Store.ListBooks(ctx, p)
}

func (s *Service) GetBook(ctx context.Context, id string) (Book, error) {
	if s.Cache != nil {
		if b, ok := s.Cache.GetBook(ctx, id); ok {
			return b, nil
		}
	}
	b, err := s.Store.GetBook(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if s.Cache != nil {
		s.Cache.SetBook(ctx, b)
	}
	return b, nil
}

func (s *Service) CreateBook(ctx context.Context, b Book) (Book, error) {
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	resolved, err := s.resolveCategories(ctx, b.ID, b.CategoryIDs)
	if err != nil {
		return Book{}, err
	}
	b.CategoryIDs = resolved
	if err := s.Store.CreateBook(ctx, b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) UpdateBook(ctx context.Context, b Book) (Book, error) {
	b.UpdatedAt = time.Now().UTC()
	resolved, err := s.resolveCategories(ctx, b.ID, b.CategoryIDs)
	if err != nil {
		return Book{}, err
	}
	b.CategoryIDs = resolved
	if err := s.Store.UpdateBook(ctx, b); err != nil {
		return Book{}, err
	}
	if s.Cache != nil {
		s.Cache.DeleteBook(ctx, b.ID)
	}
	return s.Store.GetBook(ctx, b.ID)
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	if err := s.Store.DeleteBook(ctx, id); err != nil {
		return err
	}
	if s.Cache != nil {
		s.Cache.DeleteBook(ctx, id)
	}
	return nil
}

func (s *Service) SearchBooksByISBN(ctx context.Context, isbns []string) ([]Book, error) {
	if len(isbns) == 0 {
		return nil, nil
	}
	return s.Store.SearchBooksByISBN(ctx, isbns)
}

func (s *Service) ListBooksByCategory(ctx context.Context, categoryID string, p pagination.Page) ([]Book, int, error) {
	return s.Store.ListBooksByCategory(ctx, categoryID, p)
}

// resolveCategories keeps only ids that exist; unknown ids are dropped, not
// rejected, matching the catalog's find-all-by-id semantics.
func (s *Service) resolveCategories(ctx context.Context, bookID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resolved, err := s.Store.ResolveCategoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(resolved) < len(ids) {
		log.Printf("book %s: dropped %d unresolved category ids", bookID, len(ids)-len(resolved))
	}
	return resolved, nil
}

func (s *Service) ListCategories(ctx context.Context, p pagination.Page) ([]Category, int, error) {
	return s.Store.ListCategories(ctx, p)
}

func (s *Service) GetCategory(ctx context.Context, id string) (Category, error) {
	return s.Store.GetCategory(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, c Category) (Category, error) {
	c.ID = uuid.NewString()
	if err := s.Store.CreateCategory(ctx, c); err != nil {
		return Category{}, err
	}
	return c, nil
}

// UpdateCategory merges non-empty request fields onto the stored category.
func (s *Service) UpdateCategory(ctx context.Context, id string, patch Category) (Category, error) {
	current, err := s.Store.GetCategory(ctx, id)
	if err != nil {
		return Category{}, err
	}
	if patch.Name != "" {
		current.Name = patch.Name
	}
	if patch.Description != "" {
		current.Description = patch.Description
	}
	if err := s.Store.UpdateCategory(ctx, current); err != nil {
		return Category{}, err
	}
	return current, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return s.Store.DeleteCategory(ctx, id)
}
