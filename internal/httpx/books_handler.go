package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/catalog"
	"github.com/pagecart/bookstore-api/internal/pagination"
	"github.com/pagecart/bookstore-api/internal/users"
)

// BookCatalog is the slice of catalog.Service the book routes need.
type BookCatalog interface {
	ListBooks(ctx context.Context, p pagination.Page) ([]catalog.Book, int, error)
	GetBook(ctx context.Context, id string) (catalog.Book, error)
	CreateBook(ctx context.Context, b catalog.Book) (catalog.Book, error)
	UpdateBook(ctx context.Context, b catalog.Book) (catalog.Book, error)
	DeleteBook(ctx context.Context, id string) error
	SearchBooksByISBN(ctx context.Context, isbns []string) ([]catalog.Book, error)
}

type BooksHandler struct {
	Catalog BookCatalog
}

func (h *BooksHandler) Register(r chi.Router) {
	r.Route("/books", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/search", h.search)
		r.Get("/{id}", h.get)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(users.RoleAdmin))
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *BooksHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := pageParams(r)
	books, total, err := h.Catalog.ListBooks(ctx, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.NewPaged(toBookDTOs(books, toBookDTO), p, total))
}

func (h *BooksHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	b, err := h.Catalog.GetBook(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTO(b))
}

// search returns a flat list, not a page. The asymmetry with the paginated
// listing is intentional until product decides otherwise.
func (h *BooksHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	books, err := h.Catalog.SearchBooksByISBN(ctx, r.URL.Query()["isbn"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTOs(books, toBookDTO))
}

func (h *BooksHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := h.Catalog.CreateBook(ctx, bookFromRequest(req))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTO(b))
}

func (h *BooksHandler) update(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b := bookFromRequest(req)
	b.ID = chi.URLParam(r, "id")
	updated, err := h.Catalog.UpdateBook(ctx, b)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookDTO(updated))
}

func (h *BooksHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.DeleteBook(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func bookFromRequest(req CreateBookRequest) catalog.Book {
	return catalog.Book{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		CategoryIDs: req.CategoryIDs,
	}
}
