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

type CategoryCatalog interface {
	ListCategories(ctx context.Context, p pagination.Page) ([]catalog.Category, int, error)
	GetCategory(ctx context.Context, id string) (catalog.Category, error)
	CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error)
	UpdateCategory(ctx context.Context, id string, patch catalog.Category) (catalog.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ListBooksByCategory(ctx context.Context, categoryID string, p pagination.Page) ([]catalog.Book, int, error)
}

type CategoriesHandler struct {
	Catalog CategoryCatalog
}

func (h *CategoriesHandler) Register(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/books", h.listBooks)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(users.RoleAdmin))
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
		})
	})
}

func (h *CategoriesHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := pageParams(r)
	cats, total, err := h.Catalog.ListCategories(ctx, p)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]CategoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryDTO(c))
	}
	writeJSON(w, http.StatusOK, pagination.NewPaged(out, p, total))
}

func (h *CategoriesHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Catalog.GetCategory(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

func (h *CategoriesHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := pageParams(r)
	books, total, err := h.Catalog.ListBooksByCategory(ctx, chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pagination.NewPaged(toBookDTOs(books, toBookDTOBare), p, total))
}

func (h *CategoriesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(false); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Catalog.CreateCategory(ctx, catalog.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

// update merges the request onto the stored category; empty fields keep
// their stored values.
func (h *CategoriesHandler) update(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(true); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Catalog.UpdateCategory(ctx, chi.URLParam(r, "id"),
		catalog.Category{Name: req.Name, Description: req.Description})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryDTO(c))
}

func (h *CategoriesHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Catalog.DeleteCategory(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
