package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/cart"
)

type CartService interface {
	GetForUser(ctx context.Context, userID string) (cart.Cart, error)
	AddBook(ctx context.Context, userID, bookID string, quantity int) (cart.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (cart.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (cart.Cart, error)
}

type CartHandler struct {
	Cart CartService
}

func (h *CartHandler) Register(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.get)
		r.Post("/", h.addBook)
		r.Put("/items/{id}", h.updateItem)
		r.Delete("/items/{id}", h.removeItem)
	})
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Cart.GetForUser(ctx, id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) addBook(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.AddBook(ctx, id.UserID, req.BookID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeError(w, apperr.Validation("invalid request", errs...))
		return
	}

	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.UpdateItemQuantity(ctx, id.UserID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := h.Cart.RemoveItem(ctx, id.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(c))
}
