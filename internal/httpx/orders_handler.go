package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/orders"
	"github.com/pagecart/bookstore-api/internal/pagination"
	"github.com/pagecart/bookstore-api/internal/users"
)

type OrderService interface {
	Place(ctx context.Context, userID, traceID string) (orders.Order, error)
	ListForUser(ctx context.Context, userID string, p pagination.Page) ([]orders.Order, int, error)
	ListItems(ctx context.Context, userID, orderID string, p pagination.Page) ([]orders.Item, int, error)
	GetItem(ctx context.Context, userID, orderID, itemID string) (orders.Item, error)
	Status(ctx context.Context, orderID string) (orders.Status, error)
	UpdateStatus(ctx context.Context, orderID string, status orders.Status, traceID string) (orders.Order, error)
}

type OrdersHandler struct {
	Orders OrderService
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.place)
		r.Get("/{orderId}/items", h.listItems)
		r.Get("/{orderId}/items/{itemId}", h.getItem)
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(users.RoleAdmin))
			r.Get("/{id}/status", h.getStatus)
			r.Patch("/{id}", h.updateStatus)
		})
	})
}

func (h *OrdersHandler) place(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.Place(ctx, id.UserID, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := pageParams(r)
	os, total, err := h.Orders.ListForUser(ctx, id.UserID, p)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]OrderDTO, 0, len(os))
	for _, o := range os {
		out = append(out, toOrderDTO(o))
	}
	writeJSON(w, http.StatusOK, pagination.NewPaged(out, p, total))
}

func (h *OrdersHandler) listItems(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := pageParams(r)
	items, total, err := h.Orders.ListItems(ctx, id.UserID, chi.URLParam(r, "orderId"), p)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]OrderItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toOrderItemDTO(it))
	}
	writeJSON(w, http.StatusOK, pagination.NewPaged(out, p, total))
}

func (h *OrdersHandler) getItem(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it, err := h.Orders.GetItem(ctx, id.UserID, chi.URLParam(r, "orderId"), chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderItemDTO(it))
}

func (h *OrdersHandler) getStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	st, err := h.Orders.Status(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(st)})
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperr.Validation("invalid json"))
		return
	}
	status, err := orders.ParseStatus(req.Status)
	if err != nil {
		writeError(w, apperr.Validation("invalid request",
			apperr.FieldError{Field: "status", Message: "unknown status"}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Orders.UpdateStatus(ctx, chi.URLParam(r, "id"), status, r.Header.Get("X-Request-Id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderDTO(o))
}
