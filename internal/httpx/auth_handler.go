package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pagecart/bookstore-api/internal/apperr"
	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/users"
)

type UserService interface {
	Register(ctx context.Context, in users.RegistrationInput) (users.User, error)
	Authenticate(ctx context.Context, email, password string) (users.User, error)
}

type AuthHandler struct {
	Users  UserService
	Tokens *auth.Manager
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/registration", h.registration)
	r.Post("/login", h.login)
}

func (h *AuthHandler) registration(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
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

	u, err := h.Users.Register(ctx, users.RegistrationInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
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

	u, err := h.Users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.Tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Roles: u.Roles}, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
