package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(m *ServerMetrics) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	if m != nil {
		r.Use(m.Middleware)
	}
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", MetricsHandler())
	return r
}

type Handlers struct {
	Auth       *AuthHandler
	Books      *BooksHandler
	Categories *CategoriesHandler
	Cart       *CartHandler
	Orders     *OrdersHandler
}

// Mount attaches the API surface: /auth is public, everything else sits
// behind the bearer-token authenticator.
func Mount(r *chi.Mux, h Handlers, authn func(http.Handler) http.Handler) {
	r.Route("/auth", h.Auth.Register)
	r.Group(func(g chi.Router) {
		g.Use(authn)
		h.Books.Register(g)
		h.Categories.Register(g)
		h.Cart.Register(g)
		h.Orders.Register(g)
	})
}
