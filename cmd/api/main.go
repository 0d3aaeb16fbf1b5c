package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pagecart/bookstore-api/internal/auth"
	"github.com/pagecart/bookstore-api/internal/cart"
	"github.com/pagecart/bookstore-api/internal/catalog"
	"github.com/pagecart/bookstore-api/internal/config"
	"github.com/pagecart/bookstore-api/internal/httpx"
	kafkax "github.com/pagecart/bookstore-api/internal/kafka"
	"github.com/pagecart/bookstore-api/internal/orders"
	"github.com/pagecart/bookstore-api/internal/postgres"
	"github.com/pagecart/bookstore-api/internal/redisx"
	"github.com/pagecart/bookstore-api/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers
	placed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024)
	placed.Start(ctx)
	statusFeed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	statusFeed.Start(ctx)

	// Stores
	userRepo := &users.Repo{DB: db}
	if err := userRepo.EnsureRoles(ctx); err != nil {
		log.Fatalf("seed roles: %v", err)
	}
	catalogRepo := &catalog.Repo{DB: db}
	cartRepo := &cart.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}

	// Services
	catalogSvc := &catalog.Service{Store: catalogRepo, Cache: &catalog.RedisCache{R: rdb}}
	cartSvc := &cart.Service{Store: cartRepo, Books: catalogSvc}
	userSvc := &users.Service{Store: userRepo, Carts: cartSvc}
	orderSvc := &orders.Service{
		Store:       orderRepo,
		Carts:       cartRepo,
		Placed:      placed,
		StatusFeed:  statusFeed,
		Statuses:    &orders.RedisStatusCache{R: rdb},
		ServiceName: cfg.ServiceName,
	}
	tokens := &auth.Manager{Secret: []byte(cfg.JWTSecret), TTL: cfg.JWTTTL}

	// Router & handlers
	metrics := httpx.NewServerMetrics("api")
	router := httpx.NewRouter(metrics)
	httpx.Mount(router, httpx.Handlers{
		Auth:       &httpx.AuthHandler{Users: userSvc, Tokens: tokens},
		Books:      &httpx.BooksHandler{Catalog: catalogSvc},
		Categories: &httpx.CategoriesHandler{Catalog: catalogSvc},
		Cart:       &httpx.CartHandler{Cart: cartSvc},
		Orders:     &httpx.OrdersHandler{Orders: orderSvc},
	}, auth.Authenticator(tokens))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	placed.Close() // stop accepting, flush queued events
	statusFeed.Close()
	placed.WaitClosed()
	statusFeed.WaitClosed()
}
