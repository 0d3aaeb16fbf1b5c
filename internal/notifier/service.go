// Package notifier consumes order events and records a notification per
// placed order. It stands in for the email/push fan-out a storefront would
// hang off the order feed.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/pagecart/bookstore-api/internal/kafka"
	"github.com/pagecart/bookstore-api/internal/orders"
	"github.com/pagecart/bookstore-api/internal/redisx"
)

const KindOrderPlaced = "ORDER_PLACED"

type Notification struct {
	ID        string
	OrderID   string
	UserID    string
	Kind      string
	CreatedAt time.Time
}

type Store interface {
	Record(ctx context.Context, n Notification) error
}

// Deduper keeps redeliveries from producing duplicate notifications.
type Deduper interface {
	Seen(ctx context.Context, eventID string) bool
	Mark(ctx context.Context, eventID string)
}

type Service struct {
	Store       Store
	Dedup       Deduper
	ServiceName string
}

// HandleOrderPlaced is mounted as the consumer handler for order.placed.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}
	if s.Dedup.Seen(ctx, env.EventID) {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}
	n := Notification{
		ID:        uuid.NewString(),
		OrderID:   p.OrderID,
		UserID:    p.UserID,
		Kind:      KindOrderPlaced,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Store.Record(ctx, n); err != nil {
		return err
	}
	s.Dedup.Mark(ctx, env.EventID)
	return nil
}

// RedisDeduper implements Deduper on top of the shared dedup key space.
type RedisDeduper struct {
	R       *redis.Client
	Service string
}

func (d *RedisDeduper) Seen(ctx context.Context, eventID string) bool {
	ok, _ := redisx.Exists(ctx, d.R, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID))
	return ok
}

func (d *RedisDeduper) Mark(ctx context.Context, eventID string) {
	_ = d.R.Set(ctx, fmt.Sprintf(redisx.KeyDedup, d.Service, eventID), "1", redisx.TTLDedup).Err()
}
